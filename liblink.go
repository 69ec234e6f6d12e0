// Package liblink links batches of pre-parsed library units: it computes
// transitive export scopes across possibly-cyclic export graphs, interleaves
// the three macro generation phases with resolution, runs the resolution
// passes in their fixed order, and serializes the resolved element model.
//
// Parsing source text into units is the caller's job; see the unit package
// for the input model and the element package for the output model.
package liblink

import (
	"context"
	"log/slog"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/resolver"
	"github.com/golanglink/liblink/unit"
)

// ErrNoLibraries is returned when Link is called with no input units.
var ErrNoLibraries = resolver.ErrNoLibraries

// ErrBootstrapMissing is returned when neither the batch nor its linked
// dependencies provide the core library with its foundational declarations.
var ErrBootstrapMissing = resolver.ErrBootstrapMissing

// CoreLibraryURI is the bootstrap library every batch needs.
const CoreLibraryURI = resolver.CoreLibraryURI

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (scope merges, macro steps, passes).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// LinkOption configures Link.
type LinkOption func(*linkConfig)

type linkConfig struct {
	logger     *slog.Logger
	executor   element.MacroExecutor
	serializer element.Serializer
	deps       []*unit.Library
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) LinkOption {
	return func(c *linkConfig) { c.logger = logger }
}

// WithMacroExecutor enables the macro phases, backed by the given executor.
// Without one, the macro phases are skipped entirely.
func WithMacroExecutor(exec element.MacroExecutor) LinkOption {
	return func(c *linkConfig) { c.executor = exec }
}

// WithSerializer replaces the default JSON serializer.
func WithSerializer(s element.Serializer) LinkOption {
	return func(c *linkConfig) { c.serializer = s }
}

// WithLinkedDependencies adds previously linked libraries the batch may
// import and re-export. Their export scopes are read, never modified.
func WithLinkedDependencies(deps ...*unit.Library) LinkOption {
	return func(c *linkConfig) { c.deps = append(c.deps, deps...) }
}

// Result is the outcome of one Link call.
type Result struct {
	// Batch is the resolved element model.
	Batch *element.Batch
	// Bytes is the serialized artifact, nil when serialization was
	// disabled with WithSerializer(nil).
	Bytes []byte
}

// Diagnostics returns the diagnostics recorded during linking.
func (r *Result) Diagnostics() []element.Diagnostic { return r.Batch.Diagnostics() }

// HasErrors reports whether any diagnostic is at error severity.
func (r *Result) HasErrors() bool { return r.Batch.HasErrors() }

// Library returns the resolved library with the given URI, or nil.
func (r *Result) Library(uri string) *element.Library { return r.Batch.Library(uri) }

// Link links a batch of units and returns the resolved batch plus the
// serialized artifact. The operation is all-or-nothing: on error no partial
// state escapes. Degraded results surface as diagnostics on the result, not
// as errors.
//
// Example:
//
//	units, err := liblink.LoadUnits(liblink.Dir("./libs"))
//	...
//	res, err := liblink.Link(units,
//	    liblink.WithLogger(slog.Default()),
//	    liblink.WithMacroExecutor(myExecutor),
//	)
func Link(units []*unit.Library, opts ...LinkOption) (*Result, error) {
	return LinkContext(context.Background(), units, opts...)
}

// LinkContext is Link with a caller-supplied context, passed through to
// macro executor calls for cancellation of generation work. The linking
// passes themselves do not observe the context.
func LinkContext(ctx context.Context, units []*unit.Library, opts ...LinkOption) (*Result, error) {
	cfg := linkConfig{serializer: element.NewJSONSerializer()}
	for _, opt := range opts {
		opt(&cfg)
	}

	batch, bytes, err := resolver.Link(ctx, units, resolver.Options{
		Dependencies: cfg.deps,
		Executor:     cfg.executor,
		Serializer:   cfg.serializer,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Batch: batch, Bytes: bytes}, nil
}
