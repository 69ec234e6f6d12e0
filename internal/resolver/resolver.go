// Package resolver implements the linking pipeline: export-scope fixpoint,
// macro phase interleaving, and the ordered resolution passes that turn
// library units into a resolved element batch.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/unit"
)

// ErrNoLibraries is returned when Link is called with no input units.
var ErrNoLibraries = errors.New("no input libraries")

// Options configures one Link invocation.
type Options struct {
	// Dependencies are previously linked, immutable libraries that batch
	// units may import and re-export.
	Dependencies []*unit.Library
	// Executor runs macro generation code; nil disables the macro phases.
	Executor element.MacroExecutor
	// Serializer receives the finished element graph; nil skips
	// serialization and Link returns nil bytes.
	Serializer element.Serializer
	// Logger receives phase and pass logging; nil disables logging.
	Logger *slog.Logger
}

// Link runs the whole pipeline over units and returns the resolved batch
// plus the serialized artifact. The operation is all-or-nothing: either the
// full batch is produced, or a fatal error is returned and no partial state
// escapes. Degraded results (unresolvable types, macro failures) are not
// errors; they surface as diagnostics on the returned batch.
func Link(ctx context.Context, units []*unit.Library, opts Options) (*element.Batch, []byte, error) {
	if len(units) == 0 {
		return nil, nil, ErrNoLibraries
	}

	c := newBatchContext(units, opts.Dependencies, opts.Executor, opts.Logger)
	c.Log(slog.LevelDebug, "linking batch",
		slog.Int("units", len(units)),
		slog.Int("dependencies", len(opts.Dependencies)))

	c.buildSkeletons()
	c.computeExportScopes()

	if err := c.initTypeProvider(); err != nil {
		return nil, nil, err
	}

	c.Log(slog.LevelDebug, "running macro types phase")
	c.runTypesMacroPhase(ctx)
	c.computeExportScopes()

	c.Log(slog.LevelDebug, "resolving explicit types")
	c.resolveExplicitTypes()

	c.Log(slog.LevelDebug, "running macro declarations phase")
	c.runDeclarationsMacroPhase(ctx)

	// Macro-generated declarations still need their type shells resolved;
	// the pass skips everything it already handled.
	c.resolveExplicitTypes()

	c.Log(slog.LevelDebug, "running resolution passes")
	c.computeVariance()
	c.checkSimplyBounded()
	c.detectAliasCycles()
	c.assignDefaultSupertypes()
	c.synthesizeDefaultConstructors()
	c.rewriteConstFields()
	c.resolveFieldFormals()
	c.buildEnumMembers()
	c.computeFieldPromotability()
	c.resolveSuperConstructors()
	c.inferTopLevelTypes()
	c.resolveConstructorRedirects()

	ev := newConstEvaluator(c)
	ev.resolveConstInitializers()
	ev.resolveDefaultValues()
	c.resolveMetadata(ev)

	c.Log(slog.LevelDebug, "running macro definitions phase")
	c.runDefinitionsMacroPhase(ctx)

	c.buildBatchIndexes()
	c.detachSyntax()
	c.mergeAugmentations()

	for _, lib := range c.arena {
		lib.Scope().Freeze()
	}

	batch := c.Builder.Batch()

	var artifact []byte
	if opts.Serializer != nil {
		for _, lib := range units {
			if err := opts.Serializer.WriteLibrary(c.ElemLib[lib]); err != nil {
				return nil, nil, fmt.Errorf("serializing %s: %w", lib.URI, err)
			}
		}
		var err error
		artifact, err = opts.Serializer.Finish()
		if err != nil {
			return nil, nil, fmt.Errorf("finishing serialization: %w", err)
		}
	}

	c.Log(slog.LevelDebug, "batch linked",
		slog.Int("diagnostics", len(batch.Diagnostics())),
		slog.Int("artifact_bytes", len(artifact)))
	return batch, artifact, nil
}
