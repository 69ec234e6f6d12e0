package resolver

import (
	"log/slog"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// CoreLibraryURI is the bootstrap library every batch needs, either as an
// input or as a previously linked dependency. It declares the root object
// type and the primitive types the linker hands out during resolution.
const CoreLibraryURI = "std:core"

// edge is an export or import edge resolved to an arena handle.
type edge struct {
	target int
	filter unit.NameFilter
}

// batchContext holds indices and working state for all linking phases.
//
// Libraries are addressed by small integer handles into the arena: batch
// units first, in input order, then previously linked dependencies. Cyclic
// library graphs are therefore just edges between handles, never ownership
// cycles.
type batchContext struct {
	Builder *element.Builder

	// Units are the batch's input libraries, in input order.
	Units []*unit.Library

	// Deps are previously linked, immutable libraries. Their export scopes
	// are merge sources only; no pass mutates them.
	Deps []*unit.Library

	// arena is Units followed by Deps; a handle indexes into it.
	arena   []*unit.Library
	handles map[string]int // URI -> handle

	// exportEdges and importEdges are per-handle resolved edge lists.
	// Edges whose target URI is unknown in the batch are dropped.
	exportEdges [][]edge
	importEdges [][]edge

	// ElemLib maps each arena library to its element counterpart, and
	// unitOf is its inverse. batchElem marks element libraries that belong
	// to the batch output rather than to a previously linked dependency.
	ElemLib   map[*unit.Library]*element.Library
	unitOf    map[*element.Library]*unit.Library
	batchElem map[*element.Library]bool

	// DeclElem is the handle table from unit declarations to elements,
	// built during skeleton construction and discarded at the detachment
	// pass. Syntax ownership belongs to the callers; nothing may hold it
	// past detachment.
	DeclElem map[unit.Declaration]element.Element

	// typesResolved marks declarations whose explicit types have been
	// resolved, so macro-generated declarations can be picked up by a
	// later sweep without redoing earlier ones.
	typesResolved map[unit.Declaration]bool

	provider *typeProvider
	executor element.MacroExecutor

	// importScopes caches per-library visibility; invalidated whenever the
	// export fixpoint runs (scopeGen).
	importScopes   map[*unit.Library]*unit.ExportScope
	importScopeGen map[*unit.Library]int
	scopeGen       int

	// pendingAugs are macro-generated definition sources awaiting the
	// augmentation merge pass.
	pendingAugs []pendingAugmentation

	types.Logger
}

type pendingAugmentation struct {
	lib *unit.Library
	aug element.Augmentation
}

func newBatchContext(units, deps []*unit.Library, executor element.MacroExecutor, logger *slog.Logger) *batchContext {
	c := &batchContext{
		Builder:        element.NewBuilder(),
		Units:          units,
		Deps:           deps,
		handles:        make(map[string]int, len(units)+len(deps)),
		ElemLib:        make(map[*unit.Library]*element.Library, len(units)+len(deps)),
		unitOf:         make(map[*element.Library]*unit.Library, len(units)+len(deps)),
		batchElem:      make(map[*element.Library]bool, len(units)),
		DeclElem:       make(map[unit.Declaration]element.Element),
		typesResolved:  make(map[unit.Declaration]bool),
		executor:       executor,
		importScopes:   make(map[*unit.Library]*unit.ExportScope),
		importScopeGen: make(map[*unit.Library]int),
		scopeGen:       1,
		Logger:         types.Logger{L: logger},
	}

	c.arena = make([]*unit.Library, 0, len(units)+len(deps))
	c.arena = append(c.arena, units...)
	c.arena = append(c.arena, deps...)
	for i, lib := range c.arena {
		// First library under a URI wins; duplicates are unreachable.
		if _, exists := c.handles[lib.URI]; !exists {
			c.handles[lib.URI] = i
		}
	}

	// Previously linked dependencies normally arrive with scopes frozen by
	// their own Link call; one assembled by hand gets its direct scope
	// filled here so batch units can import from it.
	for _, lib := range deps {
		scope := lib.Scope()
		if scope.Frozen() {
			continue
		}
		for _, d := range lib.Declarations {
			scope.Add(unit.Reference{Name: d.DeclarationName(), Library: lib.URI, Decl: d})
		}
	}

	c.exportEdges = make([][]edge, len(c.arena))
	c.importEdges = make([][]edge, len(c.arena))
	for i, lib := range c.arena {
		c.exportEdges[i] = c.resolveEdges(lib.Exports)
		c.importEdges[i] = c.resolveEdges(lib.Imports)
	}

	return c
}

func (c *batchContext) resolveEdges(edges []unit.Edge) []edge {
	out := make([]edge, 0, len(edges))
	for _, e := range edges {
		h, ok := c.handles[e.Target]
		if !ok {
			if c.TraceEnabled() {
				c.Trace("dropping edge to unknown library",
					slog.String("target", e.Target))
			}
			continue
		}
		out = append(out, edge{target: h, filter: e.Filter})
	}
	return out
}

// Handle returns the arena handle for a URI.
func (c *batchContext) Handle(uri string) (int, bool) {
	h, ok := c.handles[uri]
	return h, ok
}

// LibraryByURI returns the arena library with the given URI, or nil.
func (c *batchContext) LibraryByURI(uri string) *unit.Library {
	if h, ok := c.handles[uri]; ok {
		return c.arena[h]
	}
	return nil
}

// isBatchHandle reports whether a handle refers to a batch unit rather than
// a previously linked dependency.
func (c *batchContext) isBatchHandle(h int) bool {
	return h < len(c.Units)
}

// EmitDiagnostic records a diagnostic on the batch being built.
func (c *batchContext) EmitDiagnostic(code string, severity element.Severity, libraryURI, declaration, message string) {
	c.Builder.AddDiagnostic(element.Diagnostic{
		Severity:    severity,
		Code:        code,
		Message:     message,
		Library:     libraryURI,
		Declaration: declaration,
	})
}

// isPublicName reports whether a name is visible outside its library.
// Underscore-prefixed names never leave their declaring library.
func isPublicName(name string) bool {
	return name != "" && name[0] != '_'
}

// importScope returns lib's name-resolution scope: its own declarations,
// then each import edge's filtered export scope, then the implicit core
// import. First writer wins throughout, so own declarations shadow imports
// and earlier imports shadow later ones.
func (c *batchContext) importScope(lib *unit.Library) *unit.ExportScope {
	if cached, ok := c.importScopes[lib]; ok && c.importScopeGen[lib] == c.scopeGen {
		return cached
	}

	scope := unit.NewExportScope()
	for _, d := range lib.Declarations {
		scope.Add(unit.Reference{Name: d.DeclarationName(), Library: lib.URI, Decl: d})
	}

	h, ok := c.handles[lib.URI]
	if ok {
		for _, e := range c.importEdges[h] {
			c.mergeVisible(scope, c.arena[e.target], e.filter)
		}
	}

	// The core library is implicitly imported everywhere.
	if core := c.LibraryByURI(CoreLibraryURI); core != nil && core != lib {
		c.mergeVisible(scope, core, nil)
	}

	c.importScopes[lib] = scope
	c.importScopeGen[lib] = c.scopeGen
	return scope
}

// mergeVisible copies src's public export scope entries through filter into
// dst, preserving insertion order and first-writer-wins.
func (c *batchContext) mergeVisible(dst *unit.ExportScope, src *unit.Library, filter unit.NameFilter) {
	srcScope := src.Scope()
	for _, name := range srcScope.Names() {
		if !isPublicName(name) {
			continue
		}
		if filter != nil && !filter.Allows(name) {
			continue
		}
		ref, _ := srcScope.Get(name)
		dst.Add(ref)
	}
}

// lookupName resolves a name from lib's point of view.
func (c *batchContext) lookupName(lib *unit.Library, name string) (unit.Reference, bool) {
	return c.importScope(lib).Get(name)
}

// elementFor returns the element built for a declaration, or nil.
func (c *batchContext) elementFor(d unit.Declaration) element.Element {
	return c.DeclElem[d]
}
