// Package unit provides the input representation for the linker: parsed,
// unresolved library units.
//
// A unit is a single library's pre-parsed contents: its top-level
// declarations, its import and export edges, and the lightweight syntax the
// linker needs (type references and constant expressions). Parsing source
// text into units is the caller's job; liblink only links them.
//
// Declaration and type references are kept as symbols here. Symbol
// resolution, export-scope computation, type linking, and constant
// evaluation are all linker responsibilities.
package unit

// ByteOffset is a byte position in source text.
type ByteOffset uint32

// Span represents a range in source text.
type Span struct {
	Start ByteOffset // inclusive
	End   ByteOffset // exclusive
}

// Synthetic is a span for linker- or macro-generated constructs.
var Synthetic = Span{Start: 0, End: 0}

// NewSpan creates a new span.
func NewSpan(start, end ByteOffset) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the span in bytes.
func (s Span) Len() ByteOffset {
	return s.End - s.Start
}

// IsSynthetic returns true if this is a synthetic span.
func (s Span) IsSynthetic() bool {
	return s.Start == 0 && s.End == 0
}

// Library is a single pre-parsed library unit.
//
// A Library is single-use: it is handed to one Link call, mutated by the
// linker (export scope growth, macro-generated declarations), and should be
// discarded afterwards.
type Library struct {
	// URI is the library's stable identity, e.g. "package:app/main" or
	// "std:core".
	URI string

	// Declarations are the library's top-level declarations, including any
	// the macro pipeline generates during linking.
	Declarations []Declaration

	// Exports are the library's export edges. Names visible through an edge
	// flow into this library's export scope during linking.
	Exports []Edge

	// Imports are the library's import edges, used for name resolution
	// inside this library. The core library is implicitly imported.
	Imports []Edge

	// Span covers the library's directives, if known.
	Span Span

	scope *ExportScope
}

// NewLibrary returns a Library with the given URI and no declarations.
func NewLibrary(uri string) *Library {
	return &Library{URI: uri}
}

// AddDeclaration appends a top-level declaration.
func (l *Library) AddDeclaration(d Declaration) {
	l.Declarations = append(l.Declarations, d)
}

// AddExport appends an export edge to the library with the given URI.
// A nil filter exports every name.
func (l *Library) AddExport(target string, filter NameFilter) {
	l.Exports = append(l.Exports, Edge{Target: target, Filter: filter})
}

// AddImport appends an import edge to the library with the given URI.
// A nil filter imports every name.
func (l *Library) AddImport(target string, filter NameFilter) {
	l.Imports = append(l.Imports, Edge{Target: target, Filter: filter})
}

// Declaration returns the top-level declaration with the given name, or nil.
func (l *Library) Declaration(name string) Declaration {
	for _, d := range l.Declarations {
		if d.DeclarationName() == name {
			return d
		}
	}
	return nil
}

// Scope returns the library's export scope, creating it empty if needed.
// The linker owns the scope's contents; it is frozen when linking completes.
func (l *Library) Scope() *ExportScope {
	if l.scope == nil {
		l.scope = NewExportScope()
	}
	return l.scope
}

// ResetScope discards the export scope. Used when a library participates in
// a fresh Link call after a dry run; normal callers never need it.
func (l *Library) ResetScope() {
	l.scope = nil
}

// Edge is an import or export directive: a target library plus an optional
// name filter. The filter is applied by whoever follows the edge.
type Edge struct {
	Target string
	Filter NameFilter
}

// Allows reports whether the edge lets the given name through.
func (e Edge) Allows(name string) bool {
	return e.Filter == nil || e.Filter.Allows(name)
}
