package element

// Batch is the resolved output of one Link invocation: every input library,
// batch-wide indexing aids, and accumulated diagnostics.
type Batch struct {
	libraries []*Library
	byURI     map[string]*Library

	// nameUnion maps every declared name in the batch to the elements
	// declaring it, across libraries, in input order.
	nameUnion  map[string][]Element
	unionNames []string

	diagnostics []Diagnostic
}

// Libraries returns the batch's libraries in input order.
func (b *Batch) Libraries() []*Library { return b.libraries }

// Library returns the library with the given URI, or nil.
func (b *Batch) Library(uri string) *Library { return b.byURI[uri] }

// Diagnostics returns all diagnostics recorded during linking.
func (b *Batch) Diagnostics() []Diagnostic { return b.diagnostics }

// HasErrors reports whether any diagnostic is at error severity.
func (b *Batch) HasErrors() bool {
	for _, d := range b.diagnostics {
		if d.Severity.AtLeast(SeverityError) {
			return true
		}
	}
	return false
}

// NameUnion returns every element in the batch declared under the given
// name, in library input order.
func (b *Batch) NameUnion(name string) []Element { return b.nameUnion[name] }

// UnionNames returns every declared name in the batch, sorted.
func (b *Batch) UnionNames() []string { return b.unionNames }
