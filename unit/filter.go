package unit

// NameFilter restricts which names flow through an import or export edge.
// Implementations must be pure: Allows must return the same answer for the
// same name for the life of the batch.
type NameFilter interface {
	Allows(name string) bool
}

// Show returns a filter that admits only the listed names.
func Show(names ...string) NameFilter {
	f := showFilter{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		f.names[n] = struct{}{}
	}
	return f
}

// Hide returns a filter that admits everything except the listed names.
func Hide(names ...string) NameFilter {
	f := hideFilter{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		f.names[n] = struct{}{}
	}
	return f
}

// Combine returns a filter that admits a name only if every given filter
// does. Combine() with no arguments admits everything.
func Combine(filters ...NameFilter) NameFilter {
	return combinedFilter(filters)
}

type showFilter struct {
	names map[string]struct{}
}

func (f showFilter) Allows(name string) bool {
	_, ok := f.names[name]
	return ok
}

type hideFilter struct {
	names map[string]struct{}
}

func (f hideFilter) Allows(name string) bool {
	_, ok := f.names[name]
	return !ok
}

type combinedFilter []NameFilter

func (f combinedFilter) Allows(name string) bool {
	for _, inner := range f {
		if inner != nil && !inner.Allows(name) {
			return false
		}
	}
	return true
}
