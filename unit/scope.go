package unit

// Reference is a single (name -> declaration) entry in an export scope.
// References are immutable: once placed in a scope they are never replaced.
type Reference struct {
	// Name is the exported name, which may differ from the declaration's
	// own name in the presence of re-export chains (it never does today,
	// but the pair is kept explicit).
	Name string
	// Library is the URI of the library that declares the target.
	Library string
	// Decl is the target declaration.
	Decl Declaration
}

// ExportScope is the mapping from name to symbol that a library makes
// visible to importers, including re-exported names.
//
// The scope is insertion-order stable and append-only while the linker
// runs: an Add for a name already present is silently dropped (first writer
// wins). After linking completes the scope is frozen and any further Add
// panics, since that would mean a pass ran out of order.
type ExportScope struct {
	names  []string
	refs   map[string]Reference
	frozen bool
}

// NewExportScope returns an empty, unfrozen scope.
func NewExportScope() *ExportScope {
	return &ExportScope{refs: make(map[string]Reference)}
}

// Add inserts a reference under its name. It reports whether the name was
// newly added; a duplicate name is dropped and reported as false.
func (s *ExportScope) Add(ref Reference) bool {
	if _, exists := s.refs[ref.Name]; exists {
		return false
	}
	if s.frozen {
		panic("unit: add to frozen export scope")
	}
	s.refs[ref.Name] = ref
	s.names = append(s.names, ref.Name)
	return true
}

// Get returns the reference for name.
func (s *ExportScope) Get(name string) (Reference, bool) {
	ref, ok := s.refs[name]
	return ref, ok
}

// Names returns the scope's names in insertion order.
// The returned slice is shared; callers must not modify it.
func (s *ExportScope) Names() []string {
	return s.names
}

// Len returns the number of names in the scope.
func (s *ExportScope) Len() int {
	return len(s.names)
}

// Freeze marks the scope immutable. Freezing twice is a no-op.
func (s *ExportScope) Freeze() {
	s.frozen = true
}

// Frozen reports whether the scope has been frozen.
func (s *ExportScope) Frozen() bool {
	return s.frozen
}
