package element

// Library is a resolved library.
type Library struct {
	uri string

	classes   []*Class
	mixins    []*Mixin
	enums     []*Enum
	aliases   []*TypeAlias
	functions []*Function
	variables []*Variable

	// declOrder preserves input declaration order across kinds.
	declOrder  []Element
	declByName map[string]Element

	// exportNames is the frozen export scope: every name this library makes
	// visible to importers, in scope insertion order.
	exportNames   []string
	exportsByName map[string]Element

	augmentations []Augmentation
}

func newLibrary(uri string) *Library {
	return &Library{
		uri:           uri,
		declByName:    make(map[string]Element),
		exportsByName: make(map[string]Element),
	}
}

// URI returns the library's stable identity.
func (l *Library) URI() string { return l.uri }

// Name returns the URI; libraries have no separate name.
func (l *Library) Name() string { return l.uri }

// Library returns the receiver, satisfying Element.
func (l *Library) Library() *Library { return l }

func (l *Library) ElementKind() Kind { return KindLibrary }

func (l *Library) Classes() []*Class        { return l.classes }
func (l *Library) Mixins() []*Mixin         { return l.mixins }
func (l *Library) Enums() []*Enum           { return l.enums }
func (l *Library) TypeAliases() []*TypeAlias { return l.aliases }
func (l *Library) Functions() []*Function   { return l.functions }
func (l *Library) Variables() []*Variable   { return l.variables }

// Declarations returns all top-level elements in declaration order.
func (l *Library) Declarations() []Element { return l.declOrder }

// Declaration returns the top-level element with the given name, or nil.
func (l *Library) Declaration(name string) Element { return l.declByName[name] }

// Class returns the class with the given name, or nil.
func (l *Library) Class(name string) *Class {
	c, _ := l.declByName[name].(*Class)
	return c
}

// Mixin returns the mixin with the given name, or nil.
func (l *Library) Mixin(name string) *Mixin {
	m, _ := l.declByName[name].(*Mixin)
	return m
}

// Enum returns the enum with the given name, or nil.
func (l *Library) Enum(name string) *Enum {
	e, _ := l.declByName[name].(*Enum)
	return e
}

// TypeAlias returns the type alias with the given name, or nil.
func (l *Library) TypeAlias(name string) *TypeAlias {
	a, _ := l.declByName[name].(*TypeAlias)
	return a
}

// Function returns the function with the given name, or nil.
func (l *Library) Function(name string) *Function {
	f, _ := l.declByName[name].(*Function)
	return f
}

// Variable returns the variable with the given name, or nil.
func (l *Library) Variable(name string) *Variable {
	v, _ := l.declByName[name].(*Variable)
	return v
}

// ExportNames returns every name the library exports, including re-exported
// names, in export-scope insertion order.
func (l *Library) ExportNames() []string { return l.exportNames }

// Export returns the element exported under the given name, or nil.
func (l *Library) Export(name string) Element { return l.exportsByName[name] }

// Augmentations returns the macro-generated definition sources merged into
// this library, in generation order.
func (l *Library) Augmentations() []Augmentation { return l.augmentations }

// Augmentation is a macro-generated definition source attached to a
// declaration. The linker merges these purely at the element-model level;
// the source text is opaque to it.
type Augmentation struct {
	// Declaration names the augmented top-level declaration.
	Declaration string
	// Source is the generated definition text.
	Source string
}
