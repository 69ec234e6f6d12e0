package unit

// Declaration is a top-level declaration in a library unit.
// Use type switches to dispatch on concrete types.
type Declaration interface {
	DeclarationName() string
	DeclarationSpan() Span
	// MacroGenerated reports whether the macro pipeline produced this
	// declaration during linking (as opposed to the parser).
	MacroGenerated() bool
}

// declBase carries the fields every declaration shares.
type declBase struct {
	Name      string
	Span      Span
	Generated bool // set for macro-generated declarations
	Metadata  []Annotation
}

func (d *declBase) DeclarationName() string { return d.Name }
func (d *declBase) DeclarationSpan() Span   { return d.Span }
func (d *declBase) MacroGenerated() bool    { return d.Generated }
func (d *declBase) markGenerated()          { d.Generated = true }

// MarkGenerated flags a declaration as macro-generated. The linker applies
// it to everything a macro step emits, so executors need not set the flag
// themselves.
func MarkGenerated(d Declaration) {
	if g, ok := d.(interface{ markGenerated() }); ok {
		g.markGenerated()
	}
}

// Class is a class declaration.
type Class struct {
	declBase
	TypeParams   []TypeParam
	Supertype    *TypeRef // nil means the linker assigns the root type
	Mixins       []TypeRef
	Interfaces   []TypeRef
	Fields       []*Field
	Constructors []*Constructor
}

// NewClass returns a class declaration with the given name.
func NewClass(name string, span Span) *Class {
	return &Class{declBase: declBase{Name: name, Span: span}}
}

// Constructor returns the constructor with the given name ("" for the
// unnamed constructor), or nil.
func (c *Class) Constructor(name string) *Constructor {
	for _, ctor := range c.Constructors {
		if ctor.Name == name {
			return ctor
		}
	}
	return nil
}

// Field returns the field with the given name, or nil.
func (c *Class) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// HasConstConstructor reports whether any constructor is marked const.
func (c *Class) HasConstConstructor() bool {
	for _, ctor := range c.Constructors {
		if ctor.IsConst {
			return true
		}
	}
	return false
}

// Mixin is a mixin declaration.
type Mixin struct {
	declBase
	TypeParams []TypeParam
	// On constrains the superclass a mixin application must have.
	On         []TypeRef
	Interfaces []TypeRef
	Fields     []*Field
	// SuperInvoked lists names the mixin's member bodies invoke on super,
	// as recorded by the parser. May contain duplicates.
	SuperInvoked []string
}

// NewMixin returns a mixin declaration with the given name.
func NewMixin(name string, span Span) *Mixin {
	return &Mixin{declBase: declBase{Name: name, Span: span}}
}

// Enum is an enum declaration. Its synthetic members (values list, index
// field, one constant field per entry) are constructed by the linker.
type Enum struct {
	declBase
	Constants []EnumConstant
}

// NewEnum returns an enum declaration with the given name.
func NewEnum(name string, span Span) *Enum {
	return &Enum{declBase: declBase{Name: name, Span: span}}
}

// EnumConstant is one entry of an enum declaration.
type EnumConstant struct {
	Name     string
	Metadata []Annotation
	Span     Span
}

// TypeAlias is a type alias declaration.
type TypeAlias struct {
	declBase
	TypeParams []TypeParam
	Aliased    TypeRef
}

// NewTypeAlias returns a type alias declaration for the given target.
func NewTypeAlias(name string, aliased TypeRef, span Span) *TypeAlias {
	return &TypeAlias{declBase: declBase{Name: name, Span: span}, Aliased: aliased}
}

// Function is a top-level function declaration.
type Function struct {
	declBase
	// ReturnType is nil when the declaration carries no return annotation;
	// such functions resolve to the dynamic type.
	ReturnType *TypeRef
	Params     []Param
}

// NewFunction returns a function declaration with the given name.
func NewFunction(name string, span Span) *Function {
	return &Function{declBase: declBase{Name: name, Span: span}}
}

// Variable is a top-level variable declaration.
type Variable struct {
	declBase
	// Type is nil when the declaration is untyped; the linker infers the
	// type from Init.
	Type    *TypeRef
	Init    Expr
	IsConst bool
	IsFinal bool
}

// NewVariable returns a variable declaration with the given name.
func NewVariable(name string, span Span) *Variable {
	return &Variable{declBase: declBase{Name: name, Span: span}}
}

// Field is a field within a class, mixin, or enum.
type Field struct {
	Name     string
	Type     *TypeRef // nil = untyped, inferred or dynamic
	Init     Expr
	IsStatic bool
	IsFinal  bool
	IsConst  bool
	Metadata []Annotation
	Span     Span
}

// Constructor is a constructor within a class.
type Constructor struct {
	// Name is "" for the unnamed constructor.
	Name      string
	IsConst   bool
	IsFactory bool
	Params    []Param
	// RedirectTo names another constructor of the same class this one
	// redirects to, or "" for none. The unnamed constructor is "".
	RedirectTo    string
	HasRedirect   bool
	SuperName     string // explicit super constructor name, "" = unnamed
	Metadata      []Annotation
	Span          Span
	LinkSynthetic bool // set by the linker for synthesized constructors
}

// Param is a constructor or function parameter.
type Param struct {
	Name string
	Type *TypeRef
	// FieldFormal marks an initializing formal ("this.x"); its type comes
	// from the named field when no annotation is present.
	FieldFormal bool
	Optional    bool
	Named       bool
	Default     Expr
	Span        Span
}

// TypeParam is a generic type parameter with an optional bound.
type TypeParam struct {
	Name  string
	Bound *TypeRef
	Span  Span
}

// Annotation is a metadata annotation: a reference to a constant or const
// constructor, resolved by the linker in the metadata pass.
type Annotation struct {
	// Prefix is the library or container prefix ("" for a plain name),
	// as in "@core.deprecated" or "@Colors.red".
	Prefix string
	Name   string
	// ConstructorName selects a named const constructor, "" for unnamed.
	ConstructorName string
	Args            []Expr
	Span            Span
}
