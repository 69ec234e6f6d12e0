// Package element provides the resolved output model of the linker.
//
// After a successful Link call every cross-library reference in this model
// points at another element in the same batch or in a previously linked
// dependency. The model is immutable once Link returns and safe for
// concurrent reads.
package element

// Kind identifies what an element is.
type Kind int

const (
	KindLibrary Kind = iota
	KindClass
	KindMixin
	KindEnum
	KindTypeAlias
	KindFunction
	KindVariable
	KindField
	KindConstructor
	KindParameter
	KindTypeParam
)

var kindNames = map[Kind]string{
	KindLibrary:     "library",
	KindClass:       "class",
	KindMixin:       "mixin",
	KindEnum:        "enum",
	KindTypeAlias:   "typealias",
	KindFunction:    "function",
	KindVariable:    "variable",
	KindField:       "field",
	KindConstructor: "constructor",
	KindParameter:   "parameter",
	KindTypeParam:   "typeparam",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Element is any named member of the resolved model.
type Element interface {
	Name() string
	Library() *Library
	ElementKind() Kind
}

// elemBase carries the state every element shares. The syntax back-reference
// points at the originating unit declaration and is severed by the linker's
// detachment pass; it is nil by the time Link returns.
type elemBase struct {
	name     string
	library  *Library
	syntax   any
	metadata []*Annotation
}

func (e *elemBase) Name() string            { return e.name }
func (e *elemBase) Library() *Library       { return e.library }
func (e *elemBase) Syntax() any             { return e.syntax }
func (e *elemBase) Metadata() []*Annotation { return e.metadata }
func (e *elemBase) setSyntax(s any)         { e.syntax = s }
func (e *elemBase) addAnnotation(a *Annotation) {
	e.metadata = append(e.metadata, a)
}

// Class is a resolved class declaration.
type Class struct {
	elemBase
	typeParams    []*TypeParam
	supertype     Type
	mixins        []Type
	interfaces    []Type
	fields        []*Field
	constructors  []*Constructor
	simplyBounded bool
}

func (c *Class) ElementKind() Kind            { return KindClass }
func (c *Class) TypeParams() []*TypeParam     { return c.typeParams }
func (c *Class) Supertype() Type              { return c.supertype }
func (c *Class) Mixins() []Type               { return c.mixins }
func (c *Class) Interfaces() []Type           { return c.interfaces }
func (c *Class) Fields() []*Field             { return c.fields }
func (c *Class) Constructors() []*Constructor { return c.constructors }

// SimplyBounded reports whether the class's type parameter bounds are
// well-formed (no cyclic raw-type dependencies).
func (c *Class) SimplyBounded() bool { return c.simplyBounded }

// Field returns the field with the given name, or nil.
func (c *Class) Field(name string) *Field {
	for _, f := range c.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Constructor returns the constructor with the given name ("" for the
// unnamed constructor), or nil.
func (c *Class) Constructor(name string) *Constructor {
	for _, ct := range c.constructors {
		if ct.name == name {
			return ct
		}
	}
	return nil
}

// Mixin is a resolved mixin declaration.
type Mixin struct {
	elemBase
	typeParams    []*TypeParam
	on            []Type
	interfaces    []Type
	fields        []*Field
	superInvoked  []string
	simplyBounded bool
}

func (m *Mixin) ElementKind() Kind        { return KindMixin }
func (m *Mixin) TypeParams() []*TypeParam { return m.typeParams }
func (m *Mixin) On() []Type               { return m.on }
func (m *Mixin) Interfaces() []Type       { return m.interfaces }
func (m *Mixin) Fields() []*Field         { return m.fields }
func (m *Mixin) SimplyBounded() bool      { return m.simplyBounded }

// SuperInvokedNames returns the sorted, de-duplicated names the mixin's
// members invoke on super.
func (m *Mixin) SuperInvokedNames() []string { return m.superInvoked }

// Field returns the field with the given name, or nil.
func (m *Mixin) Field(name string) *Field {
	for _, f := range m.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Enum is a resolved enum declaration. Its fields include the linker's
// synthetic members: one static const field per constant, the static
// "values" list, and the instance "index" field.
type Enum struct {
	elemBase
	fields []*Field
}

func (e *Enum) ElementKind() Kind { return KindEnum }
func (e *Enum) Fields() []*Field  { return e.fields }

// Field returns the field with the given name, or nil.
func (e *Enum) Field(name string) *Field {
	for _, f := range e.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

// Constants returns the synthetic constant fields in declaration order,
// excluding "values" and "index".
func (e *Enum) Constants() []*Field {
	var out []*Field
	for _, f := range e.fields {
		if f.isStatic && f.isConst && f.name != "values" {
			out = append(out, f)
		}
	}
	return out
}

// TypeAlias is a resolved type alias declaration.
type TypeAlias struct {
	elemBase
	typeParams      []*TypeParam
	aliased         Type
	selfReferential bool
	simplyBounded   bool
}

func (a *TypeAlias) ElementKind() Kind        { return KindTypeAlias }
func (a *TypeAlias) TypeParams() []*TypeParam { return a.typeParams }

// Aliased returns the expansion of the alias. Self-referential aliases
// expand to the invalid type.
func (a *TypeAlias) Aliased() Type { return a.aliased }

// SelfReferential reports whether the alias refers to itself, directly or
// through other aliases.
func (a *TypeAlias) SelfReferential() bool { return a.selfReferential }
func (a *TypeAlias) SimplyBounded() bool   { return a.simplyBounded }

// Function is a resolved top-level function.
type Function struct {
	elemBase
	returnType Type
	params     []*Parameter
}

func (f *Function) ElementKind() Kind    { return KindFunction }
func (f *Function) ReturnType() Type     { return f.returnType }
func (f *Function) Params() []*Parameter { return f.params }

// Variable is a resolved top-level variable.
type Variable struct {
	elemBase
	typ      Type
	inferred bool
	isConst  bool
	isFinal  bool
	value    *ConstValue
}

func (v *Variable) ElementKind() Kind { return KindVariable }
func (v *Variable) Type() Type        { return v.typ }

// Inferred reports whether the variable's type came from top-level
// inference rather than an explicit annotation.
func (v *Variable) Inferred() bool { return v.inferred }
func (v *Variable) IsConst() bool  { return v.isConst }
func (v *Variable) IsFinal() bool  { return v.isFinal }

// Value returns the resolved constant value, or nil for non-const variables.
func (v *Variable) Value() *ConstValue { return v.value }

// Field is a resolved field of a class, mixin, or enum.
type Field struct {
	elemBase
	enclosing  Element
	typ        Type
	isStatic   bool
	isFinal    bool
	isConst    bool
	synthetic  bool
	promotable bool
	value      *ConstValue
}

func (f *Field) ElementKind() Kind  { return KindField }
func (f *Field) Enclosing() Element { return f.enclosing }
func (f *Field) Type() Type         { return f.typ }
func (f *Field) IsStatic() bool     { return f.isStatic }
func (f *Field) IsFinal() bool      { return f.isFinal }
func (f *Field) IsConst() bool      { return f.isConst }

// Synthetic reports whether the linker generated this field (enum members).
func (f *Field) Synthetic() bool { return f.synthetic }

// Promotable reports whether reads of this field can be type-promoted.
func (f *Field) Promotable() bool { return f.promotable }

// Value returns the resolved constant value, or nil.
func (f *Field) Value() *ConstValue { return f.value }

// Constructor is a resolved constructor.
type Constructor struct {
	elemBase
	enclosing *Class
	isConst   bool
	isFactory bool
	synthetic bool
	params    []*Parameter
	superCtor *Constructor
	redirect  *Constructor
}

func (c *Constructor) ElementKind() Kind    { return KindConstructor }
func (c *Constructor) Enclosing() *Class    { return c.enclosing }
func (c *Constructor) IsConst() bool        { return c.isConst }
func (c *Constructor) IsFactory() bool      { return c.isFactory }
func (c *Constructor) Params() []*Parameter { return c.params }

// Synthetic reports whether the linker synthesized this constructor for a
// class that declared none.
func (c *Constructor) Synthetic() bool { return c.synthetic }

// SuperConstructor returns the resolved superclass constructor this one
// invokes, or nil (root class, factories, unresolved).
func (c *Constructor) SuperConstructor() *Constructor { return c.superCtor }

// Redirect returns the constructor this one redirects to, or nil.
func (c *Constructor) Redirect() *Constructor { return c.redirect }

// Parameter is a resolved constructor or function parameter.
type Parameter struct {
	elemBase
	typ          Type
	optional     bool
	named        bool
	fieldFormal  *Field
	defaultValue *ConstValue
}

func (p *Parameter) ElementKind() Kind { return KindParameter }
func (p *Parameter) Type() Type        { return p.typ }
func (p *Parameter) Optional() bool    { return p.optional }
func (p *Parameter) Named() bool       { return p.named }

// FieldFormal returns the field an initializing formal assigns, or nil.
func (p *Parameter) FieldFormal() *Field { return p.fieldFormal }

// DefaultValue returns the resolved default, or nil when none was declared.
func (p *Parameter) DefaultValue() *ConstValue { return p.defaultValue }

// TypeParam is a resolved generic type parameter.
type TypeParam struct {
	elemBase
	bound    Type
	variance Variance
}

func (t *TypeParam) ElementKind() Kind  { return KindTypeParam }
func (t *TypeParam) Bound() Type        { return t.bound }
func (t *TypeParam) Variance() Variance { return t.variance }

// Annotation is a resolved metadata annotation.
type Annotation struct {
	name   string
	target Element
	value  *ConstValue
}

// Name returns the annotation's source name (without "@").
func (a *Annotation) Name() string { return a.name }

// Target returns the element the annotation resolved to, or nil when it
// could not be resolved.
func (a *Annotation) Target() Element { return a.target }

// Value returns the annotation's constant value, or nil.
func (a *Annotation) Value() *ConstValue { return a.value }
