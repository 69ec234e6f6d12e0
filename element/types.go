package element

import "strings"

// Type is a resolved type.
type Type interface {
	String() string
	isType()
}

// NamedType is a reference to a class, mixin, enum, or type alias, with
// type arguments.
type NamedType struct {
	element Element
	args    []Type
}

// NewNamedType returns a named type over the given element.
func NewNamedType(elem Element, args ...Type) *NamedType {
	return &NamedType{element: elem, args: args}
}

func (*NamedType) isType() {}

// Element returns the declaration the type refers to.
func (t *NamedType) Element() Element { return t.element }

// Args returns the type arguments, possibly empty.
func (t *NamedType) Args() []Type { return t.args }

func (t *NamedType) String() string {
	if len(t.args) == 0 {
		return t.element.Name()
	}
	var b strings.Builder
	b.WriteString(t.element.Name())
	b.WriteByte('<')
	for i, a := range t.args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}

// TypeParamType is a use of a generic type parameter.
type TypeParamType struct {
	param *TypeParam
}

// NewTypeParamType returns a type over the given parameter.
func NewTypeParamType(p *TypeParam) *TypeParamType {
	return &TypeParamType{param: p}
}

func (*TypeParamType) isType() {}

// Param returns the referenced type parameter.
func (t *TypeParamType) Param() *TypeParam { return t.param }

func (t *TypeParamType) String() string { return t.param.Name() }

type dynamicType struct{}
type voidType struct{}
type neverType struct{}
type invalidType struct{}

func (dynamicType) isType() {}
func (voidType) isType()    {}
func (neverType) isType()   {}
func (invalidType) isType() {}

func (dynamicType) String() string { return "dynamic" }
func (voidType) String() string    { return "void" }
func (neverType) String() string   { return "Never" }
func (invalidType) String() string { return "<invalid>" }

// Sentinel types shared across the batch.
var (
	// Dynamic is the implicit type of untyped declarations.
	Dynamic Type = dynamicType{}
	// Void is the void return type.
	Void Type = voidType{}
	// Never is the bottom type.
	Never Type = neverType{}
	// Invalid is the sentinel for unresolvable or inconsistent types.
	// Resolution never fails; it degrades to Invalid.
	Invalid Type = invalidType{}
)

// IsInvalid reports whether t is the invalid sentinel.
func IsInvalid(t Type) bool {
	_, ok := t.(invalidType)
	return ok
}

// IsDynamic reports whether t is the dynamic type.
func IsDynamic(t Type) bool {
	_, ok := t.(dynamicType)
	return ok
}

// Variance describes how a type parameter occurs in its declaration.
type Variance int

const (
	// VarianceUnrelated means the parameter does not occur.
	VarianceUnrelated Variance = iota
	// VarianceCovariant means the parameter occurs only in output positions.
	VarianceCovariant
	// VarianceContravariant means the parameter occurs only in input positions.
	VarianceContravariant
	// VarianceInvariant means the parameter occurs in both positions.
	VarianceInvariant
)

// String returns the lowercase variance name.
func (v Variance) String() string {
	switch v {
	case VarianceUnrelated:
		return "unrelated"
	case VarianceCovariant:
		return "covariant"
	case VarianceContravariant:
		return "contravariant"
	case VarianceInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Meet combines two occurrences of a parameter into the resulting variance.
func (v Variance) Meet(other Variance) Variance {
	if v == VarianceUnrelated {
		return other
	}
	if other == VarianceUnrelated {
		return v
	}
	if v == other {
		return v
	}
	return VarianceInvariant
}
