package unit

// TypeRef is an unresolved type annotation: a name plus type arguments.
// The names "dynamic", "void", and "Never" are recognized by the linker
// without resolution.
type TypeRef struct {
	Name string
	Args []TypeRef
	Span Span
}

// NewTypeRef returns a type reference to the given name.
func NewTypeRef(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

// Expr is a constant expression. The linker evaluates these for constant
// initializers, parameter defaults, and annotation arguments. Use type
// switches to dispatch on concrete types.
type Expr interface {
	exprNode()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

// DoubleLit is a floating point literal.
type DoubleLit struct {
	Value float64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Value bool
}

// StringLit is a string literal.
type StringLit struct {
	Value string
}

// NullLit is the null literal.
type NullLit struct{}

// Ident references a top-level constant, enum, or class by name.
type Ident struct {
	Name string
}

// PrefixedIdent references a member through a container: "Color.red" or a
// static constant "Limits.max".
type PrefixedIdent struct {
	Prefix string
	Name   string
}

// Binary applies an arithmetic or logical operator to two constants.
// Supported operators: + - * ~/ == != && ||
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Unary applies a prefix operator to a constant. Supported: - !
type Unary struct {
	Op string
	X  Expr
}

func (IntLit) exprNode()        {}
func (DoubleLit) exprNode()     {}
func (BoolLit) exprNode()       {}
func (StringLit) exprNode()     {}
func (NullLit) exprNode()       {}
func (Ident) exprNode()         {}
func (PrefixedIdent) exprNode() {}
func (Binary) exprNode()        {}
func (Unary) exprNode()         {}
