package resolver

import (
	"fmt"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// inferTopLevelTypes is the tenth pass: untyped top-level variables and
// untyped fields take the type of their initializer. Inference may chase
// references through other untyped declarations; a reference cycle degrades
// to dynamic with a diagnostic.
func (c *batchContext) inferTopLevelTypes() {
	inf := &inferencer{c: c, inProgress: make(map[element.Element]bool)}
	for _, lib := range c.Units {
		elib := c.ElemLib[lib]
		for _, v := range elib.Variables() {
			inf.variableType(v)
		}
		for _, cls := range elib.Classes() {
			for _, f := range cls.Fields() {
				inf.fieldType(f)
			}
		}
		for _, mix := range elib.Mixins() {
			for _, f := range mix.Fields() {
				inf.fieldType(f)
			}
		}
	}
}

type inferencer struct {
	c          *batchContext
	inProgress map[element.Element]bool
}

func (inf *inferencer) variableType(v *element.Variable) element.Type {
	if v.Type() != nil {
		return v.Type()
	}
	if inf.inProgress[v] {
		inf.cycle(v, v.Name())
		return element.Dynamic
	}
	inf.inProgress[v] = true
	defer delete(inf.inProgress, v)

	t := element.Dynamic
	if syn, ok := v.Syntax().(*unit.Variable); ok && syn.Init != nil {
		t = inf.exprType(inf.c.unitOf[v.Library()], syn.Init)
	}
	inf.c.Builder.SetVariableType(v, t, true)
	return t
}

func (inf *inferencer) fieldType(f *element.Field) element.Type {
	if f.Type() != nil {
		return f.Type()
	}
	if inf.inProgress[f] {
		inf.cycle(f, f.Enclosing().Name())
		return element.Dynamic
	}
	inf.inProgress[f] = true
	defer delete(inf.inProgress, f)

	t := element.Dynamic
	if syn, ok := f.Syntax().(*unit.Field); ok && syn.Init != nil {
		t = inf.exprType(inf.c.unitOf[f.Library()], syn.Init)
	}
	inf.c.Builder.SetFieldType(f, t)
	return t
}

func (inf *inferencer) cycle(e element.Element, declName string) {
	inf.c.EmitDiagnostic(types.DiagInferenceCycle, element.SeverityError, e.Library().URI(), declName,
		fmt.Sprintf("type of %q depends on itself", e.Name()))
}

// exprType computes the static type of a constant expression. Anything the
// type system cannot see through is dynamic, never an error: imprecision
// here is not an inconsistency.
func (inf *inferencer) exprType(lib *unit.Library, x unit.Expr) element.Type {
	p := inf.c.provider
	switch e := x.(type) {
	case unit.IntLit:
		return p.intType
	case unit.DoubleLit:
		return p.doubleType
	case unit.BoolLit:
		return p.boolType
	case unit.StringLit:
		return p.stringType
	case unit.NullLit:
		return p.nullType
	case unit.Ident:
		r, ok := inf.c.lookupName(lib, e.Name)
		if !ok {
			return element.Dynamic
		}
		if v, ok := inf.c.elementFor(r.Decl).(*element.Variable); ok {
			return inf.variableType(v)
		}
		return element.Dynamic
	case unit.PrefixedIdent:
		r, ok := inf.c.lookupName(lib, e.Prefix)
		if !ok {
			return element.Dynamic
		}
		switch owner := inf.c.elementFor(r.Decl).(type) {
		case *element.Enum:
			if owner.Field(e.Name) != nil {
				return element.NewNamedType(owner)
			}
		case *element.Class:
			if f := owner.Field(e.Name); f != nil && f.IsStatic() {
				return inf.fieldType(f)
			}
		}
		return element.Dynamic
	case unit.Unary:
		switch e.Op {
		case "!":
			return p.boolType
		case "-":
			return inf.exprType(lib, e.X)
		}
		return element.Dynamic
	case unit.Binary:
		switch e.Op {
		case "==", "!=", "&&", "||":
			return p.boolType
		case "~/":
			return p.intType
		case "+", "-", "*":
			lt := inf.exprType(lib, e.Left)
			rt := inf.exprType(lib, e.Right)
			if isClassType(lt, p.str) && isClassType(rt, p.str) {
				return p.stringType
			}
			if isClassType(lt, p.double) || isClassType(rt, p.double) {
				return p.doubleType
			}
			if isClassType(lt, p.intCls) && isClassType(rt, p.intCls) {
				return p.intType
			}
			return element.Dynamic
		}
		return element.Dynamic
	default:
		return element.Dynamic
	}
}

// isClassType reports whether t names exactly cls.
func isClassType(t element.Type, cls *element.Class) bool {
	nt, ok := t.(*element.NamedType)
	return ok && nt.Element() == cls
}
