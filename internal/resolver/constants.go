package resolver

import (
	"fmt"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// constEvaluator resolves constant expressions to values. Evaluation is
// total: reference cycles, non-constant references, and type mismatches all
// degrade to the invalid value with a diagnostic on the declaration whose
// initializer was being evaluated.
type constEvaluator struct {
	c          *batchContext
	memo       map[element.Element]*element.ConstValue
	inProgress map[element.Element]bool

	// diagnostic attribution for the declaration currently being evaluated
	curLib  string
	curDecl string
}

func newConstEvaluator(c *batchContext) *constEvaluator {
	return &constEvaluator{
		c:          c,
		memo:       make(map[element.Element]*element.ConstValue),
		inProgress: make(map[element.Element]bool),
	}
}

// resolveConstInitializers is the twelfth pass: every constant variable and
// static constant field gets its value. Enum synthetics already carry
// theirs from member construction.
func (ev *constEvaluator) resolveConstInitializers() {
	for _, lib := range ev.c.Units {
		elib := ev.c.ElemLib[lib]
		for _, v := range elib.Variables() {
			if v.IsConst() {
				ev.valueOf(v)
			}
		}
		for _, cls := range elib.Classes() {
			for _, f := range cls.Fields() {
				if f.IsConst() && f.IsStatic() && !f.Synthetic() {
					ev.valueOf(f)
				}
			}
		}
		for _, mix := range elib.Mixins() {
			for _, f := range mix.Fields() {
				if f.IsConst() && f.IsStatic() && !f.Synthetic() {
					ev.valueOf(f)
				}
			}
		}
	}
}

// resolveDefaultValues is the thirteenth pass: optional parameters with a
// declared default get it evaluated. Parameters without one stay nil.
func (ev *constEvaluator) resolveDefaultValues() {
	for _, lib := range ev.c.Units {
		for _, d := range lib.Declarations {
			switch decl := d.(type) {
			case *unit.Function:
				fn := ev.c.elementFor(d).(*element.Function)
				ev.paramDefaults(lib, decl.Name, decl.Params, fn.Params())
			case *unit.Class:
				cls := ev.c.elementFor(d).(*element.Class)
				for _, ct := range decl.Constructors {
					ev.paramDefaults(lib, decl.Name, ct.Params, cls.Constructor(ct.Name).Params())
				}
			}
		}
	}
}

func (ev *constEvaluator) paramDefaults(lib *unit.Library, declName string, params []unit.Param, eparams []*element.Parameter) {
	for i := range params {
		if params[i].Default == nil {
			continue
		}
		ev.curLib, ev.curDecl = lib.URI, declName
		ev.c.Builder.SetParamDefault(eparams[i], ev.eval(lib, params[i].Default))
	}
}

// valueOf returns the constant value of a variable or static field,
// evaluating and caching it on first use.
func (ev *constEvaluator) valueOf(e element.Element) *element.ConstValue {
	if v, ok := ev.memo[e]; ok {
		return v
	}
	if ev.inProgress[e] {
		ev.c.EmitDiagnostic(types.DiagConstCycle, element.SeverityError, e.Library().URI(), ev.attributionName(e),
			fmt.Sprintf("constant %q depends on itself", e.Name()))
		inv := element.InvalidValue()
		ev.memo[e] = inv
		return inv
	}
	ev.inProgress[e] = true
	defer delete(ev.inProgress, e)

	prevLib, prevDecl := ev.curLib, ev.curDecl
	ev.curLib, ev.curDecl = e.Library().URI(), ev.attributionName(e)

	var init unit.Expr
	switch syn := elementSyntax(e).(type) {
	case *unit.Variable:
		init = syn.Init
	case *unit.Field:
		init = syn.Init
	}

	var v *element.ConstValue
	if init == nil {
		v = element.NullValue()
	} else {
		v = ev.eval(ev.c.unitOf[e.Library()], init)
	}

	ev.curLib, ev.curDecl = prevLib, prevDecl
	ev.memo[e] = v

	switch elem := e.(type) {
	case *element.Variable:
		ev.c.Builder.SetVariableValue(elem, v)
	case *element.Field:
		ev.c.Builder.SetFieldValue(elem, v)
	}
	return v
}

// attributionName picks the top-level declaration a diagnostic for e should
// hang off: the enclosing declaration for fields, e itself otherwise.
func (ev *constEvaluator) attributionName(e element.Element) string {
	if f, ok := e.(*element.Field); ok && f.Enclosing() != nil {
		return f.Enclosing().Name()
	}
	return e.Name()
}

func elementSyntax(e element.Element) any {
	type withSyntax interface{ Syntax() any }
	if s, ok := e.(withSyntax); ok {
		return s.Syntax()
	}
	return nil
}

func (ev *constEvaluator) invalid(format string, args ...any) *element.ConstValue {
	ev.c.EmitDiagnostic(types.DiagConstNotConstant, element.SeverityError, ev.curLib, ev.curDecl,
		fmt.Sprintf(format, args...))
	return element.InvalidValue()
}

// eval evaluates one constant expression from lib's point of view.
func (ev *constEvaluator) eval(lib *unit.Library, x unit.Expr) *element.ConstValue {
	switch e := x.(type) {
	case unit.IntLit:
		return element.IntValue(e.Value)
	case unit.DoubleLit:
		return element.DoubleValue(e.Value)
	case unit.BoolLit:
		return element.BoolValue(e.Value)
	case unit.StringLit:
		return element.StringValue(e.Value)
	case unit.NullLit:
		return element.NullValue()
	case unit.Ident:
		return ev.evalIdent(lib, e.Name)
	case unit.PrefixedIdent:
		return ev.evalPrefixed(lib, e.Prefix, e.Name)
	case unit.Unary:
		return ev.evalUnary(lib, e)
	case unit.Binary:
		return ev.evalBinary(lib, e)
	default:
		return ev.invalid("unsupported constant expression")
	}
}

func (ev *constEvaluator) evalIdent(lib *unit.Library, name string) *element.ConstValue {
	r, ok := ev.c.lookupName(lib, name)
	if !ok {
		return ev.invalid("constant reference %q cannot be resolved", name)
	}
	v, ok := ev.c.elementFor(r.Decl).(*element.Variable)
	if !ok || !v.IsConst() {
		return ev.invalid("%q is not a constant", name)
	}
	return ev.valueOf(v)
}

func (ev *constEvaluator) evalPrefixed(lib *unit.Library, prefix, name string) *element.ConstValue {
	r, ok := ev.c.lookupName(lib, prefix)
	if !ok {
		return ev.invalid("constant reference %q cannot be resolved", prefix)
	}
	switch owner := ev.c.elementFor(r.Decl).(type) {
	case *element.Enum:
		if f := owner.Field(name); f != nil && f.Value() != nil {
			return f.Value()
		}
		return ev.invalid("enum %s has no constant %q", prefix, name)
	case *element.Class:
		if f := owner.Field(name); f != nil && f.IsStatic() && f.IsConst() {
			return ev.valueOf(f)
		}
		return ev.invalid("%s.%s is not a static constant", prefix, name)
	case *element.Mixin:
		if f := owner.Field(name); f != nil && f.IsStatic() && f.IsConst() {
			return ev.valueOf(f)
		}
		return ev.invalid("%s.%s is not a static constant", prefix, name)
	default:
		return ev.invalid("%q is not a constant container", prefix)
	}
}

func (ev *constEvaluator) evalUnary(lib *unit.Library, e unit.Unary) *element.ConstValue {
	v := ev.eval(lib, e.X)
	if v.IsInvalid() {
		return v
	}
	switch e.Op {
	case "-":
		switch v.Kind() {
		case element.ConstInt:
			return element.IntValue(-v.Int())
		case element.ConstDouble:
			return element.DoubleValue(-v.Double())
		}
	case "!":
		if v.Kind() == element.ConstBool {
			return element.BoolValue(!v.Bool())
		}
	}
	return ev.invalid("operator %q not applicable to %s", e.Op, v)
}

func (ev *constEvaluator) evalBinary(lib *unit.Library, e unit.Binary) *element.ConstValue {
	l := ev.eval(lib, e.Left)
	if l.IsInvalid() {
		return l
	}

	// Short-circuit forms evaluate the right side lazily.
	if e.Op == "&&" || e.Op == "||" {
		if l.Kind() != element.ConstBool {
			return ev.invalid("operator %q requires booleans", e.Op)
		}
		if (e.Op == "&&" && !l.Bool()) || (e.Op == "||" && l.Bool()) {
			return l
		}
		r := ev.eval(lib, e.Right)
		if r.IsInvalid() {
			return r
		}
		if r.Kind() != element.ConstBool {
			return ev.invalid("operator %q requires booleans", e.Op)
		}
		return r
	}

	r := ev.eval(lib, e.Right)
	if r.IsInvalid() {
		return r
	}

	switch e.Op {
	case "==", "!=":
		eq, ok := constEquals(l, r)
		if !ok {
			return ev.invalid("constants %s and %s are not comparable", l, r)
		}
		if e.Op == "!=" {
			eq = !eq
		}
		return element.BoolValue(eq)
	case "+":
		if l.Kind() == element.ConstString && r.Kind() == element.ConstString {
			return element.StringValue(l.Str() + r.Str())
		}
		return ev.arith(e.Op, l, r)
	case "-", "*":
		return ev.arith(e.Op, l, r)
	case "~/":
		if l.Kind() == element.ConstInt && r.Kind() == element.ConstInt {
			if r.Int() == 0 {
				return ev.invalid("integer division by zero")
			}
			return element.IntValue(l.Int() / r.Int())
		}
		return ev.invalid("operator ~/ requires integers")
	default:
		return ev.invalid("unsupported constant operator %q", e.Op)
	}
}

func (ev *constEvaluator) arith(op string, l, r *element.ConstValue) *element.ConstValue {
	if l.Kind() == element.ConstInt && r.Kind() == element.ConstInt {
		switch op {
		case "+":
			return element.IntValue(l.Int() + r.Int())
		case "-":
			return element.IntValue(l.Int() - r.Int())
		case "*":
			return element.IntValue(l.Int() * r.Int())
		}
	}
	lf, lok := numeric(l)
	rf, rok := numeric(r)
	if lok && rok {
		switch op {
		case "+":
			return element.DoubleValue(lf + rf)
		case "-":
			return element.DoubleValue(lf - rf)
		case "*":
			return element.DoubleValue(lf * rf)
		}
	}
	return ev.invalid("operator %q not applicable to %s and %s", op, l, r)
}

func numeric(v *element.ConstValue) (float64, bool) {
	switch v.Kind() {
	case element.ConstInt:
		return float64(v.Int()), true
	case element.ConstDouble:
		return v.Double(), true
	}
	return 0, false
}

// constEquals compares two constants of the same shape. Enum constants
// compare by identity of their synthetic fields.
func constEquals(l, r *element.ConstValue) (equal, comparable bool) {
	if l.Kind() != r.Kind() {
		return false, false
	}
	switch l.Kind() {
	case element.ConstNull:
		return true, true
	case element.ConstBool:
		return l.Bool() == r.Bool(), true
	case element.ConstInt:
		return l.Int() == r.Int(), true
	case element.ConstDouble:
		return l.Double() == r.Double(), true
	case element.ConstString:
		return l.Str() == r.Str(), true
	case element.ConstEnum:
		return l.EnumField() == r.EnumField(), true
	default:
		return false, false
	}
}
