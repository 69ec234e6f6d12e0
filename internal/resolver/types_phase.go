package resolver

import (
	"fmt"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/graph"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// typeParamScope maps in-scope generic parameter names to their elements.
type typeParamScope map[string]*element.TypeParam

func paramScope(params []*element.TypeParam) typeParamScope {
	if len(params) == 0 {
		return nil
	}
	s := make(typeParamScope, len(params))
	for _, tp := range params {
		s[tp.Name()] = tp
	}
	return s
}

// resolveTypeRef resolves one type annotation from lib's point of view.
// Resolution never fails: unknown names and non-type targets degrade to the
// invalid sentinel with a diagnostic attached to declName.
func (c *batchContext) resolveTypeRef(lib *unit.Library, ref unit.TypeRef, tps typeParamScope, declName string) element.Type {
	switch ref.Name {
	case "dynamic":
		return element.Dynamic
	case "void":
		return element.Void
	case "Never":
		return element.Never
	}

	if tp, ok := tps[ref.Name]; ok {
		return element.NewTypeParamType(tp)
	}

	r, ok := c.lookupName(lib, ref.Name)
	if !ok {
		c.EmitDiagnostic(types.DiagTypeUnknown, element.SeverityError, lib.URI, declName,
			fmt.Sprintf("type %q cannot be resolved", ref.Name))
		return element.Invalid
	}
	elem := c.elementFor(r.Decl)
	if elem == nil {
		c.EmitDiagnostic(types.DiagTypeUnknown, element.SeverityError, lib.URI, declName,
			fmt.Sprintf("type %q has no resolved element", ref.Name))
		return element.Invalid
	}

	var arity int
	switch e := elem.(type) {
	case *element.Class:
		arity = len(e.TypeParams())
	case *element.Mixin:
		arity = len(e.TypeParams())
	case *element.Enum:
		arity = 0
	case *element.TypeAlias:
		arity = len(e.TypeParams())
	default:
		c.EmitDiagnostic(types.DiagTypeUnknown, element.SeverityError, lib.URI, declName,
			fmt.Sprintf("%q is a %s, not a type", ref.Name, elem.ElementKind()))
		return element.Invalid
	}

	if len(ref.Args) > 0 && len(ref.Args) != arity {
		c.EmitDiagnostic(types.DiagTypeArityMismatch, element.SeverityError, lib.URI, declName,
			fmt.Sprintf("type %q expects %d type arguments, got %d", ref.Name, arity, len(ref.Args)))
		return element.NewNamedType(elem)
	}

	args := make([]element.Type, 0, len(ref.Args))
	for _, a := range ref.Args {
		args = append(args, c.resolveTypeRef(lib, a, tps, declName))
	}
	return element.NewNamedType(elem, args...)
}

// resolveExplicitTypes is the first resolution pass: every explicit type
// annotation becomes a resolved type. Untyped variables and fields stay nil
// for the inference pass; untyped function returns and plain parameters are
// dynamic immediately.
//
// The pass is incremental: declarations already handled are skipped, so it
// can re-run after macro rounds introduce new declarations.
func (c *batchContext) resolveExplicitTypes() {
	b := c.Builder
	for _, lib := range c.Units {
		for _, d := range lib.Declarations {
			if c.typesResolved[d] {
				continue
			}
			c.typesResolved[d] = true

			switch decl := d.(type) {
			case *unit.Class:
				cls := c.elementFor(d).(*element.Class)
				tps := paramScope(cls.TypeParams())
				for i, tp := range cls.TypeParams() {
					if bound := decl.TypeParams[i].Bound; bound != nil {
						b.SetBound(tp, c.resolveTypeRef(lib, *bound, tps, decl.Name))
					}
				}
				if decl.Supertype != nil {
					b.SetSupertype(cls, c.resolveTypeRef(lib, *decl.Supertype, tps, decl.Name))
				}
				for _, m := range decl.Mixins {
					b.AddMixinType(cls, c.resolveTypeRef(lib, m, tps, decl.Name))
				}
				for _, ifc := range decl.Interfaces {
					b.AddInterfaceType(cls, c.resolveTypeRef(lib, ifc, tps, decl.Name))
				}
				for _, f := range decl.Fields {
					if f.Type != nil {
						b.SetFieldType(cls.Field(f.Name), c.resolveTypeRef(lib, *f.Type, tps, decl.Name))
					}
				}
				for _, ct := range decl.Constructors {
					ector := cls.Constructor(ct.Name)
					for i := range ct.Params {
						p := &ct.Params[i]
						switch {
						case p.Type != nil:
							b.SetParamType(ector.Params()[i], c.resolveTypeRef(lib, *p.Type, tps, decl.Name))
						case !p.FieldFormal:
							b.SetParamType(ector.Params()[i], element.Dynamic)
						}
					}
				}
			case *unit.Mixin:
				mix := c.elementFor(d).(*element.Mixin)
				tps := paramScope(mix.TypeParams())
				for i, tp := range mix.TypeParams() {
					if bound := decl.TypeParams[i].Bound; bound != nil {
						b.SetBound(tp, c.resolveTypeRef(lib, *bound, tps, decl.Name))
					}
				}
				for _, on := range decl.On {
					b.AddOnType(mix, c.resolveTypeRef(lib, on, tps, decl.Name))
				}
				for _, ifc := range decl.Interfaces {
					b.AddInterfaceType(mix, c.resolveTypeRef(lib, ifc, tps, decl.Name))
				}
				for _, f := range decl.Fields {
					if f.Type != nil {
						fld := mix.Field(f.Name)
						b.SetFieldType(fld, c.resolveTypeRef(lib, *f.Type, tps, decl.Name))
					}
				}
			case *unit.TypeAlias:
				al := c.elementFor(d).(*element.TypeAlias)
				tps := paramScope(al.TypeParams())
				for i, tp := range al.TypeParams() {
					if bound := decl.TypeParams[i].Bound; bound != nil {
						b.SetBound(tp, c.resolveTypeRef(lib, *bound, tps, decl.Name))
					}
				}
				b.SetAliased(al, c.resolveTypeRef(lib, decl.Aliased, tps, decl.Name))
			case *unit.Function:
				fn := c.elementFor(d).(*element.Function)
				if decl.ReturnType != nil {
					b.SetReturnType(fn, c.resolveTypeRef(lib, *decl.ReturnType, nil, decl.Name))
				} else {
					b.SetReturnType(fn, element.Dynamic)
				}
				for i := range decl.Params {
					p := &decl.Params[i]
					if p.Type != nil {
						b.SetParamType(fn.Params()[i], c.resolveTypeRef(lib, *p.Type, nil, decl.Name))
					} else {
						b.SetParamType(fn.Params()[i], element.Dynamic)
					}
				}
			case *unit.Variable:
				if decl.Type != nil {
					v := c.elementFor(d).(*element.Variable)
					b.SetVariableType(v, c.resolveTypeRef(lib, *decl.Type, nil, decl.Name), false)
				}
			}
		}
	}
}

// computeVariance is part of the second pass: each generic parameter's
// variance is the meet of its occurrences across the declaration's
// signature surface. Mutable fields force invariance; constructor
// parameters are input positions.
func (c *batchContext) computeVariance() {
	b := c.Builder
	for _, lib := range c.Units {
		elib := c.ElemLib[lib]
		for _, cls := range elib.Classes() {
			for _, tp := range cls.TypeParams() {
				v := element.VarianceUnrelated
				v = v.Meet(occursIn(cls.Supertype(), tp, element.VarianceCovariant))
				for _, t := range cls.Mixins() {
					v = v.Meet(occursIn(t, tp, element.VarianceCovariant))
				}
				for _, t := range cls.Interfaces() {
					v = v.Meet(occursIn(t, tp, element.VarianceCovariant))
				}
				for _, f := range cls.Fields() {
					if f.IsStatic() {
						continue
					}
					pos := element.VarianceInvariant
					if f.IsFinal() || f.IsConst() {
						pos = element.VarianceCovariant
					}
					v = v.Meet(occursIn(f.Type(), tp, pos))
				}
				for _, ct := range cls.Constructors() {
					for _, p := range ct.Params() {
						v = v.Meet(occursIn(p.Type(), tp, element.VarianceContravariant))
					}
				}
				b.SetVariance(tp, v)
			}
		}
		for _, mix := range elib.Mixins() {
			for _, tp := range mix.TypeParams() {
				v := element.VarianceUnrelated
				for _, t := range mix.On() {
					v = v.Meet(occursIn(t, tp, element.VarianceCovariant))
				}
				for _, t := range mix.Interfaces() {
					v = v.Meet(occursIn(t, tp, element.VarianceCovariant))
				}
				for _, f := range mix.Fields() {
					if f.IsStatic() {
						continue
					}
					pos := element.VarianceInvariant
					if f.IsFinal() || f.IsConst() {
						pos = element.VarianceCovariant
					}
					v = v.Meet(occursIn(f.Type(), tp, pos))
				}
				b.SetVariance(tp, v)
			}
		}
		for _, al := range elib.TypeAliases() {
			for _, tp := range al.TypeParams() {
				b.SetVariance(tp, occursIn(al.Aliased(), tp, element.VarianceCovariant))
			}
		}
	}
}

// occursIn folds the variance contributions of tp's occurrences in t, seen
// from the given position.
func occursIn(t element.Type, tp *element.TypeParam, pos element.Variance) element.Variance {
	switch typ := t.(type) {
	case *element.TypeParamType:
		if typ.Param() == tp {
			return pos
		}
	case *element.NamedType:
		v := element.VarianceUnrelated
		for _, a := range typ.Args() {
			v = v.Meet(occursIn(a, tp, pos))
		}
		return v
	}
	return element.VarianceUnrelated
}

// checkSimplyBounded is part of the second pass: a generic declaration is
// simply bounded unless its parameter bounds reach back to it through raw
// references to other generic declarations.
func (c *batchContext) checkSimplyBounded() {
	g := graph.New()
	generics := make(map[graph.Symbol]element.Element)

	for _, lib := range c.Units {
		elib := c.ElemLib[lib]
		for _, e := range elib.Declarations() {
			params := genericParams(e)
			if len(params) == 0 {
				continue
			}
			sym := graph.Symbol{Library: lib.URI, Name: e.Name()}
			generics[sym] = e
			g.AddNode(sym)
			for _, tp := range params {
				for _, target := range rawGenericRefs(tp.Bound()) {
					g.AddEdge(sym, target)
				}
			}
		}
	}

	for sym := range g.CyclicSymbols() {
		e, ok := generics[sym]
		if !ok {
			continue
		}
		c.Builder.SetSimplyBounded(e, false)
		c.EmitDiagnostic(types.DiagNotSimplyBounded, element.SeverityError, sym.Library, sym.Name,
			"type parameter bounds depend cyclically on raw generic types")
	}
}

func genericParams(e element.Element) []*element.TypeParam {
	switch o := e.(type) {
	case *element.Class:
		return o.TypeParams()
	case *element.Mixin:
		return o.TypeParams()
	case *element.TypeAlias:
		return o.TypeParams()
	}
	return nil
}

// rawGenericRefs collects symbols of generic declarations referenced
// without type arguments anywhere inside t.
func rawGenericRefs(t element.Type) []graph.Symbol {
	nt, ok := t.(*element.NamedType)
	if !ok {
		return nil
	}
	var out []graph.Symbol
	if len(nt.Args()) == 0 && len(genericParams(nt.Element())) > 0 {
		out = append(out, graph.Symbol{Library: nt.Element().Library().URI(), Name: nt.Element().Name()})
	}
	for _, a := range nt.Args() {
		out = append(out, rawGenericRefs(a)...)
	}
	return out
}

// detectAliasCycles is part of the second pass: aliases whose expansions
// reach themselves degrade to the invalid sentinel.
func (c *batchContext) detectAliasCycles() {
	g := graph.New()
	aliases := make(map[graph.Symbol]*element.TypeAlias)

	for _, lib := range c.Units {
		for _, al := range c.ElemLib[lib].TypeAliases() {
			sym := graph.Symbol{Library: lib.URI, Name: al.Name()}
			aliases[sym] = al
			g.AddNode(sym)
			for _, target := range aliasRefs(al.Aliased()) {
				g.AddEdge(sym, target)
			}
		}
	}

	for sym := range g.CyclicSymbols() {
		al, ok := aliases[sym]
		if !ok {
			continue
		}
		c.Builder.SetSelfReferential(al)
		c.EmitDiagnostic(types.DiagAliasSelfReference, element.SeverityError, sym.Library, sym.Name,
			"type alias refers to itself")
	}
}

func aliasRefs(t element.Type) []graph.Symbol {
	nt, ok := t.(*element.NamedType)
	if !ok {
		return nil
	}
	var out []graph.Symbol
	if target, ok := nt.Element().(*element.TypeAlias); ok {
		out = append(out, graph.Symbol{Library: target.Library().URI(), Name: target.Name()})
	}
	for _, a := range nt.Args() {
		out = append(out, aliasRefs(a)...)
	}
	return out
}

// assignDefaultSupertypes is the third pass: classes without an explicit
// supertype extend the root object type, and supertype cycles degrade to
// the invalid sentinel.
func (c *batchContext) assignDefaultSupertypes() {
	b := c.Builder
	for _, lib := range c.Units {
		for _, cls := range c.ElemLib[lib].Classes() {
			if cls == c.provider.object {
				continue
			}
			if cls.Supertype() == nil {
				b.SetSupertype(cls, c.provider.objectType)
			}
		}
	}

	// Probe every chain before mutating so that all cycle members are found.
	var onCycle []*element.Class
	for _, lib := range c.Units {
		for _, cls := range c.ElemLib[lib].Classes() {
			seen := map[*element.Class]bool{cls: true}
			for cur := superclassOf(cls); cur != nil; cur = superclassOf(cur) {
				if cur == cls {
					onCycle = append(onCycle, cls)
					break
				}
				if seen[cur] {
					break
				}
				seen[cur] = true
			}
		}
	}
	for _, cls := range onCycle {
		b.SetSupertype(cls, element.Invalid)
		c.EmitDiagnostic(types.DiagSupertypeCycle, element.SeverityError, cls.Library().URI(), cls.Name(),
			"class is part of a supertype cycle")
	}
}

func superclassOf(c *element.Class) *element.Class {
	nt, ok := c.Supertype().(*element.NamedType)
	if !ok {
		return nil
	}
	super, _ := nt.Element().(*element.Class)
	return super
}
