package resolver

import (
	"fmt"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// synthesizeDefaultConstructors is the fourth pass: a class that declares no
// constructor receives exactly one synthetic unnamed one.
func (c *batchContext) synthesizeDefaultConstructors() {
	for _, lib := range c.Units {
		for _, cls := range c.ElemLib[lib].Classes() {
			if len(cls.Constructors()) == 0 {
				c.Builder.AddConstructor(cls, "", false, false, true, nil)
			}
		}
	}
}

// rewriteConstFields is the fifth pass: instance fields declared const in a
// class that ends up with no constant constructor become final instead.
func (c *batchContext) rewriteConstFields() {
	for _, lib := range c.Units {
		for _, cls := range c.ElemLib[lib].Classes() {
			hasConstCtor := false
			for _, ct := range cls.Constructors() {
				if ct.IsConst() {
					hasConstCtor = true
					break
				}
			}
			if hasConstCtor {
				continue
			}
			for _, f := range cls.Fields() {
				if f.IsConst() && !f.IsStatic() {
					c.Builder.RewriteFieldConst(f)
				}
			}
		}
	}
}

// resolveFieldFormals is the sixth pass: each initializing formal binds to
// its field, and takes the field's type when it carries no annotation of
// its own.
func (c *batchContext) resolveFieldFormals() {
	b := c.Builder
	for _, lib := range c.Units {
		for _, d := range lib.Declarations {
			decl, ok := d.(*unit.Class)
			if !ok {
				continue
			}
			cls := c.elementFor(d).(*element.Class)
			for _, ct := range decl.Constructors {
				ector := cls.Constructor(ct.Name)
				for i := range ct.Params {
					p := &ct.Params[i]
					if !p.FieldFormal {
						continue
					}
					ep := ector.Params()[i]
					fld := cls.Field(p.Name)
					if fld == nil {
						c.EmitDiagnostic(types.DiagFieldFormalUnknown, element.SeverityError, lib.URI, decl.Name,
							fmt.Sprintf("initializing formal %q has no matching field", p.Name))
						if ep.Type() == nil {
							b.SetParamType(ep, element.Invalid)
						}
						continue
					}
					b.SetParamFieldFormal(ep, fld)
					if ep.Type() == nil {
						t := fld.Type()
						if t == nil {
							t = element.Dynamic
						}
						b.SetParamType(ep, t)
					}
				}
			}
		}
	}
}

// buildEnumMembers is the seventh pass: each enum gains its synthetic
// members. One static constant field per entry, carrying the entry's value;
// an instance "index" field; and a static "values" list holding every entry
// in declaration order.
func (c *batchContext) buildEnumMembers() {
	b := c.Builder
	for _, lib := range c.Units {
		for _, d := range lib.Declarations {
			decl, ok := d.(*unit.Enum)
			if !ok {
				continue
			}
			enum := c.elementFor(d).(*element.Enum)
			enumType := element.NewNamedType(enum)

			values := make([]*element.ConstValue, 0, len(decl.Constants))
			for i, konst := range decl.Constants {
				f := b.AddField(enum, konst.Name, true, false, true, true, nil)
				b.SetFieldType(f, enumType)
				v := element.EnumValue(f, i)
				b.SetFieldValue(f, v)
				values = append(values, v)
			}

			idx := b.AddField(enum, "index", false, true, false, true, nil)
			b.SetFieldType(idx, c.provider.intType)

			vals := b.AddField(enum, "values", true, false, true, true, nil)
			if c.provider.list != nil {
				b.SetFieldType(vals, element.NewNamedType(c.provider.list, enumType))
			} else {
				b.SetFieldType(vals, element.Dynamic)
			}
			b.SetFieldValue(vals, element.ListValue(values))
		}
	}
}

// computeFieldPromotability is the eighth pass: a private final instance
// field is promotable unless any declaration in the batch introduces a
// non-final instance field under the same name, which could reach reads of
// this one through subtyping.
func (c *batchContext) computeFieldPromotability() {
	unstable := make(map[string]bool)
	for _, lib := range c.Units {
		elib := c.ElemLib[lib]
		for _, cls := range elib.Classes() {
			markUnstable(unstable, cls.Fields())
		}
		for _, mix := range elib.Mixins() {
			markUnstable(unstable, mix.Fields())
		}
	}

	for _, lib := range c.Units {
		elib := c.ElemLib[lib]
		for _, cls := range elib.Classes() {
			c.markPromotable(cls.Fields(), unstable)
		}
		for _, mix := range elib.Mixins() {
			c.markPromotable(mix.Fields(), unstable)
		}
	}
}

func markUnstable(unstable map[string]bool, fields []*element.Field) {
	for _, f := range fields {
		if !f.IsStatic() && !f.IsFinal() && !f.IsConst() {
			unstable[f.Name()] = true
		}
	}
}

func (c *batchContext) markPromotable(fields []*element.Field, unstable map[string]bool) {
	for _, f := range fields {
		if f.IsStatic() || f.Synthetic() {
			continue
		}
		ok := f.IsFinal() && !isPublicName(f.Name()) && !unstable[f.Name()]
		c.Builder.SetFieldPromotable(f, ok)
	}
}
