package resolver

import (
	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/unit"
)

// buildSkeletons creates the element counterpart of every arena library and
// declaration. Batch units become batch libraries; dependencies become
// external libraries that resolved references may point into but that are
// never re-emitted.
func (c *batchContext) buildSkeletons() {
	for _, lib := range c.Units {
		elib := c.Builder.AddLibrary(lib.URI)
		c.ElemLib[lib] = elib
		c.unitOf[elib] = lib
		c.batchElem[elib] = true
		for _, d := range lib.Declarations {
			c.buildDeclSkeleton(lib, d)
		}
	}
	for _, lib := range c.Deps {
		elib := c.Builder.AddExternal(lib.URI)
		c.ElemLib[lib] = elib
		c.unitOf[elib] = lib
		for _, d := range lib.Declarations {
			c.buildDeclSkeleton(lib, d)
		}
	}
}

// buildDeclSkeleton creates the element for one declaration and records it
// in the handle table. Called again for each macro-generated declaration as
// it appears.
func (c *batchContext) buildDeclSkeleton(lib *unit.Library, d unit.Declaration) element.Element {
	b := c.Builder
	elib := c.ElemLib[lib]

	var elem element.Element
	switch decl := d.(type) {
	case *unit.Class:
		cls := b.AddClass(elib, decl.Name, decl)
		for i := range decl.TypeParams {
			b.AddTypeParam(cls, decl.TypeParams[i].Name, &decl.TypeParams[i])
		}
		for _, f := range decl.Fields {
			b.AddField(cls, f.Name, f.IsStatic, f.IsFinal, f.IsConst, false, f)
		}
		for _, ct := range decl.Constructors {
			ector := b.AddConstructor(cls, ct.Name, ct.IsConst, ct.IsFactory, ct.LinkSynthetic, ct)
			for i := range ct.Params {
				p := &ct.Params[i]
				b.AddParameter(ector, p.Name, p.Optional, p.Named, p)
			}
		}
		elem = cls
	case *unit.Mixin:
		mix := b.AddMixin(elib, decl.Name, decl)
		for i := range decl.TypeParams {
			b.AddTypeParam(mix, decl.TypeParams[i].Name, &decl.TypeParams[i])
		}
		for _, f := range decl.Fields {
			b.AddField(mix, f.Name, f.IsStatic, f.IsFinal, f.IsConst, false, f)
		}
		elem = mix
	case *unit.Enum:
		elem = b.AddEnum(elib, decl.Name, decl)
	case *unit.TypeAlias:
		al := b.AddTypeAlias(elib, decl.Name, decl)
		for i := range decl.TypeParams {
			b.AddTypeParam(al, decl.TypeParams[i].Name, &decl.TypeParams[i])
		}
		elem = al
	case *unit.Function:
		fn := b.AddFunction(elib, decl.Name, decl)
		for i := range decl.Params {
			p := &decl.Params[i]
			b.AddParameter(fn, p.Name, p.Optional, p.Named, p)
		}
		elem = fn
	case *unit.Variable:
		elem = b.AddVariable(elib, decl.Name, decl.IsConst, decl.IsFinal, decl)
	default:
		return nil
	}

	c.DeclElem[d] = elem
	return elem
}
