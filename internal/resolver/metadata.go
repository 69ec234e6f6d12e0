package resolver

import (
	"fmt"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// resolveMetadata is the fourteenth pass, last of the semantic passes:
// annotations resolve to their target element and, where the target is a
// constant, to its value. It runs after constant resolution so annotation
// values are already available.
func (c *batchContext) resolveMetadata(ev *constEvaluator) {
	for _, lib := range c.Units {
		for _, d := range lib.Declarations {
			elem := c.elementFor(d)
			if elem == nil {
				continue
			}
			c.attachAnnotations(ev, lib, d.DeclarationName(), elem, declMetadata(d))

			switch decl := d.(type) {
			case *unit.Class:
				cls := elem.(*element.Class)
				for _, f := range decl.Fields {
					c.attachAnnotations(ev, lib, decl.Name, cls.Field(f.Name), f.Metadata)
				}
				for _, ct := range decl.Constructors {
					c.attachAnnotations(ev, lib, decl.Name, cls.Constructor(ct.Name), ct.Metadata)
				}
			case *unit.Mixin:
				mix := elem.(*element.Mixin)
				for _, f := range decl.Fields {
					c.attachAnnotations(ev, lib, decl.Name, mix.Field(f.Name), f.Metadata)
				}
			case *unit.Enum:
				enum := elem.(*element.Enum)
				for _, konst := range decl.Constants {
					c.attachAnnotations(ev, lib, decl.Name, enum.Field(konst.Name), konst.Metadata)
				}
			}
		}
	}
}

func declMetadata(d unit.Declaration) []unit.Annotation {
	switch decl := d.(type) {
	case *unit.Class:
		return decl.Metadata
	case *unit.Mixin:
		return decl.Metadata
	case *unit.Enum:
		return decl.Metadata
	case *unit.TypeAlias:
		return decl.Metadata
	case *unit.Function:
		return decl.Metadata
	case *unit.Variable:
		return decl.Metadata
	default:
		return nil
	}
}

func (c *batchContext) attachAnnotations(ev *constEvaluator, lib *unit.Library, declName string, owner element.Element, anns []unit.Annotation) {
	if owner == nil {
		return
	}
	for _, ann := range anns {
		c.Builder.AddAnnotation(owner, c.resolveAnnotation(ev, lib, declName, ann))
	}
}

// resolveAnnotation resolves one annotation. Failure produces an annotation
// with a nil target rather than dropping it, so consumers still see that
// the annotation was written.
func (c *batchContext) resolveAnnotation(ev *constEvaluator, lib *unit.Library, declName string, ann unit.Annotation) *element.Annotation {
	name := ann.Name
	if ann.Prefix != "" {
		name = ann.Prefix + "." + ann.Name
	}

	unresolved := func(format string, args ...any) *element.Annotation {
		c.EmitDiagnostic(types.DiagAnnotationUnresolved, element.SeverityError, lib.URI, declName,
			fmt.Sprintf(format, args...))
		return c.Builder.NewAnnotation(name, nil, nil)
	}

	if ann.Prefix == "" {
		r, ok := c.lookupName(lib, ann.Name)
		if !ok {
			return unresolved("annotation @%s cannot be resolved", name)
		}
		switch target := c.elementFor(r.Decl).(type) {
		case *element.Variable:
			if !target.IsConst() {
				return unresolved("annotation @%s does not refer to a constant", name)
			}
			return c.Builder.NewAnnotation(name, target, ev.valueOf(target))
		case *element.Class:
			ct := target.Constructor(ann.ConstructorName)
			if ct == nil || !ct.IsConst() {
				return unresolved("annotation @%s does not refer to a constant constructor", name)
			}
			return c.Builder.NewAnnotation(name, ct, nil)
		default:
			return unresolved("annotation @%s does not refer to a constant", name)
		}
	}

	r, ok := c.lookupName(lib, ann.Prefix)
	if !ok {
		return unresolved("annotation @%s cannot be resolved", name)
	}
	switch owner := c.elementFor(r.Decl).(type) {
	case *element.Enum:
		if f := owner.Field(ann.Name); f != nil && f.Value() != nil {
			return c.Builder.NewAnnotation(name, f, f.Value())
		}
	case *element.Class:
		if f := owner.Field(ann.Name); f != nil && f.IsStatic() && f.IsConst() {
			return c.Builder.NewAnnotation(name, f, ev.valueOf(f))
		}
	}
	return unresolved("annotation @%s does not refer to a constant", name)
}
