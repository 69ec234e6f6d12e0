package resolver

import (
	"fmt"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/types"
	"github.com/golanglink/liblink/unit"
)

// resolveSuperConstructors is the ninth pass: every generative constructor
// binds to the superclass constructor it implicitly or explicitly invokes.
// Factories take no super constructor; neither does the root object type.
func (c *batchContext) resolveSuperConstructors() {
	for _, lib := range c.Units {
		for _, cls := range c.ElemLib[lib].Classes() {
			super := superclassOf(cls)
			if super == nil || cls == c.provider.object {
				continue
			}
			for _, ct := range cls.Constructors() {
				if ct.IsFactory() {
					continue
				}
				superName := ""
				if syn, ok := ct.Syntax().(*unit.Constructor); ok {
					superName = syn.SuperName
				}
				target := super.Constructor(superName)
				if target == nil {
					// Dependency classes carry only the constructors their
					// unit declared; a missing unnamed one there is the
					// normal synthetic case, not an error.
					if !c.batchElem[super.Library()] && superName == "" {
						continue
					}
					c.EmitDiagnostic(types.DiagSuperConstructor, element.SeverityError, lib.URI, cls.Name(),
						fmt.Sprintf("superclass %s has no constructor %q", super.Name(), superName))
					continue
				}
				c.Builder.SetSuperConstructor(ct, target)
			}
		}
	}
}

// resolveConstructorRedirects is the eleventh pass: redirecting constructors
// bind to their targets, and redirect cycles are broken by clearing the
// redirect on every participant.
func (c *batchContext) resolveConstructorRedirects() {
	b := c.Builder
	for _, lib := range c.Units {
		for _, d := range lib.Declarations {
			decl, ok := d.(*unit.Class)
			if !ok {
				continue
			}
			cls := c.elementFor(d).(*element.Class)
			for _, ct := range decl.Constructors {
				if !ct.HasRedirect {
					continue
				}
				ector := cls.Constructor(ct.Name)
				target := cls.Constructor(ct.RedirectTo)
				if target == nil {
					c.EmitDiagnostic(types.DiagRedirectUnknown, element.SeverityError, lib.URI, decl.Name,
						fmt.Sprintf("constructor redirect target %q not found", ct.RedirectTo))
					continue
				}
				b.SetRedirect(ector, target)
			}
		}
	}

	// Probe all chains first, then break every cycle member at once.
	var onCycle []*element.Constructor
	for _, lib := range c.Units {
		for _, cls := range c.ElemLib[lib].Classes() {
			for _, ct := range cls.Constructors() {
				seen := map[*element.Constructor]bool{ct: true}
				for cur := ct.Redirect(); cur != nil; cur = cur.Redirect() {
					if cur == ct {
						onCycle = append(onCycle, ct)
						break
					}
					if seen[cur] {
						break
					}
					seen[cur] = true
				}
			}
		}
	}
	for _, ct := range onCycle {
		b.SetRedirect(ct, nil)
		c.EmitDiagnostic(types.DiagRedirectCycle, element.SeverityError, ct.Library().URI(), ct.Enclosing().Name(),
			fmt.Sprintf("constructor %q is part of a redirect cycle", constructorLabel(ct)))
	}
}

func constructorLabel(ct *element.Constructor) string {
	if ct.Name() == "" {
		return ct.Enclosing().Name()
	}
	return ct.Enclosing().Name() + "." + ct.Name()
}
