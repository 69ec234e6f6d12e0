package resolver

import (
	"errors"
	"fmt"

	"github.com/golanglink/liblink/element"
)

// ErrBootstrapMissing is returned when the core library, or one of its
// foundational declarations, cannot be found. This is the one failure the
// linker does not degrade into a diagnostic: without the root object type
// and the primitive types nothing downstream can resolve.
var ErrBootstrapMissing = errors.New("bootstrap library " + CoreLibraryURI + " not available")

// typeProvider hands out the foundational types every pass leans on. It is
// built once per batch, after the initial export fixpoint so that a batch
// linking the core library itself can bootstrap from its own scope.
type typeProvider struct {
	object *element.Class
	intCls *element.Class
	double *element.Class
	str    *element.Class
	boolCl *element.Class
	null   *element.Class
	enum   *element.Class
	list   *element.Class // optional; nil when core declares no List

	objectType element.Type
	intType    element.Type
	doubleType element.Type
	stringType element.Type
	boolType   element.Type
	nullType   element.Type
}

func (c *batchContext) initTypeProvider() error {
	core := c.LibraryByURI(CoreLibraryURI)
	if core == nil {
		return ErrBootstrapMissing
	}

	p := &typeProvider{}
	required := []struct {
		name string
		dst  **element.Class
	}{
		{"Object", &p.object},
		{"int", &p.intCls},
		{"double", &p.double},
		{"String", &p.str},
		{"bool", &p.boolCl},
		{"Null", &p.null},
		{"Enum", &p.enum},
	}
	for _, req := range required {
		d := core.Declaration(req.name)
		if d == nil {
			return fmt.Errorf("%w: %s does not declare %s", ErrBootstrapMissing, CoreLibraryURI, req.name)
		}
		cls, ok := c.DeclElem[d].(*element.Class)
		if !ok {
			return fmt.Errorf("%w: %s in %s is not a class", ErrBootstrapMissing, req.name, CoreLibraryURI)
		}
		*req.dst = cls
	}

	if d := core.Declaration("List"); d != nil {
		p.list, _ = c.DeclElem[d].(*element.Class)
	}

	p.objectType = element.NewNamedType(p.object)
	p.intType = element.NewNamedType(p.intCls)
	p.doubleType = element.NewNamedType(p.double)
	p.stringType = element.NewNamedType(p.str)
	p.boolType = element.NewNamedType(p.boolCl)
	p.nullType = element.NewNamedType(p.null)

	c.provider = p
	return nil
}
