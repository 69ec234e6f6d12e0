package element

import (
	"slices"
	"strings"
)

// Builder constructs a Batch incrementally.
// Use NewBuilder() to create a builder, add libraries and their elements,
// then call Batch() to get the final immutable Batch.
//
// This type is intended for internal use by the linker.
// Most users should use Link from the liblink package instead.
type Builder struct {
	batch *Batch
}

// NewBuilder creates a Builder with an empty Batch.
func NewBuilder() *Builder {
	return &Builder{batch: &Batch{
		byURI:     make(map[string]*Library),
		nameUnion: make(map[string][]Element),
	}}
}

// Batch finalizes and returns the constructed Batch.
// After calling this, the Builder should not be used further.
func (b *Builder) Batch() *Batch {
	b.buildNameUnion()
	return b.batch
}

// AddLibrary adds an empty library with the given URI.
func (b *Builder) AddLibrary(uri string) *Library {
	lib := newLibrary(uri)
	b.batch.libraries = append(b.batch.libraries, lib)
	b.batch.byURI[uri] = lib
	return lib
}

// AddExternal creates a library that resolved references may point into
// without it becoming part of the batch output. Used for previously linked
// dependencies.
func (b *Builder) AddExternal(uri string) *Library {
	return newLibrary(uri)
}

// Library returns the library with the given URI, or nil.
func (b *Builder) Library(uri string) *Library {
	return b.batch.byURI[uri]
}

// LibraryCount returns the number of libraries added so far.
func (b *Builder) LibraryCount() int {
	return len(b.batch.libraries)
}

func (b *Builder) register(lib *Library, e Element, name string) {
	lib.declOrder = append(lib.declOrder, e)
	if _, exists := lib.declByName[name]; !exists {
		lib.declByName[name] = e
	}
}

// AddClass adds a class skeleton to lib.
func (b *Builder) AddClass(lib *Library, name string, syntax any) *Class {
	c := &Class{elemBase: elemBase{name: name, library: lib, syntax: syntax}, simplyBounded: true}
	lib.classes = append(lib.classes, c)
	b.register(lib, c, name)
	return c
}

// AddMixin adds a mixin skeleton to lib.
func (b *Builder) AddMixin(lib *Library, name string, syntax any) *Mixin {
	m := &Mixin{elemBase: elemBase{name: name, library: lib, syntax: syntax}, simplyBounded: true}
	lib.mixins = append(lib.mixins, m)
	b.register(lib, m, name)
	return m
}

// AddEnum adds an enum skeleton to lib.
func (b *Builder) AddEnum(lib *Library, name string, syntax any) *Enum {
	e := &Enum{elemBase: elemBase{name: name, library: lib, syntax: syntax}}
	lib.enums = append(lib.enums, e)
	b.register(lib, e, name)
	return e
}

// AddTypeAlias adds a type alias skeleton to lib.
func (b *Builder) AddTypeAlias(lib *Library, name string, syntax any) *TypeAlias {
	a := &TypeAlias{elemBase: elemBase{name: name, library: lib, syntax: syntax}, simplyBounded: true}
	lib.aliases = append(lib.aliases, a)
	b.register(lib, a, name)
	return a
}

// AddFunction adds a function skeleton to lib.
func (b *Builder) AddFunction(lib *Library, name string, syntax any) *Function {
	f := &Function{elemBase: elemBase{name: name, library: lib, syntax: syntax}}
	lib.functions = append(lib.functions, f)
	b.register(lib, f, name)
	return f
}

// AddVariable adds a variable skeleton to lib.
func (b *Builder) AddVariable(lib *Library, name string, isConst, isFinal bool, syntax any) *Variable {
	v := &Variable{
		elemBase: elemBase{name: name, library: lib, syntax: syntax},
		isConst:  isConst,
		isFinal:  isFinal,
	}
	lib.variables = append(lib.variables, v)
	b.register(lib, v, name)
	return v
}

// AddTypeParam adds a type parameter to a class, mixin, or type alias.
func (b *Builder) AddTypeParam(owner Element, name string, syntax any) *TypeParam {
	tp := &TypeParam{elemBase: elemBase{name: name, library: owner.Library(), syntax: syntax}}
	switch o := owner.(type) {
	case *Class:
		o.typeParams = append(o.typeParams, tp)
	case *Mixin:
		o.typeParams = append(o.typeParams, tp)
	case *TypeAlias:
		o.typeParams = append(o.typeParams, tp)
	}
	return tp
}

// AddField adds a field to a class, mixin, or enum.
func (b *Builder) AddField(owner Element, name string, static, final, konst, synthetic bool, syntax any) *Field {
	f := &Field{
		elemBase:  elemBase{name: name, library: owner.Library(), syntax: syntax},
		enclosing: owner,
		isStatic:  static,
		isFinal:   final,
		isConst:   konst,
		synthetic: synthetic,
	}
	switch o := owner.(type) {
	case *Class:
		o.fields = append(o.fields, f)
	case *Mixin:
		o.fields = append(o.fields, f)
	case *Enum:
		o.fields = append(o.fields, f)
	}
	return f
}

// AddConstructor adds a constructor to a class.
func (b *Builder) AddConstructor(c *Class, name string, isConst, isFactory, synthetic bool, syntax any) *Constructor {
	ct := &Constructor{
		elemBase:  elemBase{name: name, library: c.Library(), syntax: syntax},
		enclosing: c,
		isConst:   isConst,
		isFactory: isFactory,
		synthetic: synthetic,
	}
	c.constructors = append(c.constructors, ct)
	return ct
}

// AddParameter adds a parameter to a function or constructor.
func (b *Builder) AddParameter(owner Element, name string, optional, named bool, syntax any) *Parameter {
	p := &Parameter{
		elemBase: elemBase{name: name, library: owner.Library(), syntax: syntax},
		optional: optional,
		named:    named,
	}
	switch o := owner.(type) {
	case *Function:
		o.params = append(o.params, p)
	case *Constructor:
		o.params = append(o.params, p)
	}
	return p
}

// Type and inheritance mutations, one per resolution pass output.

// SetSupertype sets a class's resolved supertype.
func (b *Builder) SetSupertype(c *Class, t Type) { c.supertype = t }

// AddMixinType appends a resolved mixin application to a class.
func (b *Builder) AddMixinType(c *Class, t Type) { c.mixins = append(c.mixins, t) }

// AddInterfaceType appends a resolved interface to a class or mixin.
func (b *Builder) AddInterfaceType(owner Element, t Type) {
	switch o := owner.(type) {
	case *Class:
		o.interfaces = append(o.interfaces, t)
	case *Mixin:
		o.interfaces = append(o.interfaces, t)
	}
}

// AddOnType appends a resolved on-clause constraint to a mixin.
func (b *Builder) AddOnType(m *Mixin, t Type) { m.on = append(m.on, t) }

// SetBound sets a type parameter's resolved bound.
func (b *Builder) SetBound(tp *TypeParam, t Type) { tp.bound = t }

// SetVariance sets a type parameter's computed variance.
func (b *Builder) SetVariance(tp *TypeParam, v Variance) { tp.variance = v }

// SetSimplyBounded records the simply-bounded check result for a generic
// declaration.
func (b *Builder) SetSimplyBounded(owner Element, ok bool) {
	switch o := owner.(type) {
	case *Class:
		o.simplyBounded = ok
	case *Mixin:
		o.simplyBounded = ok
	case *TypeAlias:
		o.simplyBounded = ok
	}
}

// SetAliased sets a type alias's resolved expansion.
func (b *Builder) SetAliased(a *TypeAlias, t Type) { a.aliased = t }

// SetSelfReferential marks a self-referential type alias.
func (b *Builder) SetSelfReferential(a *TypeAlias) {
	a.selfReferential = true
	a.aliased = Invalid
}

// SetFieldType sets a field's resolved type.
func (b *Builder) SetFieldType(f *Field, t Type) { f.typ = t }

// RewriteFieldConst clears a field's const modifier, leaving it final.
// Used when the enclosing class has no constant constructor.
func (b *Builder) RewriteFieldConst(f *Field) {
	f.isConst = false
	f.isFinal = true
}

// SetFieldPromotable records the field promotability result.
func (b *Builder) SetFieldPromotable(f *Field, ok bool) { f.promotable = ok }

// SetFieldValue sets a field's resolved constant value.
func (b *Builder) SetFieldValue(f *Field, v *ConstValue) { f.value = v }

// SetVariableType sets a variable's resolved or inferred type.
func (b *Builder) SetVariableType(v *Variable, t Type, inferred bool) {
	v.typ = t
	v.inferred = inferred
}

// SetVariableValue sets a variable's resolved constant value.
func (b *Builder) SetVariableValue(v *Variable, cv *ConstValue) { v.value = cv }

// SetReturnType sets a function's resolved return type.
func (b *Builder) SetReturnType(f *Function, t Type) { f.returnType = t }

// SetParamType sets a parameter's resolved type.
func (b *Builder) SetParamType(p *Parameter, t Type) { p.typ = t }

// SetParamFieldFormal binds an initializing formal to its field.
func (b *Builder) SetParamFieldFormal(p *Parameter, f *Field) { p.fieldFormal = f }

// SetParamDefault sets a parameter's resolved default value.
func (b *Builder) SetParamDefault(p *Parameter, v *ConstValue) { p.defaultValue = v }

// SetSuperConstructor binds a constructor to its resolved super constructor.
func (b *Builder) SetSuperConstructor(ct, super *Constructor) { ct.superCtor = super }

// SetRedirect binds a redirecting constructor to its target.
func (b *Builder) SetRedirect(ct, target *Constructor) { ct.redirect = target }

// SetSuperInvokedNames records a mixin's sorted super-invoked names.
func (b *Builder) SetSuperInvokedNames(m *Mixin, names []string) { m.superInvoked = names }

// NewAnnotation creates a resolved annotation.
func (b *Builder) NewAnnotation(name string, target Element, value *ConstValue) *Annotation {
	return &Annotation{name: name, target: target, value: value}
}

// AddAnnotation attaches a resolved annotation to an element.
func (b *Builder) AddAnnotation(owner Element, a *Annotation) {
	if base := elemBaseOf(owner); base != nil {
		base.addAnnotation(a)
	}
}

// SetExportScope records a library's frozen export scope view.
func (b *Builder) SetExportScope(lib *Library, names []string, byName map[string]Element) {
	lib.exportNames = names
	lib.exportsByName = byName
}

// AddAugmentation appends a macro-generated definition source to lib.
func (b *Builder) AddAugmentation(lib *Library, a Augmentation) {
	lib.augmentations = append(lib.augmentations, a)
}

// AddDiagnostic records a diagnostic on the batch.
func (b *Builder) AddDiagnostic(d Diagnostic) {
	b.batch.diagnostics = append(b.batch.diagnostics, d)
}

// DiagnosticCount returns the number of diagnostics recorded so far.
func (b *Builder) DiagnosticCount() int {
	return len(b.batch.diagnostics)
}

// DetachSyntax severs every element's back-reference to its originating
// syntax in lib. No pass may touch syntax afterwards.
func (b *Builder) DetachSyntax(lib *Library) {
	for _, e := range lib.declOrder {
		b.detachElement(e)
	}
}

func (b *Builder) detachElement(e Element) {
	base := elemBaseOf(e)
	if base != nil {
		base.setSyntax(nil)
	}
	switch o := e.(type) {
	case *Class:
		for _, tp := range o.typeParams {
			tp.setSyntax(nil)
		}
		for _, f := range o.fields {
			f.setSyntax(nil)
		}
		for _, ct := range o.constructors {
			ct.setSyntax(nil)
			for _, p := range ct.params {
				p.setSyntax(nil)
			}
		}
	case *Mixin:
		for _, tp := range o.typeParams {
			tp.setSyntax(nil)
		}
		for _, f := range o.fields {
			f.setSyntax(nil)
		}
	case *Enum:
		for _, f := range o.fields {
			f.setSyntax(nil)
		}
	case *TypeAlias:
		for _, tp := range o.typeParams {
			tp.setSyntax(nil)
		}
	case *Function:
		for _, p := range o.params {
			p.setSyntax(nil)
		}
	}
}

// elemBaseOf returns the shared base of a concrete element, or nil.
func elemBaseOf(e Element) *elemBase {
	switch o := e.(type) {
	case *Class:
		return &o.elemBase
	case *Mixin:
		return &o.elemBase
	case *Enum:
		return &o.elemBase
	case *TypeAlias:
		return &o.elemBase
	case *Function:
		return &o.elemBase
	case *Variable:
		return &o.elemBase
	case *Field:
		return &o.elemBase
	case *Constructor:
		return &o.elemBase
	case *Parameter:
		return &o.elemBase
	case *TypeParam:
		return &o.elemBase
	default:
		return nil
	}
}

// buildNameUnion indexes every top-level declared name across the batch.
func (b *Builder) buildNameUnion() {
	for _, lib := range b.batch.libraries {
		for _, e := range lib.declOrder {
			name := e.Name()
			b.batch.nameUnion[name] = append(b.batch.nameUnion[name], e)
		}
	}
	names := make([]string, 0, len(b.batch.nameUnion))
	for name := range b.batch.nameUnion {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)
	b.batch.unionNames = names
}
