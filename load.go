package liblink

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/golanglink/liblink/unit"
)

// LoadUnits reads batch descriptor files from source and builds the library
// units they describe, one library per file, in file order. Descriptors are
// a YAML form of the unit model; see the repository's testdata for the
// shape.
func LoadUnits(source Source) ([]*unit.Library, error) {
	files, err := source.ListFiles()
	if err != nil {
		return nil, err
	}
	units := make([]*unit.Library, 0, len(files))
	for _, path := range files {
		data, err := source.ReadFile(path)
		if err != nil {
			return nil, err
		}
		lib, err := parseDescriptor(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		units = append(units, lib)
	}
	return units, nil
}

// ParseUnit builds one library unit from YAML descriptor bytes.
func ParseUnit(data []byte) (*unit.Library, error) {
	return parseDescriptor(data)
}

type libraryDesc struct {
	URI          string     `yaml:"uri"`
	Imports      []edgeDesc `yaml:"imports"`
	Exports      []edgeDesc `yaml:"exports"`
	Declarations []declDesc `yaml:"declarations"`
}

type edgeDesc struct {
	Target string   `yaml:"target"`
	Show   []string `yaml:"show"`
	Hide   []string `yaml:"hide"`
}

func (d edgeDesc) filter() unit.NameFilter {
	switch {
	case len(d.Show) > 0 && len(d.Hide) > 0:
		return unit.Combine(unit.Show(d.Show...), unit.Hide(d.Hide...))
	case len(d.Show) > 0:
		return unit.Show(d.Show...)
	case len(d.Hide) > 0:
		return unit.Hide(d.Hide...)
	default:
		return nil
	}
}

// typeRefDesc accepts either a plain scalar ("int") or a mapping with
// explicit type arguments ({name: List, args: [int]}).
type typeRefDesc struct {
	Name string
	Args []typeRefDesc
}

func (d *typeRefDesc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&d.Name)
	}
	var full struct {
		Name string        `yaml:"name"`
		Args []typeRefDesc `yaml:"args"`
	}
	if err := node.Decode(&full); err != nil {
		return err
	}
	if full.Name == "" {
		return fmt.Errorf("line %d: type reference needs a name", node.Line)
	}
	d.Name = full.Name
	d.Args = full.Args
	return nil
}

func (d typeRefDesc) build() unit.TypeRef {
	ref := unit.TypeRef{Name: d.Name}
	for _, a := range d.Args {
		ref.Args = append(ref.Args, a.build())
	}
	return ref
}

func buildTypeRefs(descs []typeRefDesc) []unit.TypeRef {
	out := make([]unit.TypeRef, 0, len(descs))
	for _, d := range descs {
		out = append(out, d.build())
	}
	return out
}

func optionalRef(d *typeRefDesc) *unit.TypeRef {
	if d == nil {
		return nil
	}
	ref := d.build()
	return &ref
}

// exprDesc is the YAML form of a constant expression. Literals are plain
// scalars (3, 2.5, true, null, "text"); references and operators use a
// mapping ({ref: zero}, {op: "+", left: 1, right: 2}, {op: "-", x: 3}).
type exprDesc struct {
	Int    *int64    `yaml:"-"`
	Double *float64  `yaml:"-"`
	Bool   *bool     `yaml:"-"`
	Str    *string   `yaml:"-"`
	Null   bool      `yaml:"-"`
	Ref    string    `yaml:"ref"` // "name" or "Container.name"
	Op     string    `yaml:"op"`
	Left   *exprDesc `yaml:"left"`
	Right  *exprDesc `yaml:"right"`
	X      *exprDesc `yaml:"x"`
}

func (d *exprDesc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		switch node.Tag {
		case "!!null":
			d.Null = true
		case "!!int":
			var v int64
			if err := node.Decode(&v); err != nil {
				return err
			}
			d.Int = &v
		case "!!float":
			var v float64
			if err := node.Decode(&v); err != nil {
				return err
			}
			d.Double = &v
		case "!!bool":
			var v bool
			if err := node.Decode(&v); err != nil {
				return err
			}
			d.Bool = &v
		default:
			var v string
			if err := node.Decode(&v); err != nil {
				return err
			}
			d.Str = &v
		}
		return nil
	}

	type plain exprDesc
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = exprDesc(p)
	return nil
}

func (d *exprDesc) build() (unit.Expr, error) {
	switch {
	case d == nil:
		return nil, nil
	case d.Int != nil:
		return unit.IntLit{Value: *d.Int}, nil
	case d.Double != nil:
		return unit.DoubleLit{Value: *d.Double}, nil
	case d.Bool != nil:
		return unit.BoolLit{Value: *d.Bool}, nil
	case d.Str != nil:
		return unit.StringLit{Value: *d.Str}, nil
	case d.Null:
		return unit.NullLit{}, nil
	case d.Ref != "":
		if prefix, name, ok := splitRef(d.Ref); ok {
			return unit.PrefixedIdent{Prefix: prefix, Name: name}, nil
		}
		return unit.Ident{Name: d.Ref}, nil
	case d.Op != "" && d.X != nil:
		x, err := d.X.build()
		if err != nil {
			return nil, err
		}
		return unit.Unary{Op: d.Op, X: x}, nil
	case d.Op != "":
		left, err := d.Left.build()
		if err != nil {
			return nil, err
		}
		right, err := d.Right.build()
		if err != nil {
			return nil, err
		}
		if left == nil || right == nil {
			return nil, fmt.Errorf("operator %q needs left and right operands", d.Op)
		}
		return unit.Binary{Op: d.Op, Left: left, Right: right}, nil
	default:
		return nil, fmt.Errorf("expression needs one of int, double, bool, str, null, ref, op")
	}
}

func splitRef(ref string) (prefix, name string, ok bool) {
	for i := 0; i < len(ref); i++ {
		if ref[i] == '.' {
			return ref[:i], ref[i+1:], true
		}
	}
	return "", "", false
}

type annDesc struct {
	Name        string     `yaml:"name"` // "deprecated" or "Container.name"
	Constructor string     `yaml:"constructor"`
	Args        []exprDesc `yaml:"args"`
}

func (d annDesc) build() (unit.Annotation, error) {
	ann := unit.Annotation{Name: d.Name, ConstructorName: d.Constructor}
	if prefix, name, ok := splitRef(d.Name); ok {
		ann.Prefix, ann.Name = prefix, name
	}
	for _, a := range d.Args {
		arg, err := a.build()
		if err != nil {
			return ann, err
		}
		ann.Args = append(ann.Args, arg)
	}
	return ann, nil
}

func buildAnnotations(descs []annDesc) ([]unit.Annotation, error) {
	if len(descs) == 0 {
		return nil, nil
	}
	out := make([]unit.Annotation, 0, len(descs))
	for _, d := range descs {
		ann, err := d.build()
		if err != nil {
			return nil, err
		}
		out = append(out, ann)
	}
	return out, nil
}

type typeParamDesc struct {
	Name  string       `yaml:"name"`
	Bound *typeRefDesc `yaml:"bound"`
}

type fieldDesc struct {
	Name        string       `yaml:"name"`
	Type        *typeRefDesc `yaml:"type"`
	Static      bool         `yaml:"static"`
	Final       bool         `yaml:"final"`
	Const       bool         `yaml:"const"`
	Init        *exprDesc    `yaml:"init"`
	Annotations []annDesc    `yaml:"annotations"`
}

type paramDesc struct {
	Name     string       `yaml:"name"`
	Type     *typeRefDesc `yaml:"type"`
	Field    bool         `yaml:"field"` // initializing formal
	Optional bool         `yaml:"optional"`
	Named    bool         `yaml:"named"`
	Default  *exprDesc    `yaml:"default"`
}

type ctorDesc struct {
	Name        string      `yaml:"name"`
	Const       bool        `yaml:"const"`
	Factory     bool        `yaml:"factory"`
	Params      []paramDesc `yaml:"params"`
	RedirectTo  *string     `yaml:"redirectTo"`
	Super       string      `yaml:"super"`
	Annotations []annDesc   `yaml:"annotations"`
}

// declDesc carries every declaration shape; the kind keys (class, mixin,
// enum, alias, function, variable) discriminate, exactly one may be set.
type declDesc struct {
	Class    string `yaml:"class"`
	Mixin    string `yaml:"mixin"`
	Enum     string `yaml:"enum"`
	Alias    string `yaml:"alias"`
	Function string `yaml:"function"`
	Variable string `yaml:"variable"`

	TypeParams   []typeParamDesc `yaml:"typeParams"`
	Supertype    *typeRefDesc    `yaml:"supertype"`
	Mixins       []typeRefDesc   `yaml:"mixins"`
	Interfaces   []typeRefDesc   `yaml:"interfaces"`
	On           []typeRefDesc   `yaml:"on"`
	Fields       []fieldDesc     `yaml:"fields"`
	Constructors []ctorDesc      `yaml:"constructors"`
	SuperInvokes []string        `yaml:"superInvokes"`
	Values       []string        `yaml:"values"`  // enum entries
	Type         *typeRefDesc    `yaml:"type"`    // alias target or variable type
	Returns      *typeRefDesc    `yaml:"returns"` // function return type
	Params       []paramDesc     `yaml:"params"`
	Const        bool            `yaml:"const"`
	Final        bool            `yaml:"final"`
	Init         *exprDesc       `yaml:"init"`
	Annotations  []annDesc       `yaml:"annotations"`
}

func parseDescriptor(data []byte) (*unit.Library, error) {
	var desc libraryDesc
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, err
	}
	if desc.URI == "" {
		return nil, fmt.Errorf("descriptor needs a uri")
	}

	lib := unit.NewLibrary(desc.URI)
	for _, e := range desc.Imports {
		lib.AddImport(e.Target, e.filter())
	}
	for _, e := range desc.Exports {
		lib.AddExport(e.Target, e.filter())
	}
	for i, d := range desc.Declarations {
		decl, err := d.build()
		if err != nil {
			return nil, fmt.Errorf("declaration %d: %w", i, err)
		}
		lib.AddDeclaration(decl)
	}
	return lib, nil
}

func (d declDesc) build() (unit.Declaration, error) {
	anns, err := buildAnnotations(d.Annotations)
	if err != nil {
		return nil, err
	}

	switch {
	case d.Class != "":
		cls := unit.NewClass(d.Class, unit.Synthetic)
		cls.Metadata = anns
		cls.TypeParams = buildTypeParams(d.TypeParams)
		cls.Supertype = optionalRef(d.Supertype)
		cls.Mixins = buildTypeRefs(d.Mixins)
		cls.Interfaces = buildTypeRefs(d.Interfaces)
		for _, f := range d.Fields {
			fld, err := f.build()
			if err != nil {
				return nil, err
			}
			cls.Fields = append(cls.Fields, fld)
		}
		for _, ct := range d.Constructors {
			ctor, err := ct.build()
			if err != nil {
				return nil, err
			}
			cls.Constructors = append(cls.Constructors, ctor)
		}
		return cls, nil

	case d.Mixin != "":
		mix := unit.NewMixin(d.Mixin, unit.Synthetic)
		mix.Metadata = anns
		mix.TypeParams = buildTypeParams(d.TypeParams)
		mix.On = buildTypeRefs(d.On)
		mix.Interfaces = buildTypeRefs(d.Interfaces)
		mix.SuperInvoked = d.SuperInvokes
		for _, f := range d.Fields {
			fld, err := f.build()
			if err != nil {
				return nil, err
			}
			mix.Fields = append(mix.Fields, fld)
		}
		return mix, nil

	case d.Enum != "":
		enum := unit.NewEnum(d.Enum, unit.Synthetic)
		enum.Metadata = anns
		for _, name := range d.Values {
			enum.Constants = append(enum.Constants, unit.EnumConstant{Name: name})
		}
		return enum, nil

	case d.Alias != "":
		if d.Type == nil {
			return nil, fmt.Errorf("alias %q needs a type", d.Alias)
		}
		al := unit.NewTypeAlias(d.Alias, d.Type.build(), unit.Synthetic)
		al.Metadata = anns
		al.TypeParams = buildTypeParams(d.TypeParams)
		return al, nil

	case d.Function != "":
		fn := unit.NewFunction(d.Function, unit.Synthetic)
		fn.Metadata = anns
		fn.ReturnType = optionalRef(d.Returns)
		params, err := buildParams(d.Params)
		if err != nil {
			return nil, err
		}
		fn.Params = params
		return fn, nil

	case d.Variable != "":
		v := unit.NewVariable(d.Variable, unit.Synthetic)
		v.Metadata = anns
		v.Type = optionalRef(d.Type)
		v.IsConst = d.Const
		v.IsFinal = d.Final
		init, err := d.Init.build()
		if err != nil {
			return nil, err
		}
		v.Init = init
		return v, nil

	default:
		return nil, fmt.Errorf("declaration needs one of class, mixin, enum, alias, function, variable")
	}
}

func buildTypeParams(descs []typeParamDesc) []unit.TypeParam {
	out := make([]unit.TypeParam, 0, len(descs))
	for _, d := range descs {
		out = append(out, unit.TypeParam{Name: d.Name, Bound: optionalRef(d.Bound)})
	}
	return out
}

func (d fieldDesc) build() (*unit.Field, error) {
	anns, err := buildAnnotations(d.Annotations)
	if err != nil {
		return nil, err
	}
	init, err := d.Init.build()
	if err != nil {
		return nil, err
	}
	return &unit.Field{
		Name:     d.Name,
		Type:     optionalRef(d.Type),
		Init:     init,
		IsStatic: d.Static,
		IsFinal:  d.Final,
		IsConst:  d.Const,
		Metadata: anns,
	}, nil
}

func (d ctorDesc) build() (*unit.Constructor, error) {
	anns, err := buildAnnotations(d.Annotations)
	if err != nil {
		return nil, err
	}
	params, err := buildParams(d.Params)
	if err != nil {
		return nil, err
	}
	ctor := &unit.Constructor{
		Name:      d.Name,
		IsConst:   d.Const,
		IsFactory: d.Factory,
		Params:    params,
		SuperName: d.Super,
		Metadata:  anns,
	}
	if d.RedirectTo != nil {
		ctor.HasRedirect = true
		ctor.RedirectTo = *d.RedirectTo
	}
	return ctor, nil
}

func buildParams(descs []paramDesc) ([]unit.Param, error) {
	out := make([]unit.Param, 0, len(descs))
	for _, d := range descs {
		def, err := d.Default.build()
		if err != nil {
			return nil, err
		}
		out = append(out, unit.Param{
			Name:        d.Name,
			Type:        optionalRef(d.Type),
			FieldFormal: d.Field,
			Optional:    d.Optional,
			Named:       d.Named,
			Default:     def,
		})
	}
	return out, nil
}
