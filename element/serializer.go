package element

import (
	"encoding/json"
	"errors"
)

// ErrSerializerFinished is returned when a serializer is reused after Finish.
var ErrSerializerFinished = errors.New("element: serializer already finished")

// NewJSONSerializer returns the default serializer: a deterministic JSON
// encoding of each library's resolved surface, in write order. The linker
// uses it when no Serializer option is supplied.
func NewJSONSerializer() Serializer {
	return &jsonSerializer{}
}

type jsonSerializer struct {
	libs     []jsonLibrary
	finished bool
}

type jsonLibrary struct {
	URI           string            `json:"uri"`
	Declarations  []jsonDeclaration `json:"declarations,omitempty"`
	ExportNames   []string          `json:"exportNames,omitempty"`
	Augmentations []Augmentation    `json:"augmentations,omitempty"`
}

type jsonDeclaration struct {
	Kind string `json:"kind"`
	Name string `json:"name"`

	Supertype  string   `json:"supertype,omitempty"`
	Mixins     []string `json:"mixins,omitempty"`
	Interfaces []string `json:"interfaces,omitempty"`
	TypeParams []string `json:"typeParams,omitempty"`

	Fields       []jsonMember `json:"fields,omitempty"`
	Constructors []jsonMember `json:"constructors,omitempty"`

	Type       string `json:"type,omitempty"`
	ReturnType string `json:"returnType,omitempty"`
	Value      string `json:"value,omitempty"`
	Aliased    string `json:"aliased,omitempty"`
}

type jsonMember struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Value     string `json:"value,omitempty"`
	Const     bool   `json:"const,omitempty"`
	Static    bool   `json:"static,omitempty"`
	Final     bool   `json:"final,omitempty"`
	Synthetic bool   `json:"synthetic,omitempty"`
	Params    int    `json:"params,omitempty"`
}

func (s *jsonSerializer) WriteLibrary(lib *Library) error {
	if s.finished {
		return ErrSerializerFinished
	}
	out := jsonLibrary{
		URI:           lib.URI(),
		ExportNames:   lib.ExportNames(),
		Augmentations: lib.Augmentations(),
	}
	for _, e := range lib.Declarations() {
		out.Declarations = append(out.Declarations, encodeDeclaration(e))
	}
	s.libs = append(s.libs, out)
	return nil
}

func (s *jsonSerializer) Finish() ([]byte, error) {
	if s.finished {
		return nil, ErrSerializerFinished
	}
	s.finished = true
	return json.Marshal(struct {
		Libraries []jsonLibrary `json:"libraries"`
	}{Libraries: s.libs})
}

func encodeDeclaration(e Element) jsonDeclaration {
	out := jsonDeclaration{Kind: e.ElementKind().String(), Name: e.Name()}
	switch o := e.(type) {
	case *Class:
		if o.Supertype() != nil {
			out.Supertype = o.Supertype().String()
		}
		out.Mixins = typeStrings(o.Mixins())
		out.Interfaces = typeStrings(o.Interfaces())
		out.TypeParams = typeParamStrings(o.TypeParams())
		out.Fields = encodeFields(o.Fields())
		for _, ct := range o.Constructors() {
			out.Constructors = append(out.Constructors, jsonMember{
				Name:      ct.Name(),
				Const:     ct.IsConst(),
				Synthetic: ct.Synthetic(),
				Params:    len(ct.Params()),
			})
		}
	case *Mixin:
		out.Interfaces = typeStrings(o.Interfaces())
		out.TypeParams = typeParamStrings(o.TypeParams())
		out.Fields = encodeFields(o.Fields())
	case *Enum:
		out.Fields = encodeFields(o.Fields())
	case *TypeAlias:
		out.TypeParams = typeParamStrings(o.TypeParams())
		if o.Aliased() != nil {
			out.Aliased = o.Aliased().String()
		}
	case *Function:
		if o.ReturnType() != nil {
			out.ReturnType = o.ReturnType().String()
		}
	case *Variable:
		if o.Type() != nil {
			out.Type = o.Type().String()
		}
		if o.Value() != nil {
			out.Value = o.Value().String()
		}
	}
	return out
}

func encodeFields(fields []*Field) []jsonMember {
	var out []jsonMember
	for _, f := range fields {
		m := jsonMember{
			Name:      f.Name(),
			Const:     f.IsConst(),
			Static:    f.IsStatic(),
			Final:     f.IsFinal(),
			Synthetic: f.Synthetic(),
		}
		if f.Type() != nil {
			m.Type = f.Type().String()
		}
		if f.Value() != nil {
			m.Value = f.Value().String()
		}
		out = append(out, m)
	}
	return out
}

func typeStrings(types []Type) []string {
	var out []string
	for _, t := range types {
		out = append(out, t.String())
	}
	return out
}

func typeParamStrings(tps []*TypeParam) []string {
	var out []string
	for _, tp := range tps {
		out = append(out, tp.Name())
	}
	return out
}
