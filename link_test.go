package liblink

import (
	"context"
	"errors"
	"testing"

	"github.com/golanglink/liblink/element"
	"github.com/golanglink/liblink/internal/testutil"
	"github.com/golanglink/liblink/unit"
)

const coreYAML = `
uri: std:core
declarations:
  - class: Object
  - class: int
  - class: double
  - class: String
  - class: bool
  - class: "Null"
  - class: Enum
  - class: List
    typeParams:
      - name: E
`

func parseAll(t *testing.T, docs ...string) []*unit.Library {
	t.Helper()
	units := make([]*unit.Library, 0, len(docs))
	for _, doc := range docs {
		lib, err := ParseUnit([]byte(doc))
		if err != nil {
			t.Fatalf("ParseUnit failed: %v", err)
		}
		units = append(units, lib)
	}
	return units
}

func TestLinkEndToEnd(t *testing.T) {
	units := parseAll(t, coreYAML, `
uri: pkg:geometry
imports:
  - target: std:core
declarations:
  - class: Point
    fields:
      - name: x
        type: int
        final: true
      - name: y
        type: int
        final: true
    constructors:
      - name: ""
        params:
          - name: x
            field: true
          - name: y
            field: true
  - variable: dimensions
    const: true
    init: 2
`)

	res, err := Link(units)
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	testutil.False(t, res.HasErrors(), "diagnostics: %v", res.Diagnostics())
	testutil.NotEmpty(t, res.Bytes, "default serializer produces an artifact")

	geo := res.Library("pkg:geometry")
	point := geo.Class("Point")
	testutil.Equal(t, "Object", point.Supertype().String())
	testutil.Equal(t, "int", point.Constructor("").Params()[0].Type().String())
	testutil.Equal(t, int64(2), geo.Variable("dimensions").Value().Int())
}

func TestLinkNoUnits(t *testing.T) {
	_, err := Link(nil)
	testutil.True(t, errors.Is(err, ErrNoLibraries))
}

func TestLinkMissingCore(t *testing.T) {
	units := parseAll(t, "uri: pkg:alone\n")
	_, err := Link(units)
	testutil.True(t, errors.Is(err, ErrBootstrapMissing))
}

func TestLinkWithoutSerializer(t *testing.T) {
	units := parseAll(t, coreYAML)
	res, err := Link(units, WithSerializer(nil))
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	testutil.True(t, res.Bytes == nil)
	testutil.True(t, res.Library(CoreLibraryURI) != nil)
}

func TestLinkWithLinkedDependencies(t *testing.T) {
	core := parseAll(t, coreYAML)[0]
	units := parseAll(t, `
uri: pkg:app
imports:
  - target: std:core
declarations:
  - class: App
`)

	res, err := Link(units, WithLinkedDependencies(core))
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	testutil.False(t, res.HasErrors())
	testutil.True(t, res.Library(CoreLibraryURI) == nil, "dependencies are not re-emitted")
	testutil.Equal(t, "Object", res.Library("pkg:app").Class("App").Supertype().String())
}

type stubExecutor struct {
	fired bool
}

func (s *stubExecutor) Execute(_ context.Context, target element.MacroTarget) (element.MacroOutput, error) {
	if target.Phase != element.PhaseDeclarations || target.Declaration != "Config" || s.fired {
		return element.MacroOutput{}, nil
	}
	s.fired = true
	v := unit.NewVariable("generated", unit.Synthetic)
	v.IsConst = true
	v.Init = unit.IntLit{Value: 1}
	return element.MacroOutput{Declarations: []unit.Declaration{v}}, nil
}

func TestLinkWithMacroExecutor(t *testing.T) {
	units := parseAll(t, coreYAML, `
uri: pkg:app
imports:
  - target: std:core
declarations:
  - class: Config
`)

	res, err := Link(units, WithMacroExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}
	gen := res.Library("pkg:app").Variable("generated")
	testutil.NotNil(t, gen)
	testutil.Equal(t, int64(1), gen.Value().Int())
	testutil.True(t, gen.Type().String() == "int")
}
