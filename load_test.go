package liblink

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/golanglink/liblink/internal/testutil"
	"github.com/golanglink/liblink/unit"
)

func TestParseUnitClassDescriptor(t *testing.T) {
	lib, err := ParseUnit([]byte(`
uri: pkg:shapes
imports:
  - target: std:core
exports:
  - target: pkg:base
    show: [Shape]
  - target: pkg:extras
    hide: [Internal]
declarations:
  - class: Rect
    supertype: Shape
    typeParams:
      - name: T
        bound: Object
    interfaces: [Comparable]
    fields:
      - name: w
        type: int
        final: true
      - name: side
        static: true
        const: true
        init: 4
    constructors:
      - name: ""
        params:
          - name: w
            field: true
      - name: square
        redirectTo: ""
        super: base
`))
	if err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}

	testutil.Equal(t, "pkg:shapes", lib.URI)
	testutil.Len(t, lib.Imports, 1)
	testutil.Len(t, lib.Exports, 2)
	testutil.True(t, lib.Exports[0].Allows("Shape"))
	testutil.False(t, lib.Exports[0].Allows("Other"))
	testutil.False(t, lib.Exports[1].Allows("Internal"))
	testutil.True(t, lib.Exports[1].Allows("Shape"))

	cls := lib.Declaration("Rect").(*unit.Class)
	testutil.Equal(t, "Shape", cls.Supertype.Name)
	testutil.Len(t, cls.TypeParams, 1)
	testutil.Equal(t, "Object", cls.TypeParams[0].Bound.Name)
	testutil.Len(t, cls.Interfaces, 1)

	testutil.True(t, cls.Fields[0].IsFinal)
	testutil.Equal(t, "int", cls.Fields[0].Type.Name)
	testutil.True(t, cls.Fields[1].IsStatic && cls.Fields[1].IsConst)
	testutil.Equal(t, int64(4), cls.Fields[1].Init.(unit.IntLit).Value)

	testutil.Len(t, cls.Constructors, 2)
	testutil.True(t, cls.Constructors[0].Params[0].FieldFormal)
	sq := cls.Constructors[1]
	testutil.True(t, sq.HasRedirect)
	testutil.Equal(t, "", sq.RedirectTo)
	testutil.Equal(t, "base", sq.SuperName)
}

func TestParseUnitOtherDeclarationKinds(t *testing.T) {
	lib, err := ParseUnit([]byte(`
uri: pkg:mixed
declarations:
  - mixin: Logging
    on: [Object]
    superInvokes: [write, write, flush]
  - enum: Color
    values: [red, green, blue]
  - alias: Shade
    type: Color
  - function: area
    returns: double
    params:
      - name: scale
        type: double
        optional: true
        default: 1.0
  - variable: origin
    const: true
    init:
      op: "-"
      x: 5
`))
	if err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}

	mix := lib.Declaration("Logging").(*unit.Mixin)
	testutil.Len(t, mix.On, 1)
	testutil.Len(t, mix.SuperInvoked, 3)

	enum := lib.Declaration("Color").(*unit.Enum)
	testutil.Len(t, enum.Constants, 3)
	testutil.Equal(t, "green", enum.Constants[1].Name)

	al := lib.Declaration("Shade").(*unit.TypeAlias)
	testutil.Equal(t, "Color", al.Aliased.Name)

	fn := lib.Declaration("area").(*unit.Function)
	testutil.Equal(t, "double", fn.ReturnType.Name)
	testutil.True(t, fn.Params[0].Optional)
	testutil.Equal(t, 1.0, fn.Params[0].Default.(unit.DoubleLit).Value)

	v := lib.Declaration("origin").(*unit.Variable)
	testutil.True(t, v.IsConst)
	neg := v.Init.(unit.Unary)
	testutil.Equal(t, "-", neg.Op)
	testutil.Equal(t, int64(5), neg.X.(unit.IntLit).Value)
}

func TestParseUnitLiteralShorthand(t *testing.T) {
	lib, err := ParseUnit([]byte(`
uri: pkg:lits
declarations:
  - variable: i
    init: 3
  - variable: d
    init: 2.5
  - variable: b
    init: true
  - variable: "n"
    init: null
  - variable: s
    init: hello
`))
	if err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}

	testutil.Equal(t, int64(3), lib.Declaration("i").(*unit.Variable).Init.(unit.IntLit).Value)
	testutil.Equal(t, 2.5, lib.Declaration("d").(*unit.Variable).Init.(unit.DoubleLit).Value)
	testutil.True(t, lib.Declaration("b").(*unit.Variable).Init.(unit.BoolLit).Value)
	_, isNull := lib.Declaration("n").(*unit.Variable).Init.(unit.NullLit)
	testutil.True(t, isNull)
	testutil.Equal(t, "hello", lib.Declaration("s").(*unit.Variable).Init.(unit.StringLit).Value)
}

func TestParseUnitExpressionsAndAnnotations(t *testing.T) {
	lib, err := ParseUnit([]byte(`
uri: pkg:exprs
declarations:
  - variable: sum
    const: true
    init:
      op: "+"
      left:
        op: "*"
        left: 2
        right: 3
      right: {ref: offset}
  - variable: fav
    const: true
    init: {ref: Color.red}
  - class: Tagged
    annotations:
      - name: deprecated
      - name: Color.red
`))
	if err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}

	sum := lib.Declaration("sum").(*unit.Variable).Init.(unit.Binary)
	testutil.Equal(t, "+", sum.Op)
	testutil.Equal(t, "*", sum.Left.(unit.Binary).Op)
	testutil.Equal(t, "offset", sum.Right.(unit.Ident).Name)

	fav := lib.Declaration("fav").(*unit.Variable).Init.(unit.PrefixedIdent)
	testutil.Equal(t, "Color", fav.Prefix)
	testutil.Equal(t, "red", fav.Name)

	cls := lib.Declaration("Tagged").(*unit.Class)
	testutil.Len(t, cls.Metadata, 2)
	testutil.Equal(t, "deprecated", cls.Metadata[0].Name)
	testutil.Equal(t, "Color", cls.Metadata[1].Prefix)
	testutil.Equal(t, "red", cls.Metadata[1].Name)
}

func TestParseUnitTypeArguments(t *testing.T) {
	lib, err := ParseUnit([]byte(`
uri: pkg:generics
declarations:
  - variable: items
    type:
      name: List
      args:
        - {name: List, args: [int]}
`))
	if err != nil {
		t.Fatalf("ParseUnit failed: %v", err)
	}

	typ := lib.Declaration("items").(*unit.Variable).Type
	testutil.Equal(t, "List", typ.Name)
	testutil.Len(t, typ.Args, 1)
	testutil.Equal(t, "List", typ.Args[0].Name)
	testutil.Equal(t, "int", typ.Args[0].Args[0].Name)
}

func TestParseUnitErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"missing uri", `declarations: []`, "uri"},
		{"unknown kind", "uri: pkg:x\ndeclarations:\n  - supertype: Object", "one of"},
		{"alias without type", "uri: pkg:x\ndeclarations:\n  - alias: A", "needs a type"},
		{"operator without operands", "uri: pkg:x\ndeclarations:\n  - variable: v\n    init: {op: \"+\"}", "operands"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseUnit([]byte(tc.yaml))
			if err == nil {
				t.Fatalf("expected error")
			}
			testutil.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadUnitsOrderAndErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "libs/b.yaml", "uri: pkg:b\n")
	writeFile(t, fs, "libs/a.yaml", "uri: pkg:a\n")

	units, err := LoadUnits(Dir("libs", WithFs(fs)))
	if err != nil {
		t.Fatalf("LoadUnits failed: %v", err)
	}
	testutil.Len(t, units, 2)
	testutil.Equal(t, "pkg:a", units[0].URI, "sorted file order")
	testutil.Equal(t, "pkg:b", units[1].URI)

	writeFile(t, fs, "libs/broken.yaml", "declarations: []\n")
	_, err = LoadUnits(Dir("libs", WithFs(fs)))
	if err == nil {
		t.Fatalf("expected error for broken descriptor")
	}
	testutil.Contains(t, err.Error(), "broken.yaml", "error names the failing file")
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(strings.TrimLeft(content, "\n")), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
