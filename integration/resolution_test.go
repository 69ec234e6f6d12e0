package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golanglink/liblink"
)

// The linear and affine libraries export each other; names from either side
// must be visible to a client that imports only one of them.
func TestExportCycleVisibility(t *testing.T) {
	res := linkCorpus(t)
	client := res.Library("pkg:client")

	pivot := client.Variable("pivot")
	require.Equal(t, "Vector", pivot.Type().String())

	view := client.Variable("view")
	require.Equal(t, "Transform", view.Type().String())
	viewType := view.Type().(*liblink.NamedType)
	require.Equal(t, "pkg:affine", viewType.Element().Library().URI(),
		"Transform reaches the client through pkg:linear's re-export")

	require.Equal(t, int64(2), client.Variable("scaleTwice").Value().Int(),
		"constants resolve through the export cycle")
}

func TestExportScopesContainBothSides(t *testing.T) {
	res := linkCorpus(t)

	for _, uri := range []string{"pkg:linear", "pkg:affine"} {
		lib := res.Library(uri)
		names := lib.ExportNames()
		require.Subset(t, names, []string{"Vector", "zero", "Transform", "identityScale"},
			"%s should expose the full cyclic scope", uri)
	}
}

func TestClassResolution(t *testing.T) {
	res := linkCorpus(t)
	geo := res.Library("pkg:geometry")

	rect := geo.Class("Rect")
	require.Equal(t, "Shape", rect.Supertype().String())
	require.Equal(t, "Object", geo.Class("Shape").Supertype().String())

	ctor := rect.Constructor("")
	require.Equal(t, "int", ctor.Params()[0].Type().String(), "field formal inherits the field type")
	require.Same(t, rect.Field("w"), ctor.Params()[0].FieldFormal())

	square := rect.Constructor("square")
	require.Same(t, ctor, square.Redirect())

	require.Same(t, geo.Class("Shape").Constructor(""), ctor.SuperConstructor())
}

func TestEnumResolution(t *testing.T) {
	res := linkCorpus(t)
	corner := res.Library("pkg:geometry").Enum("Corner")

	constants := corner.Constants()
	require.Len(t, constants, 4)
	require.Equal(t, "nw", constants[0].Name())
	require.Equal(t, 3, constants[3].Value().EnumIndex())

	values := corner.Field("values")
	require.Equal(t, "List<Corner>", values.Type().String())
	require.Len(t, values.Value().List(), 4)

	require.Equal(t, "int", corner.Field("index").Type().String())
}

func TestConstantResolution(t *testing.T) {
	res := linkCorpus(t)
	colors := res.Library("pkg:colors")

	favorite := colors.Variable("favorite")
	require.Equal(t, "Color.red", favorite.Value().String())

	require.Equal(t, int64(200), colors.Variable("capacity").Value().Int(),
		"Palette.maxEntries * pkg:geometry's dimensions")

	require.Equal(t, int64(6),
		res.Library("pkg:client").Function("describe").Params()[0].DefaultValue().Int())
}

func TestFieldPromotability(t *testing.T) {
	res := linkCorpus(t)
	palette := res.Library("pkg:colors").Class("Palette")
	require.True(t, palette.Field("_slots").Promotable())
	require.False(t, res.Library("pkg:geometry").Class("Rect").Field("w").Promotable(),
		"public fields never promote")
}

func TestAliasResolution(t *testing.T) {
	res := linkCorpus(t)
	shade := res.Library("pkg:colors").TypeAlias("Shade")
	require.Equal(t, "Color", shade.Aliased().String())
	require.False(t, shade.SelfReferential())
}

func TestSyntaxFullyDetached(t *testing.T) {
	res := linkCorpus(t)
	for _, lib := range res.Batch.Libraries() {
		for _, e := range lib.Declarations() {
			type withSyntax interface{ Syntax() any }
			if s, ok := e.(withSyntax); ok {
				require.Nil(t, s.Syntax(), "%s/%s still carries syntax", lib.URI(), e.Name())
			}
		}
	}
}
