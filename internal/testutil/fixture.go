package testutil

import "github.com/golanglink/liblink/unit"

// CoreLibrary returns a minimal core library unit with the foundational
// declarations the linker bootstraps from, plus a generic List class.
func CoreLibrary() *unit.Library {
	lib := unit.NewLibrary("std:core")
	for _, name := range []string{"Object", "int", "double", "String", "bool", "Null", "Enum"} {
		lib.AddDeclaration(unit.NewClass(name, unit.Synthetic))
	}
	list := unit.NewClass("List", unit.Synthetic)
	list.TypeParams = []unit.TypeParam{{Name: "E"}}
	lib.AddDeclaration(list)
	return lib
}

// Ref returns a type reference to name.
func Ref(name string, args ...unit.TypeRef) *unit.TypeRef {
	ref := unit.NewTypeRef(name, args...)
	return &ref
}
