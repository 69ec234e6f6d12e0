package element

import (
	"encoding/json"
	"strings"
	"testing"
)

func buildSampleLibrary(b *Builder) *Library {
	lib := b.AddLibrary("pkg:sample")

	cls := b.AddClass(lib, "Point", nil)
	x := b.AddField(cls, "x", false, true, false, false, nil)
	b.SetFieldType(x, Dynamic)
	b.AddConstructor(cls, "", false, false, true, nil)

	v := b.AddVariable(lib, "origin", true, false, nil)
	b.SetVariableType(v, NewNamedType(cls), false)
	b.SetVariableValue(v, IntValue(0))

	b.SetExportScope(lib, []string{"Point", "origin"}, map[string]Element{
		"Point": cls, "origin": v,
	})
	b.AddAugmentation(lib, Augmentation{Declaration: "Point", Source: "augment class Point {}"})
	return lib
}

func TestJSONSerializerRoundTrip(t *testing.T) {
	b := NewBuilder()
	lib := buildSampleLibrary(b)

	ser := NewJSONSerializer()
	if err := ser.WriteLibrary(lib); err != nil {
		t.Fatalf("WriteLibrary: %v", err)
	}
	data, err := ser.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	var decoded struct {
		Libraries []struct {
			URI          string   `json:"uri"`
			ExportNames  []string `json:"exportNames"`
			Declarations []struct {
				Kind string `json:"kind"`
				Name string `json:"name"`
			} `json:"declarations"`
		} `json:"libraries"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if len(decoded.Libraries) != 1 || decoded.Libraries[0].URI != "pkg:sample" {
		t.Fatalf("unexpected libraries: %+v", decoded.Libraries)
	}
	if len(decoded.Libraries[0].Declarations) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decoded.Libraries[0].Declarations))
	}
	if !strings.Contains(string(data), "augment class Point") {
		t.Fatal("augmentation source missing from artifact")
	}
}

func TestJSONSerializerFinishedIsSticky(t *testing.T) {
	ser := NewJSONSerializer()
	if _, err := ser.Finish(); err != nil {
		t.Fatalf("first Finish: %v", err)
	}
	if _, err := ser.Finish(); err != ErrSerializerFinished {
		t.Fatalf("second Finish: expected ErrSerializerFinished, got %v", err)
	}
	b := NewBuilder()
	if err := ser.WriteLibrary(b.AddLibrary("pkg:late")); err != ErrSerializerFinished {
		t.Fatalf("WriteLibrary after Finish: expected ErrSerializerFinished, got %v", err)
	}
}

func TestSerializerDeterministic(t *testing.T) {
	encode := func() []byte {
		b := NewBuilder()
		lib := buildSampleLibrary(b)
		ser := NewJSONSerializer()
		if err := ser.WriteLibrary(lib); err != nil {
			t.Fatal(err)
		}
		data, err := ser.Finish()
		if err != nil {
			t.Fatal(err)
		}
		return data
	}
	first := encode()
	for i := 0; i < 5; i++ {
		if string(encode()) != string(first) {
			t.Fatal("serializer output must be deterministic")
		}
	}
}
