package element

import "testing"

func TestConstValueStrings(t *testing.T) {
	cases := []struct {
		v    *ConstValue
		want string
	}{
		{NullValue(), "null"},
		{BoolValue(true), "true"},
		{IntValue(-7), "-7"},
		{DoubleValue(2.5), "2.5"},
		{StringValue("hi"), `"hi"`},
		{ListValue([]*ConstValue{IntValue(1), IntValue(2)}), "[1, 2]"},
		{InvalidValue(), "<invalid>"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %s, want %s", got, c.want)
		}
	}
}

func TestEnumValue(t *testing.T) {
	b := NewBuilder()
	lib := b.AddLibrary("pkg:t")
	enum := b.AddEnum(lib, "Color", nil)
	red := b.AddField(enum, "red", true, false, true, true, nil)

	v := EnumValue(red, 0)
	if v.Kind() != ConstEnum {
		t.Fatal("kind")
	}
	if v.EnumField() != red || v.EnumIndex() != 0 {
		t.Fatal("payload")
	}
	if v.String() != "Color.red" {
		t.Fatalf("String() = %s", v.String())
	}
}

func TestInvalidValueSentinel(t *testing.T) {
	if !InvalidValue().IsInvalid() {
		t.Fatal("invalid sentinel")
	}
	if IntValue(0).IsInvalid() {
		t.Fatal("zero is not invalid")
	}
}
