package element

import (
	"fmt"
	"strconv"
	"strings"
)

// ConstKind identifies the shape of a constant value.
type ConstKind int

const (
	ConstNull ConstKind = iota
	ConstBool
	ConstInt
	ConstDouble
	ConstString
	ConstEnum
	ConstList
	// ConstInvalid is the sentinel for constants that could not be
	// evaluated (cycles, non-constant initializers). Evaluation never
	// fails; it degrades to ConstInvalid.
	ConstInvalid
)

// ConstValue is a resolved constant value.
type ConstValue struct {
	kind      ConstKind
	boolVal   bool
	intVal    int64
	doubleVal float64
	strVal    string
	enumField *Field
	enumIndex int
	list      []*ConstValue
}

// NullValue returns the null constant.
func NullValue() *ConstValue { return &ConstValue{kind: ConstNull} }

// BoolValue returns a boolean constant.
func BoolValue(v bool) *ConstValue { return &ConstValue{kind: ConstBool, boolVal: v} }

// IntValue returns an integer constant.
func IntValue(v int64) *ConstValue { return &ConstValue{kind: ConstInt, intVal: v} }

// DoubleValue returns a floating point constant.
func DoubleValue(v float64) *ConstValue { return &ConstValue{kind: ConstDouble, doubleVal: v} }

// StringValue returns a string constant.
func StringValue(v string) *ConstValue { return &ConstValue{kind: ConstString, strVal: v} }

// EnumValue returns an enum constant for the given synthetic field.
func EnumValue(f *Field, index int) *ConstValue {
	return &ConstValue{kind: ConstEnum, enumField: f, enumIndex: index}
}

// ListValue returns a list constant over the given elements.
func ListValue(elems []*ConstValue) *ConstValue {
	return &ConstValue{kind: ConstList, list: elems}
}

// InvalidValue returns the invalid constant sentinel.
func InvalidValue() *ConstValue { return &ConstValue{kind: ConstInvalid} }

// Kind returns the constant's shape.
func (v *ConstValue) Kind() ConstKind { return v.kind }

// IsInvalid reports whether the constant is the invalid sentinel.
func (v *ConstValue) IsInvalid() bool { return v.kind == ConstInvalid }

// Bool returns the boolean payload.
func (v *ConstValue) Bool() bool { return v.boolVal }

// Int returns the integer payload.
func (v *ConstValue) Int() int64 { return v.intVal }

// Double returns the floating point payload.
func (v *ConstValue) Double() float64 { return v.doubleVal }

// Str returns the string payload.
func (v *ConstValue) Str() string { return v.strVal }

// EnumField returns the enum constant's synthetic field.
func (v *ConstValue) EnumField() *Field { return v.enumField }

// EnumIndex returns the enum constant's position.
func (v *ConstValue) EnumIndex() int { return v.enumIndex }

// List returns the list payload.
func (v *ConstValue) List() []*ConstValue { return v.list }

// String returns a source-ish rendering of the constant.
func (v *ConstValue) String() string {
	switch v.kind {
	case ConstNull:
		return "null"
	case ConstBool:
		return strconv.FormatBool(v.boolVal)
	case ConstInt:
		return strconv.FormatInt(v.intVal, 10)
	case ConstDouble:
		return strconv.FormatFloat(v.doubleVal, 'g', -1, 64)
	case ConstString:
		return strconv.Quote(v.strVal)
	case ConstEnum:
		enc := v.enumField.Enclosing()
		if enc != nil {
			return enc.Name() + "." + v.enumField.Name()
		}
		return v.enumField.Name()
	case ConstList:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.String())
		}
		b.WriteByte(']')
		return b.String()
	case ConstInvalid:
		return "<invalid>"
	default:
		return fmt.Sprintf("<const %d>", int(v.kind))
	}
}
