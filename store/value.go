package store

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ValueType is the type tag of the store Value.
type ValueType int

// Supported value types.
const (
	TypeUnassigned ValueType = iota
	TypeBoolean
	TypeInteger
	TypeDouble
	TypeString
	TypeRaw
	TypeBooleanArray
	TypeIntegerArray
	TypeDoubleArray
	TypeStringArray
)

var valueTypeNames = map[ValueType]string{
	TypeUnassigned:   "unassigned",
	TypeBoolean:      "boolean",
	TypeInteger:      "integer",
	TypeDouble:       "double",
	TypeString:       "string",
	TypeRaw:          "raw",
	TypeBooleanArray: "boolean[]",
	TypeIntegerArray: "integer[]",
	TypeDoubleArray:  "double[]",
	TypeStringArray:  "string[]",
}

func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseValueType parses the value type by its name.
func ParseValueType(name string) (ValueType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range valueTypeNames {
		if n == name {
			return t, true
		}
	}
	return TypeUnassigned, false
}

// IsArray checks if the value type is one of the array types.
func (t ValueType) IsArray() bool {
	return t >= TypeBooleanArray && t <= TypeStringArray
}

// Value is the tagged value stored in the entries. The zero Value is unassigned.
// Values are immutable - the array and raw contents are copied on creation and read.
type Value struct {
	typ ValueType
	v   interface{}
}

// BooleanValue creates new boolean value.
func BooleanValue(b bool) Value {
	return Value{typ: TypeBoolean, v: b}
}

// IntegerValue creates new integer value.
func IntegerValue(i int64) Value {
	return Value{typ: TypeInteger, v: i}
}

// DoubleValue creates new double value.
func DoubleValue(f float64) Value {
	return Value{typ: TypeDouble, v: f}
}

// StringValue creates new string value.
func StringValue(s string) Value {
	return Value{typ: TypeString, v: s}
}

// RawValue creates new raw bytes value.
func RawValue(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{typ: TypeRaw, v: cp}
}

// BooleanArrayValue creates new boolean array value.
func BooleanArrayValue(b []bool) Value {
	cp := make([]bool, len(b))
	copy(cp, b)
	return Value{typ: TypeBooleanArray, v: cp}
}

// IntegerArrayValue creates new integer array value.
func IntegerArrayValue(i []int64) Value {
	cp := make([]int64, len(i))
	copy(cp, i)
	return Value{typ: TypeIntegerArray, v: cp}
}

// DoubleArrayValue creates new double array value.
func DoubleArrayValue(f []float64) Value {
	cp := make([]float64, len(f))
	copy(cp, f)
	return Value{typ: TypeDoubleArray, v: cp}
}

// StringArrayValue creates new string array value.
func StringArrayValue(s []string) Value {
	cp := make([]string, len(s))
	copy(cp, s)
	return Value{typ: TypeStringArray, v: cp}
}

// Type gets the value type tag.
func (v Value) Type() ValueType {
	return v.typ
}

// IsValid checks if the value is assigned.
func (v Value) IsValid() bool {
	return v.typ != TypeUnassigned
}

// Boolean gets the boolean value. Returns false for non boolean values.
func (v Value) Boolean() bool {
	b, _ := v.v.(bool)
	return b
}

// Integer gets the integer value. Returns 0 for non integer values.
func (v Value) Integer() int64 {
	i, _ := v.v.(int64)
	return i
}

// Double gets the double value. Returns 0 for non double values.
func (v Value) Double() float64 {
	f, _ := v.v.(float64)
	return f
}

// String gets the string value. For other types it returns their printable form.
func (v Value) String() string {
	if s, ok := v.v.(string); ok {
		return s
	}
	if !v.IsValid() {
		return "<unassigned>"
	}
	return fmt.Sprint(v.v)
}

// Raw gets the copy of raw bytes value.
func (v Value) Raw() []byte {
	b, _ := v.v.([]byte)
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}

// BooleanArray gets the copy of boolean array value.
func (v Value) BooleanArray() []bool {
	b, _ := v.v.([]bool)
	if b == nil {
		return nil
	}
	cp := make([]bool, len(b))
	copy(cp, b)
	return cp
}

// IntegerArray gets the copy of integer array value.
func (v Value) IntegerArray() []int64 {
	i, _ := v.v.([]int64)
	if i == nil {
		return nil
	}
	cp := make([]int64, len(i))
	copy(cp, i)
	return cp
}

// DoubleArray gets the copy of double array value.
func (v Value) DoubleArray() []float64 {
	f, _ := v.v.([]float64)
	if f == nil {
		return nil
	}
	cp := make([]float64, len(f))
	copy(cp, f)
	return cp
}

// StringArray gets the copy of string array value.
func (v Value) StringArray() []string {
	s, _ := v.v.([]string)
	if s == nil {
		return nil
	}
	cp := make([]string, len(s))
	copy(cp, s)
	return cp
}

// Interface gets the copy of the value content as an interface.
func (v Value) Interface() interface{} {
	switch v.typ {
	case TypeRaw:
		return v.Raw()
	case TypeBooleanArray:
		return v.BooleanArray()
	case TypeIntegerArray:
		return v.IntegerArray()
	case TypeDoubleArray:
		return v.DoubleArray()
	case TypeStringArray:
		return v.StringArray()
	}
	return v.v
}

// Equal checks if the values are of the same type and content.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUnassigned:
		return true
	case TypeRaw:
		return bytes.Equal(v.v.([]byte), other.v.([]byte))
	case TypeBooleanArray:
		return slices.Equal(v.v.([]bool), other.v.([]bool))
	case TypeIntegerArray:
		return slices.Equal(v.v.([]int64), other.v.([]int64))
	case TypeDoubleArray:
		return slices.Equal(v.v.([]float64), other.v.([]float64))
	case TypeStringArray:
		return slices.Equal(v.v.([]string), other.v.([]string))
	}
	return v.v == other.v
}
