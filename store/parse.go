package store

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/neuronlabs/tunables/errors"
)

// ParseValue parses the textual 'raw' value of type 't'. The array elements are separated by the comma
// and the raw bytes are base64 encoded.
func ParseValue(t ValueType, raw string) (Value, error) {
	if t.IsArray() {
		var parts []string
		if strings.TrimSpace(raw) != "" {
			parts = strings.Split(raw, ",")
		}
		return parseArray(t, parts)
	}
	switch t {
	case TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Value{}, parseError(t, raw, err)
		}
		return BooleanValue(b), nil
	case TypeInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Value{}, parseError(t, raw, err)
		}
		return IntegerValue(i), nil
	case TypeDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, parseError(t, raw, err)
		}
		return DoubleValue(f), nil
	case TypeString:
		return StringValue(raw), nil
	case TypeRaw:
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return Value{}, parseError(t, raw, err)
		}
		return RawValue(b), nil
	}
	return Value{}, errors.WrapDetf(ErrInvalidValue, "can't parse the value of type: %s", t)
}

func parseArray(t ValueType, parts []string) (Value, error) {
	switch t {
	case TypeBooleanArray:
		out := make([]bool, len(parts))
		for i, p := range parts {
			v, err := ParseValue(TypeBoolean, p)
			if err != nil {
				return Value{}, err
			}
			out[i] = v.Boolean()
		}
		return BooleanArrayValue(out), nil
	case TypeIntegerArray:
		out := make([]int64, len(parts))
		for i, p := range parts {
			v, err := ParseValue(TypeInteger, p)
			if err != nil {
				return Value{}, err
			}
			out[i] = v.Integer()
		}
		return IntegerArrayValue(out), nil
	case TypeDoubleArray:
		out := make([]float64, len(parts))
		for i, p := range parts {
			v, err := ParseValue(TypeDouble, p)
			if err != nil {
				return Value{}, err
			}
			out[i] = v.Double()
		}
		return DoubleArrayValue(out), nil
	default:
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return StringArrayValue(out), nil
	}
}

func parseError(t ValueType, raw string, err error) error {
	return errors.WrapDetf(ErrInvalidValue, "invalid %s value: '%s': %v", t, raw, err)
}
