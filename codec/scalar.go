package codec

import (
	"math"
	"reflect"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
)

type scalarCodec struct {
	t  reflect.Type
	vt store.ValueType
}

// Type implements Codec interface.
func (s scalarCodec) Type() store.ValueType {
	return s.vt
}

// Encode implements Codec interface.
func (s scalarCodec) Encode(v reflect.Value) (store.Value, error) {
	if !v.IsValid() || v.Type() != s.t {
		return store.Value{}, errors.WrapDetf(ErrValueType, "expected value of type: '%s'", s.t)
	}
	switch s.t.Kind() {
	case reflect.Bool:
		return store.BooleanValue(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return store.IntegerValue(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return store.Value{}, errors.WrapDetf(ErrOverflow, "value: %d overflows the integer", u)
		}
		return store.IntegerValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return store.DoubleValue(v.Float()), nil
	default:
		return store.StringValue(v.String()), nil
	}
}

// Decode implements Codec interface.
func (s scalarCodec) Decode(v store.Value) (reflect.Value, error) {
	if v.Type() != s.vt {
		return reflect.Value{}, errors.WrapDetf(ErrValueType, "can't decode: %s value into: '%s'", v.Type(), s.t)
	}
	out := reflect.New(s.t).Elem()
	switch s.t.Kind() {
	case reflect.Bool:
		out.SetBool(v.Boolean())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Integer()
		if out.OverflowInt(i) {
			return reflect.Value{}, errors.WrapDetf(ErrOverflow, "value: %d overflows: '%s'", i, s.t)
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i := v.Integer()
		if i < 0 || out.OverflowUint(uint64(i)) {
			return reflect.Value{}, errors.WrapDetf(ErrOverflow, "value: %d overflows: '%s'", i, s.t)
		}
		out.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		out.SetFloat(v.Double())
	default:
		out.SetString(v.String())
	}
	return out, nil
}

type rawCodec struct {
	t reflect.Type
}

// Type implements Codec interface.
func (r rawCodec) Type() store.ValueType {
	return store.TypeRaw
}

// Encode implements Codec interface.
func (r rawCodec) Encode(v reflect.Value) (store.Value, error) {
	if !v.IsValid() || v.Type() != r.t {
		return store.Value{}, errors.WrapDetf(ErrValueType, "expected value of type: '%s'", r.t)
	}
	return store.RawValue(v.Bytes()), nil
}

// Decode implements Codec interface.
func (r rawCodec) Decode(v store.Value) (reflect.Value, error) {
	if v.Type() != store.TypeRaw {
		return reflect.Value{}, errors.WrapDetf(ErrValueType, "can't decode: %s value into: '%s'", v.Type(), r.t)
	}
	return reflect.ValueOf(v.Raw()).Convert(r.t), nil
}
