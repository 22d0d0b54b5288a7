package codec

import (
	"reflect"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
)

// arrayCodec encodes the homogeneous slices of the scalar kinds.
type arrayCodec struct {
	t    reflect.Type
	elem scalarCodec
	vt   store.ValueType
}

// Type implements Codec interface.
func (a arrayCodec) Type() store.ValueType {
	return a.vt
}

// Encode implements Codec interface.
func (a arrayCodec) Encode(v reflect.Value) (store.Value, error) {
	if !v.IsValid() || v.Type() != a.t {
		return store.Value{}, errors.WrapDetf(ErrValueType, "expected value of type: '%s'", a.t)
	}
	n := v.Len()
	switch a.vt {
	case store.TypeBooleanArray:
		out := make([]bool, n)
		for i := range out {
			out[i] = v.Index(i).Bool()
		}
		return store.BooleanArrayValue(out), nil
	case store.TypeIntegerArray:
		out := make([]int64, n)
		for i := range out {
			ev, err := a.elem.Encode(v.Index(i))
			if err != nil {
				return store.Value{}, err
			}
			out[i] = ev.Integer()
		}
		return store.IntegerArrayValue(out), nil
	case store.TypeDoubleArray:
		out := make([]float64, n)
		for i := range out {
			out[i] = v.Index(i).Float()
		}
		return store.DoubleArrayValue(out), nil
	default:
		out := make([]string, n)
		for i := range out {
			out[i] = v.Index(i).String()
		}
		return store.StringArrayValue(out), nil
	}
}

// Decode implements Codec interface.
func (a arrayCodec) Decode(v store.Value) (reflect.Value, error) {
	if v.Type() != a.vt {
		return reflect.Value{}, errors.WrapDetf(ErrValueType, "can't decode: %s value into: '%s'", v.Type(), a.t)
	}
	var elems []store.Value
	switch a.vt {
	case store.TypeBooleanArray:
		for _, b := range v.BooleanArray() {
			elems = append(elems, store.BooleanValue(b))
		}
	case store.TypeIntegerArray:
		for _, i := range v.IntegerArray() {
			elems = append(elems, store.IntegerValue(i))
		}
	case store.TypeDoubleArray:
		for _, f := range v.DoubleArray() {
			elems = append(elems, store.DoubleValue(f))
		}
	default:
		for _, s := range v.StringArray() {
			elems = append(elems, store.StringValue(s))
		}
	}

	out := reflect.MakeSlice(a.t, len(elems), len(elems))
	for i, ev := range elems {
		rv, err := a.elem.Decode(ev)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(rv)
	}
	return out, nil
}
