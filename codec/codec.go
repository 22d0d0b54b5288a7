// Package codec maps the native Go values into the store tagged values and back.
//
// A codec is selected once per Go type. Built-in codecs support the boolean, integer,
// floating point and string kinds, byte slices and the slices of the supported scalar kinds.
// Named types of these kinds (i.e. time.Duration) are supported as well.
// Custom codecs might be registered for any type with RegisterCodec.
package codec

import (
	"reflect"
	"sync"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
)

var (
	// ErrCodec is the root error classification for the codec package.
	ErrCodec = errors.New("codec")
	// ErrUnsupportedType is the error returned when there is no codec for given type.
	ErrUnsupportedType = errors.Wrap(ErrCodec, "unsupported type")
	// ErrValueType is the error returned when the decoded value type doesn't match the codec.
	ErrValueType = errors.Wrap(ErrCodec, "value type")
	// ErrOverflow is the error returned when the decoded value overflows the native type.
	ErrOverflow = errors.Wrap(ErrCodec, "overflow")
)

// Codec converts the native values of a single Go type into the store values.
type Codec interface {
	// Type gets the store value type produced by the codec.
	Type() store.ValueType
	// Encode encodes the native value into the store value.
	Encode(v reflect.Value) (store.Value, error)
	// Decode decodes the store value into the native value of the codec's Go type.
	Decode(v store.Value) (reflect.Value, error)
}

var (
	codecsMu sync.RWMutex
	codecs   = map[reflect.Type]Codec{}
)

// RegisterCodec registers the codec for given type 't'. Registered codecs
// take precedence over the built-in ones.
func RegisterCodec(t reflect.Type, c Codec) error {
	codecsMu.Lock()
	defer codecsMu.Unlock()
	if _, ok := codecs[t]; ok {
		return errors.WrapDetf(ErrCodec, "codec for the type: '%s' is already registered", t)
	}
	codecs[t] = c
	return nil
}

// For gets the codec for provided type.
func For(t reflect.Type) (Codec, error) {
	if t == nil {
		return nil, errors.WrapDet(ErrUnsupportedType, "nil type")
	}
	codecsMu.RLock()
	c, ok := codecs[t]
	codecsMu.RUnlock()
	if ok {
		return c, nil
	}

	if t.Kind() == reflect.Slice {
		elem := t.Elem()
		if elem.Kind() == reflect.Uint8 {
			return rawCodec{t: t}, nil
		}
		vt, ok := scalarType(elem.Kind())
		if !ok {
			return nil, errors.WrapDetf(ErrUnsupportedType, "no codec for the slice type: '%s'", t)
		}
		return arrayCodec{t: t, elem: scalarCodec{t: elem, vt: vt}, vt: arrayType(vt)}, nil
	}
	vt, ok := scalarType(t.Kind())
	if !ok {
		return nil, errors.WrapDetf(ErrUnsupportedType, "no codec for the type: '%s'", t)
	}
	return scalarCodec{t: t, vt: vt}, nil
}

// ForValue gets the codec for the type of provided value.
func ForValue(v interface{}) (Codec, error) {
	if v == nil {
		return nil, errors.WrapDet(ErrUnsupportedType, "nil value")
	}
	return For(reflect.TypeOf(v))
}

// Encode encodes the native value 'v' using the codec of its type.
func Encode(v interface{}) (store.Value, error) {
	c, err := ForValue(v)
	if err != nil {
		return store.Value{}, err
	}
	return c.Encode(reflect.ValueOf(v))
}

func scalarType(k reflect.Kind) (store.ValueType, bool) {
	switch k {
	case reflect.Bool:
		return store.TypeBoolean, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return store.TypeInteger, true
	case reflect.Float32, reflect.Float64:
		return store.TypeDouble, true
	case reflect.String:
		return store.TypeString, true
	}
	return store.TypeUnassigned, false
}

func arrayType(vt store.ValueType) store.ValueType {
	switch vt {
	case store.TypeBoolean:
		return store.TypeBooleanArray
	case store.TypeInteger:
		return store.TypeIntegerArray
	case store.TypeDouble:
		return store.TypeDoubleArray
	default:
		return store.TypeStringArray
	}
}
