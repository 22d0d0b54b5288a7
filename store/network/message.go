package network

import (
	"encoding/base64"
	"strconv"

	"github.com/oklog/ulid/v2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
)

// op is the message operation.
type op string

const (
	// opSet sets the entry value.
	opSet op = "set"
	// opDefault sets the entry value only if the entry is not set yet.
	opDefault op = "default"
	// opReady marks the end of the initial snapshot.
	opReady op = "ready"
)

// message is a single store message exchanged between the server and its clients.
// On the wire it is a protobuf encoded structpb.Struct.
type message struct {
	Op     op
	Key    string
	Value  store.Value
	Origin string
	ID     string
}

func newMessage(o op, key string, value store.Value, origin string) *message {
	return &message{Op: o, Key: key, Value: value, Origin: origin, ID: ulid.Make().String()}
}

func (m *message) marshal() ([]byte, error) {
	fields := map[string]*structpb.Value{
		"op":     structpb.NewStringValue(string(m.Op)),
		"origin": structpb.NewStringValue(m.Origin),
		"id":     structpb.NewStringValue(m.ID),
	}
	if m.Key != "" {
		fields["key"] = structpb.NewStringValue(m.Key)
	}
	if m.Value.IsValid() {
		v, err := encodeValue(m.Value)
		if err != nil {
			return nil, err
		}
		fields["type"] = structpb.NewStringValue(m.Value.Type().String())
		fields["value"] = v
	}
	return proto.Marshal(&structpb.Struct{Fields: fields})
}

func unmarshalMessage(data []byte) (*message, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, errors.WrapDetf(ErrMessage, "unmarshal: %v", err)
	}
	fields := s.GetFields()
	m := &message{
		Op:     op(fields["op"].GetStringValue()),
		Key:    fields["key"].GetStringValue(),
		Origin: fields["origin"].GetStringValue(),
		ID:     fields["id"].GetStringValue(),
	}
	switch m.Op {
	case opReady:
		return m, nil
	case opSet, opDefault:
	default:
		return nil, errors.WrapDetf(ErrMessage, "unknown operation: '%s'", m.Op)
	}
	if !store.ValidKey(m.Key) {
		return nil, errors.WrapDetf(ErrMessage, "invalid key: '%s'", m.Key)
	}
	t, ok := store.ParseValueType(fields["type"].GetStringValue())
	if !ok || t == store.TypeUnassigned {
		return nil, errors.WrapDetf(ErrMessage, "invalid value type: '%s'", fields["type"].GetStringValue())
	}
	v, err := decodeValue(t, fields["value"])
	if err != nil {
		return nil, err
	}
	m.Value = v
	return m, nil
}

// encodeValue encodes the store value as the structpb value. The integers are encoded as decimal strings
// and the raw bytes as base64 strings.
func encodeValue(v store.Value) (*structpb.Value, error) {
	switch v.Type() {
	case store.TypeBoolean:
		return structpb.NewBoolValue(v.Boolean()), nil
	case store.TypeInteger:
		return structpb.NewStringValue(strconv.FormatInt(v.Integer(), 10)), nil
	case store.TypeDouble:
		return structpb.NewNumberValue(v.Double()), nil
	case store.TypeString:
		return structpb.NewStringValue(v.String()), nil
	case store.TypeRaw:
		return structpb.NewStringValue(base64.StdEncoding.EncodeToString(v.Raw())), nil
	case store.TypeBooleanArray:
		arr := v.BooleanArray()
		values := make([]*structpb.Value, len(arr))
		for i, b := range arr {
			values[i] = structpb.NewBoolValue(b)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case store.TypeIntegerArray:
		arr := v.IntegerArray()
		values := make([]*structpb.Value, len(arr))
		for i, n := range arr {
			values[i] = structpb.NewStringValue(strconv.FormatInt(n, 10))
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case store.TypeDoubleArray:
		arr := v.DoubleArray()
		values := make([]*structpb.Value, len(arr))
		for i, f := range arr {
			values[i] = structpb.NewNumberValue(f)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case store.TypeStringArray:
		arr := v.StringArray()
		values := make([]*structpb.Value, len(arr))
		for i, s := range arr {
			values[i] = structpb.NewStringValue(s)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	}
	return nil, errors.WrapDetf(ErrMessage, "unsupported value type: %s", v.Type())
}

func decodeValue(t store.ValueType, v *structpb.Value) (store.Value, error) {
	if v == nil {
		return store.Value{}, errors.WrapDet(ErrMessage, "no value")
	}
	switch t {
	case store.TypeBoolean:
		b, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return store.Value{}, kindError(t, v)
		}
		return store.BooleanValue(b.BoolValue), nil
	case store.TypeInteger:
		i, err := decodeInteger(v)
		if err != nil {
			return store.Value{}, err
		}
		return store.IntegerValue(i), nil
	case store.TypeDouble:
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return store.Value{}, kindError(t, v)
		}
		return store.DoubleValue(n.NumberValue), nil
	case store.TypeString:
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return store.Value{}, kindError(t, v)
		}
		return store.StringValue(s.StringValue), nil
	case store.TypeRaw:
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return store.Value{}, kindError(t, v)
		}
		raw, err := base64.StdEncoding.DecodeString(s.StringValue)
		if err != nil {
			return store.Value{}, errors.WrapDetf(ErrMessage, "raw value: %v", err)
		}
		return store.RawValue(raw), nil
	}

	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return store.Value{}, kindError(t, v)
	}
	values := list.ListValue.GetValues()
	switch t {
	case store.TypeBooleanArray:
		out := make([]bool, len(values))
		for i, ev := range values {
			b, ok := ev.GetKind().(*structpb.Value_BoolValue)
			if !ok {
				return store.Value{}, kindError(t, ev)
			}
			out[i] = b.BoolValue
		}
		return store.BooleanArrayValue(out), nil
	case store.TypeIntegerArray:
		out := make([]int64, len(values))
		for i, ev := range values {
			n, err := decodeInteger(ev)
			if err != nil {
				return store.Value{}, err
			}
			out[i] = n
		}
		return store.IntegerArrayValue(out), nil
	case store.TypeDoubleArray:
		out := make([]float64, len(values))
		for i, ev := range values {
			n, ok := ev.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return store.Value{}, kindError(t, ev)
			}
			out[i] = n.NumberValue
		}
		return store.DoubleArrayValue(out), nil
	case store.TypeStringArray:
		out := make([]string, len(values))
		for i, ev := range values {
			s, ok := ev.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return store.Value{}, kindError(t, ev)
			}
			out[i] = s.StringValue
		}
		return store.StringArrayValue(out), nil
	}
	return store.Value{}, errors.WrapDetf(ErrMessage, "unsupported value type: %s", t)
}

func decodeInteger(v *structpb.Value) (int64, error) {
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return 0, kindError(store.TypeInteger, v)
	}
	i, err := strconv.ParseInt(s.StringValue, 10, 64)
	if err != nil {
		return 0, errors.WrapDetf(ErrMessage, "integer value: %v", err)
	}
	return i, nil
}

func kindError(t store.ValueType, v *structpb.Value) error {
	return errors.WrapDetf(ErrMessage, "value: '%v' doesn't match the type: %s", v.AsInterface(), t)
}
