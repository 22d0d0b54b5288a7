package tunable

import (
	"fmt"
	"reflect"

	"github.com/neuronlabs/tunables/codec"
	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/namer"
	"github.com/neuronlabs/tunables/store"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Feedback is the validated component accessor whose result is published to the store.
type Feedback struct {
	class    *Class
	fn       reflect.Value
	name     string
	key      string
	codec    codec.Codec
	hasError bool
}

// FeedbackOption is the option function for the feedback declaration.
type FeedbackOption func(f *Feedback)

// Key sets the explicit feedback key relative to the component namespace.
func Key(key string) FeedbackOption {
	return func(f *Feedback) {
		f.key = key
	}
}

// Feedback declares the accessor 'fn' as the feedback of the class component.
// The 'fn' must be a function or a method expression i.e. '(*Drive).GetAngle' whose only argument
// is the component and which returns a single value or a (value, error) pair.
// Anonymous functions require the Key option.
func (c *Class) Feedback(fn interface{}, options ...FeedbackOption) (*Feedback, error) {
	if fn == nil {
		return nil, errors.WrapDet(ErrNotCallable, "nil feedback accessor")
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.WrapDetf(ErrNotCallable, "feedback accessor of type: '%T' is not a function", fn)
	}
	ft := v.Type()
	if ft.NumIn() != 1 || ft.IsVariadic() {
		return nil, errors.WrapDetf(ErrFeedbackArity, "feedback accessor: '%s' must take only the component argument", ft)
	}
	if ft.In(0) != c.typ {
		return nil, errors.WrapDetf(ErrFeedbackReceiver, "feedback accessor argument: '%s' is not the component: '%s'", ft.In(0), c.typ)
	}

	f := &Feedback{class: c, fn: v, name: funcName(v.Pointer())}
	switch ft.NumOut() {
	case 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, errors.WrapDetf(ErrFeedbackResult, "feedback accessor: '%s' second result is not an error", ft)
		}
		f.hasError = true
	default:
		return nil, errors.WrapDetf(ErrFeedbackResult, "feedback accessor: '%s' must return (value) or (value, error)", ft)
	}
	cd, err := codec.For(ft.Out(0))
	if err != nil {
		return nil, unsupportedType(err)
	}
	f.codec = cd

	for _, option := range options {
		option(f)
	}
	if f.key == "" && f.name == "" {
		return nil, errors.WrapDetf(ErrFeedbackKey, "anonymous feedback accessor: '%s' requires an explicit key", ft)
	}
	if f.key != "" && FeedbackKey("", f.key, namer.Raw) == "" {
		return nil, errors.WrapDetf(ErrFeedbackKey, "invalid feedback key: '%s'", f.key)
	}
	if err = c.declareFeedback(f); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFeedback declares the accessor 'fn' as the feedback of the class component. Panics on error.
func (c *Class) MustFeedback(fn interface{}, options ...FeedbackOption) *Feedback {
	f, err := c.Feedback(fn, options...)
	if err != nil {
		panic(err)
	}
	return f
}

// Name gets the accessor method name. Empty for anonymous functions.
func (f *Feedback) Name() string {
	return f.name
}

// Key derives the feedback key relative to the component namespace.
func (f *Feedback) Key(convention namer.NamingConvention) string {
	return FeedbackKey(f.name, f.key, convention)
}

// Type gets the store value type of the feedback.
func (f *Feedback) Type() store.ValueType {
	return f.codec.Type()
}

// String implements fmt.Stringer interface.
func (f *Feedback) String() string {
	if f.key != "" {
		return fmt.Sprintf("%s(%s)", f.name, f.key)
	}
	return f.name
}

// value calls the accessor for the 'owner' and encodes its result.
func (f *Feedback) value(owner Owner) (v store.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.WrapDetf(ErrFeedbackCall, "feedback: '%s' panicked: %v", f, r)
		}
	}()
	out := f.fn.Call([]reflect.Value{reflect.ValueOf(owner)})
	if f.hasError && !out[1].IsNil() {
		return store.Value{}, errors.WrapDetf(ErrFeedbackCall, "feedback: '%s': %v", f, out[1].Interface())
	}
	return f.codec.Encode(out[0])
}
