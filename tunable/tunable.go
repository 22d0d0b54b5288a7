package tunable

import (
	"reflect"
	"strings"
	"sync"

	"github.com/neuronlabs/tunables/codec"
	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store"
)

// descriptor is the type independent view of the Tunable used by the setup.
type descriptor interface {
	Name() string
	key(root string) string
	defaultValue() store.Value
	writesDefault() bool
	listener(owner Owner) store.Listener
}

// Compile time check if the Tunable implements descriptor.
var _ descriptor = &Tunable[int]{}

// Tunable is the class level declaration of the component attribute bound to the store entry.
// A single tunable is shared by all instances of its class, the values are kept by the store
// and the instance bindings by the instance Table.
type Tunable[T any] struct {
	class        *Class
	name         string
	def          T
	defValue     store.Value
	subtable     string
	writeDefault bool
	codec        codec.Codec

	mu       sync.RWMutex
	callback func(owner Owner, value T)
}

// TunableOption is the option function for the tunable declaration.
type TunableOption func(o *tunableOptions)

type tunableOptions struct {
	writeDefault bool
	subtable     string
	doc          string
}

// WriteDefault defines if the default value is written to the store when the entry doesn't exist yet.
// By default it is true. Otherwise a not existing entry stays unset until some external write.
func WriteDefault(writeDefault bool) TunableOption {
	return func(o *tunableOptions) {
		o.writeDefault = writeDefault
	}
}

// Subtable sets the subtable path segment placed between the component namespace and the tunable name.
func Subtable(subtable string) TunableOption {
	return func(o *tunableOptions) {
		o.subtable = subtable
	}
}

// Doc sets the documentation of the tunable.
//
// Deprecated: the documentation is not used anymore and the option is ignored.
func Doc(doc string) TunableOption {
	return func(o *tunableOptions) {
		o.doc = doc
	}
}

// New declares new tunable with the 'name' and default value 'def' on the class 'c'.
func New[T any](c *Class, name string, def T, options ...TunableOption) (*Tunable[T], error) {
	if c == nil {
		return nil, errors.WrapDetf(ErrInvalidClass, "nil class for the tunable: '%s'", name)
	}
	if !validName(name) {
		return nil, errors.WrapDetf(ErrInvalidName, "invalid tunable name: '%s'", name)
	}
	o := &tunableOptions{writeDefault: true}
	for _, option := range options {
		option(o)
	}
	if o.doc != "" {
		log.Warningf("Tunable: '%s.%s' Doc option is deprecated and is ignored.", c.Name(), name)
	}

	cd, err := codec.For(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, unsupportedType(err)
	}
	defValue, err := cd.Encode(reflect.ValueOf(&def).Elem())
	if err != nil {
		return nil, errors.WrapDetf(ErrUnsupportedType, "tunable: '%s' default value: %v", name, err)
	}

	t := &Tunable[T]{
		class:        c,
		name:         name,
		def:          def,
		defValue:     defValue,
		subtable:     strings.Trim(o.subtable, store.PathSeparator),
		writeDefault: o.writeDefault,
		codec:        cd,
	}
	if err = c.declare(t); err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew declares new tunable on the class 'c'. Panics on error.
func MustNew[T any](c *Class, name string, def T, options ...TunableOption) *Tunable[T] {
	t, err := New[T](c, name, def, options...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name gets the tunable name.
func (t *Tunable[T]) Name() string {
	return t.name
}

// Subtable gets the tunable subtable.
func (t *Tunable[T]) Subtable() string {
	return t.subtable
}

// Default gets the tunable default value.
func (t *Tunable[T]) Default() T {
	v, err := t.decode(t.defValue)
	if err != nil {
		return t.def
	}
	return v
}

// Class gets the class the tunable is declared on.
func (t *Tunable[T]) Class() *Class {
	return t.class
}

// Key gets the fully qualified key the tunable is bound to for the 'owner'.
func (t *Tunable[T]) Key(owner Owner) (string, error) {
	e, err := t.entry(owner)
	if err != nil {
		return "", err
	}
	return e.Key(), nil
}

// Get gets the current tunable value for the 'owner'. If the entry is not set yet the default value is returned.
func (t *Tunable[T]) Get(owner Owner) (T, error) {
	e, err := t.entry(owner)
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := e.Get()
	if !ok {
		v = t.defValue
	}
	return t.decode(v)
}

// MustGet gets the current tunable value for the 'owner'. Panics on error.
func (t *Tunable[T]) MustGet(owner Owner) T {
	v, err := t.Get(owner)
	if err != nil {
		panic(err)
	}
	return v
}

// Set sets the tunable 'value' for the 'owner'. The function doesn't wait for any remote acknowledgement.
func (t *Tunable[T]) Set(owner Owner, value T) error {
	e, err := t.entry(owner)
	if err != nil {
		return err
	}
	v, err := t.codec.Encode(reflect.ValueOf(&value).Elem())
	if err != nil {
		return err
	}
	return e.Set(v)
}

// SetCallback sets the function called on each update of the tunable entry with the owner and the new value.
// The callback is subscribed by the Setup, thus an instance set up before the callback was defined gets it
// subscribed with the next Setup call.
func (t *Tunable[T]) SetCallback(callback func(owner Owner, value T)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = callback
}

func (t *Tunable[T]) getCallback() func(owner Owner, value T) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.callback
}

func (t *Tunable[T]) entry(owner Owner) (store.Entry, error) {
	table, err := tableOf(owner)
	if err != nil {
		return nil, err
	}
	b, ok := table.binding(t)
	if !ok {
		return nil, errors.WrapDetf(ErrNotBound, "tunable: '%s' is not bound for the: '%T'", t.name, owner)
	}
	return b.entry, nil
}

func (t *Tunable[T]) decode(v store.Value) (T, error) {
	rv, err := t.codec.Decode(v)
	if err != nil {
		var zero T
		return zero, errors.WrapDetf(ErrDecode, "tunable: '%s': %v", t.name, err)
	}
	return rv.Interface().(T), nil
}

func (t *Tunable[T]) key(root string) string {
	return TunableKey(root, t.subtable, t.name)
}

func (t *Tunable[T]) defaultValue() store.Value {
	return t.defValue
}

func (t *Tunable[T]) writesDefault() bool {
	return t.writeDefault
}

func (t *Tunable[T]) listener(owner Owner) store.Listener {
	if t.getCallback() == nil {
		return nil
	}
	return func(n store.Notification) {
		callback := t.getCallback()
		if callback == nil {
			return
		}
		v, err := t.decode(n.Value)
		if err != nil {
			log.Errorf("Tunable: '%s' callback value: %v", n.Key, err)
			return
		}
		log.Debug3f("Tunable: '%s' callback with: %v [%s]", n.Key, n.Value, n.Flags)
		callback(owner, v)
	}
}
