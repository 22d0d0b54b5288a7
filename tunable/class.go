package tunable

import (
	"reflect"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
)

// Owner is the interface implemented by the components which could be bound.
// It is implemented by embedding the Table within the component structure.
type Owner interface {
	TunableTable() *Table
}

// Class is the declaration registry of a single component type. It keeps the tunable
// descriptors and the feedback accessors shared by all instances of the component.
type Class struct {
	typ reflect.Type

	mu          sync.RWMutex
	descriptors map[string]descriptor
	feedbacks   []*Feedback
}

var classes = struct {
	sync.RWMutex
	m map[reflect.Type]*Class
}{m: map[reflect.Type]*Class{}}

// RegisterClass gets or creates the class of the 'model' type.
func RegisterClass(model Owner) (*Class, error) {
	if model == nil {
		return nil, errors.WrapDet(ErrInvalidClass, "nil model")
	}
	t := reflect.TypeOf(model)

	classes.Lock()
	defer classes.Unlock()
	c, ok := classes.m[t]
	if !ok {
		c = &Class{typ: t, descriptors: map[string]descriptor{}}
		classes.m[t] = c
	}
	return c, nil
}

// NewClass gets or creates the class of the 'model' type. Panics on error.
func NewClass(model Owner) *Class {
	c, err := RegisterClass(model)
	if err != nil {
		panic(err)
	}
	return c
}

// ClassOf gets the class declared for the 'owner' type.
func ClassOf(owner Owner) (*Class, error) {
	if owner == nil {
		return nil, errors.WrapDet(ErrNilTable, "nil owner")
	}
	t := reflect.TypeOf(owner)
	classes.RLock()
	c, ok := classes.m[t]
	classes.RUnlock()
	if !ok {
		return nil, errors.WrapDetf(ErrClassNotFound, "no class declared for the type: '%s'", t)
	}
	return c, nil
}

// Type gets the component type of the class.
func (c *Class) Type() reflect.Type {
	return c.typ
}

// Name gets the component type name.
func (c *Class) Name() string {
	t := c.typ
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Paths gets the sorted paths of all declared tunables relative to the component namespace i.e. 'pid/speed'.
func (c *Class) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.descriptors))
	for path := range c.descriptors {
		paths = append(paths, strings.TrimPrefix(path, store.PathSeparator))
	}
	slices.Sort(paths)
	return paths
}

// Feedbacks gets the feedbacks declared on the class in the declaration order.
func (c *Class) Feedbacks() []*Feedback {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Feedback(nil), c.feedbacks...)
}

func (c *Class) declare(d descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	path := d.key("")
	if _, ok := c.descriptors[path]; ok {
		return errors.WrapDetf(ErrDuplicate, "tunable: '%s' already declared on: '%s'", path, c.typ)
	}
	c.descriptors[path] = d
	return nil
}

func (c *Class) declareFeedback(f *Feedback) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, other := range c.feedbacks {
		if other.name == f.name && other.key == f.key {
			return errors.WrapDetf(ErrDuplicate, "feedback: '%s' already declared on: '%s'", f, c.typ)
		}
	}
	c.feedbacks = append(c.feedbacks, f)
	return nil
}

// sorted gets the descriptors in the path order.
func (c *Class) sorted() []descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.descriptors))
	for path := range c.descriptors {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	descriptors := make([]descriptor, len(paths))
	for i, path := range paths {
		descriptors[i] = c.descriptors[path]
	}
	return descriptors
}

// tableOf gets the binding table of the 'owner' checking if it is an instance of the class.
func (c *Class) tableOf(owner Owner) (*Table, error) {
	table, err := tableOf(owner)
	if err != nil {
		return nil, err
	}
	if t := reflect.TypeOf(owner); t != c.typ {
		return nil, errors.WrapDetf(ErrClassMismatch, "owner of type: '%s' is not an instance of: '%s'", t, c.typ)
	}
	if table.class != nil && table.class != c {
		return nil, errors.WrapDetf(ErrClassMismatch, "table is already bound by the class: '%s'", table.class.typ)
	}
	return table, nil
}

func tableOf(owner Owner) (*Table, error) {
	if owner == nil {
		return nil, errors.WrapDet(ErrNilTable, "nil owner")
	}
	if v := reflect.ValueOf(owner); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, errors.WrapDetf(ErrNilTable, "nil owner of type: '%s'", v.Type())
	}
	table := owner.TunableTable()
	if table == nil {
		return nil, errors.WrapDetf(ErrNilTable, "owner: '%T' has no binding table", owner)
	}
	return table, nil
}
