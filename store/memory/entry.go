package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
)

// Compile time check if the Entry implements store.Entry.
var _ store.Entry = &Entry{}

// Entry is the in-memory store entry.
type Entry struct {
	m   *Memory
	id  uint64
	key string

	mu         sync.RWMutex
	value      store.Value
	lastChange time.Time
	listeners  []*listener
}

// ID implements store.Entry interface.
func (e *Entry) ID() uint64 {
	return e.id
}

// Key implements store.Entry interface.
func (e *Entry) Key() string {
	return e.key
}

// Get implements store.Entry interface.
func (e *Entry) Get() (store.Value, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value, e.value.IsValid()
}

// View calls 'fn' with the current entry value while the entry is read locked.
// The writes of the entry wait until 'fn' is done.
func (e *Entry) View(fn func(value store.Value, ok bool)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.value, e.value.IsValid())
}

// LastChange gets the time of the last entry value change.
func (e *Entry) LastChange() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastChange
}

// Set implements store.Entry interface. Setting a value equal to the current one doesn't notify the listeners.
func (e *Entry) Set(value store.Value) error {
	if e.m.closed.Load() {
		return store.ErrClosed
	}
	if !value.IsValid() {
		return errors.WrapDetf(store.ErrInvalidValue, "unassigned value for the entry: '%s'", e.key)
	}

	// Deleted entries are stored again on write, unless the key was already created again.
	e.m.mu.Lock()
	current, ok := e.m.Lookup(e.key)
	if !ok {
		e.m.cache.Set(e.key, e, cache.NoExpiration)
		current = e
	}
	e.m.mu.Unlock()
	if current != e {
		return current.Set(value)
	}

	e.mu.Lock()
	if e.value.IsValid() && e.value.Type() != value.Type() {
		current := e.value.Type()
		e.mu.Unlock()
		return errors.WrapDetf(store.ErrTypeMismatch, "entry: '%s' is of type: %s, provided: %s", e.key, current, value.Type())
	}
	if e.value.Equal(value) {
		e.mu.Unlock()
		return nil
	}
	if e.m.Options.OnSet != nil {
		if err := e.m.Options.OnSet(e.key, value, false); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	e.value = value
	e.lastChange = e.m.Options.TimeFunc()
	e.mu.Unlock()

	e.m.notify(e, value, store.NotifyUpdate|store.NotifyLocal)
	return nil
}

// Subscribe implements store.Entry interface.
func (e *Entry) Subscribe(flags store.NotifyFlags, fn store.Listener) (store.Subscription, error) {
	if e.m.closed.Load() {
		return nil, store.ErrClosed
	}
	if fn == nil {
		return nil, errors.WrapDet(store.ErrInvalidValue, "nil listener")
	}
	l := &listener{flags: flags, fn: fn}
	l.cancel = func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.listeners = removeListener(e.listeners, l)
	}

	e.mu.Lock()
	e.listeners = append(e.listeners, l)
	value := e.value
	e.mu.Unlock()

	if flags.Has(store.NotifyImmediate) && value.IsValid() {
		e.m.dispatcher.push(delivery{l: l, n: store.Notification{
			EntryID: e.id, Key: e.key, Value: value, Flags: store.NotifyImmediate | store.NotifyNew,
		}})
	}
	return l, nil
}
