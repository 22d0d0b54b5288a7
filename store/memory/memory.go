// Package memory contains the in-memory store.Store implementation.
//
// The entries are kept in the go-cache container without any expiration. All the notifications
// are delivered in order on a single dispatcher goroutine owned by the store.
package memory

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/exp/slices"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store"
)

var logger = log.NewModuleLogger("memory")

// Compile time check if memory implements store interface.
var _ store.Store = &Memory{}

// Memory is an in-memory store implementation.
type Memory struct {
	Options *store.Options

	cache      *cache.Cache
	mu         sync.Mutex
	lastID     uint64
	listeners  []*listener
	dispatcher *dispatcher
	closed     atomic.Bool
}

// New creates new in-memory store.
func New(options ...store.Option) *Memory {
	m := &Memory{
		Options: store.DefaultOptions(),
	}
	for _, option := range options {
		option(m.Options)
	}
	if m.Options.TimeFunc == nil {
		m.Options.TimeFunc = time.Now
	}
	m.cache = cache.New(cache.NoExpiration, 0)
	m.dispatcher = newDispatcher(m.Options.QueueSize)
	go m.dispatcher.run()
	return m
}

// GetOrCreateEntry implements store.Store interface.
func (m *Memory) GetOrCreateEntry(ctx context.Context, key string, def store.Value, writeDefault bool) (store.Entry, error) {
	if writeDefault && !def.IsValid() {
		return nil, errors.WrapDetf(store.ErrInvalidValue, "unassigned default value for the entry: '%s'", key)
	}
	e, err := m.getOrCreate(ctx, key, def, writeDefault)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntry implements store.Store interface.
func (m *Memory) GetEntry(ctx context.Context, key string) (store.Entry, error) {
	e, err := m.getOrCreate(ctx, key, store.Value{}, false)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Len gets the number of stored entries.
func (m *Memory) Len() int {
	return m.cache.ItemCount()
}

// Lookup gets the entry stored under 'key' only if it already exists.
func (m *Memory) Lookup(key string) (*Entry, bool) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Entry), true
}

// SetRemote sets the 'value' of the entry 'key' as if it was written by a remote peer.
// The entry is created if it doesn't exist. The notifications don't contain the store.NotifyLocal flag
// and the OnSet hook is not called.
func (m *Memory) SetRemote(key string, value store.Value) error {
	return m.ApplyRemote(key, value, true, nil)
}

// Sync sets the 'value' of the entry 'key' without notifying any listener.
// Used by the transports to apply the echoes of their own writes.
func (m *Memory) Sync(key string, value store.Value) error {
	return m.ApplyRemote(key, value, false, nil)
}

// ApplyGuard is called by the remote writes while the entry is locked, with its 'current' value.
// Returning false discards the write.
type ApplyGuard func(current store.Value) bool

// ApplyRemote sets the remote 'value' of the entry 'key', creating the entry if it doesn't exist.
// The listeners are notified only if 'notify' is true. An optional 'guard' is called before the value is applied,
// with the local writes and the OnSet hooks of the entry waiting for its result. It is called also when
// the value is equal to the current one.
func (m *Memory) ApplyRemote(key string, value store.Value, notify bool, guard ApplyGuard) error {
	if m.closed.Load() {
		return store.ErrClosed
	}
	if !value.IsValid() {
		return errors.WrapDetf(store.ErrInvalidValue, "unassigned value for the entry: '%s'", key)
	}
	if !store.ValidKey(key) {
		return errors.WrapDetf(store.ErrInvalidKey, "invalid entry key: '%s'", key)
	}

	m.mu.Lock()
	e, ok := m.Lookup(key)
	if !ok {
		e = m.newEntry(key)
		e.mu.Lock()
		m.cache.Set(key, e, cache.NoExpiration)
		m.mu.Unlock()
		if guard != nil && !guard(store.Value{}) {
			e.mu.Unlock()
			return nil
		}
		e.value = value
		e.mu.Unlock()
		if notify {
			m.notify(e, value, store.NotifyNew)
		}
		return nil
	}
	m.mu.Unlock()

	e.mu.Lock()
	if guard != nil && !guard(e.value) {
		e.mu.Unlock()
		return nil
	}
	if e.value.Equal(value) {
		e.mu.Unlock()
		return nil
	}
	if e.value.IsValid() && e.value.Type() != value.Type() {
		logger.Warningf("entry: '%s' type changed remotely from: %s to: %s", key, e.value.Type(), value.Type())
	}
	e.value = value
	e.lastChange = m.Options.TimeFunc()
	e.mu.Unlock()

	if notify {
		m.notify(e, value, store.NotifyUpdate)
	}
	return nil
}

// Delete deletes the entry stored under 'key'. The entry listeners are notified with the
// store.NotifyDelete flag.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if m.closed.Load() {
		return store.ErrClosed
	}
	m.mu.Lock()
	e, ok := m.Lookup(key)
	if !ok {
		m.mu.Unlock()
		return errors.WrapDetf(store.ErrEntryNotFound, "entry: '%s' not found", key)
	}
	m.cache.Delete(key)
	m.mu.Unlock()

	e.mu.Lock()
	last := e.value
	e.value = store.Value{}
	e.lastChange = m.Options.TimeFunc()
	e.mu.Unlock()

	m.notify(e, last, store.NotifyDelete|store.NotifyLocal)
	return nil
}

// Find finds the entries matching provided options. The results are sorted by the entry key.
func (m *Memory) Find(ctx context.Context, options ...store.FindOption) ([]*Entry, error) {
	if m.closed.Load() {
		return nil, store.ErrClosed
	}
	pattern := &store.FindPattern{}
	for _, option := range options {
		option(pattern)
	}

	items := m.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		if pattern.Matches(k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var entries []*Entry
	for _, k := range keys {
		if pattern.Offset > 0 {
			pattern.Offset--
			continue
		}
		e, ok := items[k].Object.(*Entry)
		if !ok {
			return nil, errors.WrapDetf(store.ErrInternal, "stored item: '%s' is not an entry", k)
		}
		entries = append(entries, e)
		if pattern.Limit > 0 && len(entries) == pattern.Limit {
			break
		}
	}
	return entries, nil
}

// Listen subscribes the 'fn' listener for the notifications of all the entries with keys starting with 'prefix'.
func (m *Memory) Listen(prefix string, flags store.NotifyFlags, fn store.Listener) (store.Subscription, error) {
	if m.closed.Load() {
		return nil, store.ErrClosed
	}
	if fn == nil {
		return nil, errors.WrapDet(store.ErrInvalidValue, "nil listener")
	}
	l := &listener{id: atomic.AddUint64(&m.lastID, 1), flags: flags, fn: fn, prefix: prefix}
	l.cancel = func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners = removeListener(m.listeners, l)
	}

	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()

	if flags.Has(store.NotifyImmediate) {
		entries, err := m.Find(context.Background(), store.WithFindPrefix(prefix))
		if err != nil {
			return nil, err
		}
		var deliveries []delivery
		for _, e := range entries {
			if v, ok := e.Get(); ok {
				deliveries = append(deliveries, delivery{l: l, n: store.Notification{
					EntryID: e.id, Key: e.key, Value: v, Flags: store.NotifyImmediate | store.NotifyNew,
				}})
			}
		}
		m.dispatcher.push(deliveries...)
	}
	return l, nil
}

// WaitForListenerQueue blocks until all the notifications queued before the call are delivered.
func (m *Memory) WaitForListenerQueue(ctx context.Context) error {
	if m.closed.Load() {
		return store.ErrClosed
	}
	done := make(chan struct{})
	m.dispatcher.push(delivery{barrier: done})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements io.Closer interface. The pending notifications are dropped.
func (m *Memory) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.dispatcher.close()
	m.cache.Flush()
	return nil
}

func (m *Memory) getOrCreate(ctx context.Context, key string, def store.Value, writeDefault bool) (*Entry, error) {
	if m.closed.Load() {
		return nil, store.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !store.ValidKey(key) {
		return nil, errors.WrapDetf(store.ErrInvalidKey, "invalid entry key: '%s'", key)
	}

	m.mu.Lock()
	if e, ok := m.Lookup(key); ok {
		m.mu.Unlock()
		return e, nil
	}
	e := m.newEntry(key)
	// The entry stays locked until the default is accepted by the hook.
	e.mu.Lock()
	if err := m.cache.Add(key, e, cache.NoExpiration); err != nil {
		e.mu.Unlock()
		m.mu.Unlock()
		return nil, errors.WrapDetf(store.ErrInternal, "adding entry: '%s' failed: %v", key, err)
	}
	m.mu.Unlock()
	logger.Debug3f("entry: '%s' created with id: %d", key, e.id)

	if !writeDefault {
		e.mu.Unlock()
		return e, nil
	}
	if m.Options.OnSet != nil {
		if err := m.Options.OnSet(key, def, true); err != nil {
			e.mu.Unlock()
			return e, err
		}
	}
	e.value = def
	e.mu.Unlock()

	m.notify(e, def, store.NotifyNew|store.NotifyLocal)
	return e, nil
}

func (m *Memory) newEntry(key string) *Entry {
	return &Entry{
		m:          m,
		id:         atomic.AddUint64(&m.lastID, 1),
		key:        key,
		lastChange: m.Options.TimeFunc(),
	}
}

// notify queues the notification for all the entry and store listeners matching 'flags'.
func (m *Memory) notify(e *Entry, value store.Value, flags store.NotifyFlags) {
	n := store.Notification{EntryID: e.id, Key: e.key, Value: value, Flags: flags}

	var deliveries []delivery
	e.mu.RLock()
	for _, l := range e.listeners {
		if l.flags.Matches(flags) {
			deliveries = append(deliveries, delivery{l: l, n: n})
		}
	}
	e.mu.RUnlock()

	m.mu.Lock()
	for _, l := range m.listeners {
		if l.flags.Matches(flags) && strings.HasPrefix(e.key, l.prefix) {
			deliveries = append(deliveries, delivery{l: l, n: n})
		}
	}
	m.mu.Unlock()

	if len(deliveries) > 0 {
		m.dispatcher.push(deliveries...)
	}
}
