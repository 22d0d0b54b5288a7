// Package store defines the networked key-value store abstraction used by the tunable bindings.
//
// The store is composed of the named entries. Each entry has a store assigned local identifier,
// might have a tagged Value and allows to subscribe for its change notifications.
package store

import (
	"context"
)

// Store is an interface for the key - value stores whose entries are bound by the tunables.
type Store interface {
	// GetOrCreateEntry gets the entry stored under 'key'. If the entry doesn't exist it is created.
	// A newly created entry gets the 'def' value only if 'writeDefault' is true, otherwise it stays unset.
	// The value of an existing entry is never changed. The function is idempotent by key.
	GetOrCreateEntry(ctx context.Context, key string, def Value, writeDefault bool) (Entry, error)
	// GetEntry gets the entry handle stored under 'key' without any default value semantics.
	GetEntry(ctx context.Context, key string) (Entry, error)
}

// Entry is a handle to the single named value in the store.
type Entry interface {
	// ID gets the store assigned local identifier of the entry.
	ID() uint64
	// Key gets the fully qualified entry key.
	Key() string
	// Get gets the current entry value. If the entry is unset the second result is false.
	Get() (Value, bool)
	// Set sets the entry value. The function doesn't wait for any remote acknowledgement.
	Set(value Value) error
	// Subscribe registers the 'listener' for the entry notifications matching 'flags'.
	Subscribe(flags NotifyFlags, listener Listener) (Subscription, error)
}

// Subscription is a cancellable registration of the entry listener.
type Subscription interface {
	// Cancel stops the notification delivery for given subscription.
	Cancel()
}

// Listener is the function called with the entry notifications.
type Listener func(n Notification)

// Notification is the entry change notification.
type Notification struct {
	EntryID uint64
	Key     string
	Value   Value
	Flags   NotifyFlags
}
