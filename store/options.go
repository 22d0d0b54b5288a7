package store

import (
	"time"
)

// Options are the initialization options for the store implementations.
type Options struct {
	// QueueSize is the initial capacity of the notification queue.
	QueueSize int
	// TimeFunc sets the time function used for the entry change timestamps.
	TimeFunc func() time.Time
	// OnSet is called on each local write of an entry value.
	OnSet SetHook
}

// SetHook is the function called on each local entry write, while the entry is locked and before the value
// is applied. The 'isDefault' is true when the value is the default written while creating the entry.
// An error discards the write. The hook must not access the entry.
// Transports use it to propagate the local changes to their peers.
type SetHook func(key string, value Value, isDefault bool) error

// DefaultOptions creates the default store options.
func DefaultOptions() *Options {
	return &Options{
		QueueSize: 64,
		TimeFunc:  time.Now,
	}
}

// Option is an option function that changes Options.
type Option func(o *Options)

// WithQueueSize sets the initial notification queue capacity.
func WithQueueSize(size int) Option {
	return func(o *Options) {
		o.QueueSize = size
	}
}

// WithTimeFunc sets the time function used by the store.
func WithTimeFunc(tf func() time.Time) Option {
	return func(o *Options) {
		o.TimeFunc = tf
	}
}

// WithOnSet sets the local write hook for the store.
func WithOnSet(hook SetHook) Option {
	return func(o *Options) {
		o.OnSet = hook
	}
}
