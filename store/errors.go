package store

import (
	"github.com/neuronlabs/tunables/errors"
)

var (
	// ErrStore is the root error classification for the store.
	ErrStore = errors.New("store")
	// ErrEntryNotFound is the error when the entry doesn't exist.
	ErrEntryNotFound = errors.Wrap(ErrStore, "entry not found")
	// ErrTypeMismatch is the error when the value type doesn't match the entry type.
	ErrTypeMismatch = errors.Wrap(ErrStore, "type mismatch")
	// ErrInvalidKey is the error for malformed entry keys.
	ErrInvalidKey = errors.Wrap(ErrStore, "invalid key")
	// ErrInvalidValue is the error for unassigned or malformed values.
	ErrInvalidValue = errors.Wrap(ErrStore, "invalid value")
	// ErrClosed is the error returned by the closed stores.
	ErrClosed = errors.Wrap(ErrStore, "closed")
	// ErrInternal is the internal store error.
	ErrInternal = errors.Wrap(errors.ErrInternal, "store")
)
