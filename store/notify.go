package store

import (
	"strings"
)

// NotifyFlags are the flags of the entry notifications. Used both as the subscription filter
// and as the notification description.
type NotifyFlags uint8

const (
	// NotifyImmediate notifies the listener with the current value at subscription time.
	NotifyImmediate NotifyFlags = 1 << iota
	// NotifyLocal notifies about the changes done by the local process.
	NotifyLocal
	// NotifyNew notifies when the entry gets its first value at creation.
	NotifyNew
	// NotifyDelete notifies when the entry is deleted.
	NotifyDelete
	// NotifyUpdate notifies when the entry value is changed.
	NotifyUpdate
)

// Has checks if the flags contains all 'other' flags.
func (n NotifyFlags) Has(other NotifyFlags) bool {
	return n&other == other
}

// Matches checks if the notification with 'event' flags should be delivered
// to the listener subscribed with 'n' flags.
func (n NotifyFlags) Matches(event NotifyFlags) bool {
	if event.Has(NotifyLocal) && !n.Has(NotifyLocal) {
		return false
	}
	kind := event &^ NotifyLocal
	return n&kind != 0
}

func (n NotifyFlags) String() string {
	var parts []string
	for _, f := range []struct {
		flag NotifyFlags
		name string
	}{
		{NotifyImmediate, "immediate"},
		{NotifyLocal, "local"},
		{NotifyNew, "new"},
		{NotifyDelete, "delete"},
		{NotifyUpdate, "update"},
	} {
		if n.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}
