package network

import (
	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/store"
)

var (
	// ErrNetwork is the root error classification for the network store.
	ErrNetwork = errors.Wrap(store.ErrStore, "network")
	// ErrUnauthorized is the error when the connection is not authorized.
	ErrUnauthorized = errors.Wrap(ErrNetwork, "unauthorized")
	// ErrMessage is the error for malformed messages.
	ErrMessage = errors.Wrap(ErrNetwork, "message")
	// ErrConnection is the error when the connection is closed or broken.
	ErrConnection = errors.Wrap(ErrNetwork, "connection")
	// ErrBufferFull is the error when the outgoing message buffer is full.
	ErrBufferFull = errors.Wrap(ErrNetwork, "send buffer full")
)
