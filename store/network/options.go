package network

import (
	"time"

	"github.com/neuronlabs/tunables/config"
	"github.com/neuronlabs/tunables/store"
)

// Options are the network server and client options.
type Options struct {
	// TokenSecret is the HS256 secret the server verifies the bearer tokens with.
	// Empty secret disables the authentication.
	TokenSecret []byte
	// Token is the bearer token sent by the client.
	Token string
	// WriteTimeout is the timeout of a single message write.
	WriteTimeout time.Duration
	// PingInterval is the keep alive ping interval. The connection is closed
	// if nothing is read within two intervals.
	PingInterval time.Duration
	// SendBuffer is the size of the outgoing message buffer of each connection.
	SendBuffer int
	// StoreOptions are the options of the underlying memory store.
	StoreOptions []store.Option
	// Middlewares are the server http middlewares called before the authentication.
	Middlewares []Middleware
}

// Option is the function that changes the network options.
type Option func(o *Options)

func defaultOptions() *Options {
	return &Options{
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
		SendBuffer:   256,
	}
}

func newOptions(options ...Option) *Options {
	o := defaultOptions()
	for _, option := range options {
		option(o)
	}
	d := defaultOptions()
	if o.SendBuffer <= 0 {
		o.SendBuffer = 1
	}
	if o.PingInterval <= 0 {
		o.PingInterval = d.PingInterval
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = d.WriteTimeout
	}
	return o
}

// WithTokenSecret sets the secret of the bearer tokens. For the server it enables the authentication.
func WithTokenSecret(secret string) Option {
	return func(o *Options) {
		o.TokenSecret = []byte(secret)
	}
}

// WithToken sets the bearer token used by the client.
func WithToken(token string) Option {
	return func(o *Options) {
		o.Token = token
	}
}

// WithWriteTimeout sets the message write timeout.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.WriteTimeout = d
	}
}

// WithPingInterval sets the keep alive ping interval.
func WithPingInterval(d time.Duration) Option {
	return func(o *Options) {
		o.PingInterval = d
	}
}

// WithSendBuffer sets the size of the outgoing message buffer.
func WithSendBuffer(size int) Option {
	return func(o *Options) {
		o.SendBuffer = size
	}
}

// WithStoreOptions sets the options of the underlying memory store.
func WithStoreOptions(options ...store.Option) Option {
	return func(o *Options) {
		o.StoreOptions = append(o.StoreOptions, options...)
	}
}

// WithMiddlewares adds the server http middlewares.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(o *Options) {
		o.Middlewares = append(o.Middlewares, middlewares...)
	}
}

// WithConfig sets the options from the store config.
func WithConfig(c *config.Store) Option {
	return func(o *Options) {
		if c == nil {
			return
		}
		if c.TokenSecret != "" {
			o.TokenSecret = []byte(c.TokenSecret)
		}
		if c.WriteTimeout > 0 {
			o.WriteTimeout = c.WriteTimeout
		}
		if c.PingInterval > 0 {
			o.PingInterval = c.PingInterval
		}
		if c.SendBuffer > 0 {
			o.SendBuffer = c.SendBuffer
		}
	}
}
