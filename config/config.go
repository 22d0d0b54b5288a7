// Package config contains the configuration structures for the tunable bindings,
// the store transports and the logger.
package config

import (
	"time"

	"gopkg.in/go-playground/validator.v9"
)

// Config contains general configurations for the tunables and its store.
type Config struct {
	// Tunables is the binding layer configuration.
	Tunables *Tunables `mapstructure:"tunables" validate:"required"`
	// Store is the networked store configuration.
	Store *Store `mapstructure:"store" validate:"required"`
	// Log is the logger configuration.
	Log *Log `mapstructure:"log" validate:"required"`
}

// Validate validates the config values.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Tunables is the configuration for the tunable bindings.
type Tunables struct {
	// Prefix is the namespace prefix for the component keys. An empty prefix
	// binds the components directly under the root i.e.: '/drive/speed'.
	Prefix string `mapstructure:"prefix" validate:"excludes=/"`
	// SelfNotify defines if the callbacks are called for the values set by this process.
	SelfNotify bool `mapstructure:"self_notify"`
	// NamingConvention is the naming convention used for the derived feedback keys.
	NamingConvention string `mapstructure:"naming_convention" validate:"oneof=raw snake camel lower_camel kebab"`
	// FeedbackInterval is the interval of the feedback publisher.
	FeedbackInterval time.Duration `mapstructure:"feedback_interval" validate:"min=0"`
}

// Store is the configuration for the networked store.
type Store struct {
	// URL is the websocket url of the store server used by the clients.
	URL string `mapstructure:"url" validate:"isdefault|url"`
	// ListenAddress is the address the store server listens on.
	ListenAddress string `mapstructure:"listen_address" validate:"required"`
	// Path is the http path of the websocket endpoint.
	Path string `mapstructure:"path" validate:"startswith=/"`
	// ReadTimeout is the http server read header timeout.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the timeout for a single websocket message write.
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	// PingInterval is the websocket keep alive ping interval.
	PingInterval time.Duration `mapstructure:"ping_interval" validate:"min=0"`
	// SendBuffer is the size of the per connection outgoing message buffer.
	SendBuffer int `mapstructure:"send_buffer" validate:"min=1"`
	// TokenSecret is the HS256 secret used to sign and verify the bearer tokens.
	// If empty the authentication is disabled.
	TokenSecret string `mapstructure:"token_secret"`
	// ShutdownTimeout is the graceful shutdown timeout of the server.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Log is the logger configuration.
type Log struct {
	// Level is the logging level name.
	Level string `mapstructure:"level" validate:"oneof=debug3 debug2 debug info warning warn error critical"`
}
