package tunable

import (
	"github.com/neuronlabs/tunables/config"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/namer"
	"github.com/neuronlabs/tunables/store"
)

// Options are the setup and feedback collection options.
type Options struct {
	// Prefix is the namespace prefix of the component. By default 'components'.
	Prefix string
	// SelfNotify defines if the update callbacks are called for the values set within this process.
	SelfNotify bool
	// NamingConvention is the naming convention of the derived feedback keys. By default namer.Raw,
	// which keeps the method names.
	NamingConvention namer.NamingConvention
}

// Option is the function that changes the setup options.
type Option func(o *Options)

func newOptions(options ...Option) *Options {
	o := &Options{
		Prefix:           DefaultPrefix,
		NamingConvention: namer.Raw,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

func (o *Options) notifyFlags() store.NotifyFlags {
	flags := store.NotifyUpdate
	if o.SelfNotify {
		flags |= store.NotifyLocal
	}
	return flags
}

// WithPrefix sets the namespace prefix. An empty prefix binds the component directly under the store root.
func WithPrefix(prefix string) Option {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithSelfNotify enables or disables the callbacks for the changes made within this process.
func WithSelfNotify(selfNotify bool) Option {
	return func(o *Options) {
		o.SelfNotify = selfNotify
	}
}

// WithNamingConvention sets the naming convention for the derived feedback keys.
func WithNamingConvention(convention namer.NamingConvention) Option {
	return func(o *Options) {
		o.NamingConvention = convention
	}
}

// WithConfig sets the options from the tunables config. Unknown naming convention
// leaves the current one.
func WithConfig(c *config.Tunables) Option {
	return func(o *Options) {
		if c == nil {
			return
		}
		o.Prefix = c.Prefix
		o.SelfNotify = c.SelfNotify
		if c.NamingConvention == "" {
			return
		}
		var nc namer.NamingConvention
		if err := nc.Parse(c.NamingConvention); err != nil {
			log.Warningf("Tunables config naming convention: %v", err)
			return
		}
		o.NamingConvention = nc
	}
}
