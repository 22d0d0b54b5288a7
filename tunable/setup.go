package tunable

import (
	"context"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store"
)

// Setup binds all tunables of the owner's class to the store entries under the component namespace.
// The class is taken from the 'owner' type.
func Setup(ctx context.Context, s store.Store, owner Owner, name string, options ...Option) error {
	c, err := ClassOf(owner)
	if err != nil {
		return err
	}
	return c.Setup(ctx, s, owner, name, options...)
}

// Setup binds all the class tunables of the 'owner' instance to the store 's' entries.
// The entries are stored under the '/<prefix>/<name>' namespace. The setup is idempotent for
// given namespace, each entry is obtained and each callback is subscribed only once.
// Tunables with the names starting with '_' are private and are not bound.
func (c *Class) Setup(ctx context.Context, s store.Store, owner Owner, name string, options ...Option) error {
	if s == nil {
		return errors.WrapDet(ErrBinding, "nil store")
	}
	if !validName(name) {
		return errors.WrapDetf(ErrInvalidName, "invalid component name: '%s'", name)
	}
	table, err := c.tableOf(owner)
	if err != nil {
		return err
	}
	o := newOptions(options...)
	root := NamespaceRoot(o.Prefix, name)
	if table.IsBound() && table.root != root {
		return errors.WrapDetf(ErrRebind, "component already bound under: '%s', requested: '%s'", table.root, root)
	}
	table.bind(c, root)

	for _, d := range c.sorted() {
		if isPrivate(d.Name()) {
			continue
		}
		b, ok := table.binding(d)
		if !ok {
			key := d.key(root)
			entry, err := s.GetOrCreateEntry(ctx, key, d.defaultValue(), d.writesDefault())
			if err != nil {
				return err
			}
			b = &binding{entry: entry}
			table.bindings[d] = b
			log.Debug2f("Bound tunable: '%s.%s' to: '%s'", c.Name(), d.Name(), key)
		}
		if b.subscription != nil {
			continue
		}
		listener := d.listener(owner)
		if listener == nil {
			continue
		}
		sub, err := b.entry.Subscribe(o.notifyFlags(), listener)
		if err != nil {
			return err
		}
		b.subscription = sub
		log.Debug2f("Subscribed tunable: '%s' callback", b.entry.Key())
	}
	return nil
}
