package tunable

import (
	"context"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store"
)

// FeedbackEntry is the feedback accessor bound to the component instance and its store entry.
type FeedbackEntry struct {
	Key      string
	Entry    store.Entry
	Feedback *Feedback

	owner Owner
}

// Value calls the accessor and gets its encoded result.
func (f *FeedbackEntry) Value() (store.Value, error) {
	return f.Feedback.value(f.owner)
}

// Publish calls the accessor and sets its result on the entry.
func (f *FeedbackEntry) Publish() error {
	v, err := f.Value()
	if err != nil {
		return err
	}
	return f.Entry.Set(v)
}

// CollectFeedbacks binds all the feedbacks of the owner's class. The class is taken from the 'owner' type.
func CollectFeedbacks(ctx context.Context, s store.Store, owner Owner, name string, options ...Option) ([]*FeedbackEntry, error) {
	c, err := ClassOf(owner)
	if err != nil {
		return nil, err
	}
	return c.CollectFeedbacks(ctx, s, owner, name, options...)
}

// CollectFeedbacks binds the feedbacks of the class for the 'owner' instance to the store entries
// under the '/<prefix>/<name>' namespace. The entries are taken without any default value.
func (c *Class) CollectFeedbacks(ctx context.Context, s store.Store, owner Owner, name string, options ...Option) ([]*FeedbackEntry, error) {
	if s == nil {
		return nil, errors.WrapDet(ErrBinding, "nil store")
	}
	if !validName(name) {
		return nil, errors.WrapDetf(ErrInvalidName, "invalid component name: '%s'", name)
	}
	table, err := c.tableOf(owner)
	if err != nil {
		return nil, err
	}
	o := newOptions(options...)
	root := NamespaceRoot(o.Prefix, name)
	if table.IsBound() && table.root != root {
		return nil, errors.WrapDetf(ErrRebind, "component already bound under: '%s', requested: '%s'", table.root, root)
	}
	table.bind(c, root)

	feedbacks := c.Feedbacks()
	entries := make([]*FeedbackEntry, 0, len(feedbacks))
	for _, f := range feedbacks {
		e, ok := table.feedbacks[f]
		if !ok {
			key := store.JoinKey(root, f.Key(o.NamingConvention))
			if e, err = s.GetEntry(ctx, key); err != nil {
				return nil, err
			}
			table.feedbacks[f] = e
			log.Debug2f("Bound feedback: '%s.%s' to: '%s'", c.Name(), f, key)
		}
		entries = append(entries, &FeedbackEntry{Key: e.Key(), Entry: e, Feedback: f, owner: owner})
	}
	return entries, nil
}
