package tunable

import (
	"golang.org/x/exp/slices"

	"github.com/neuronlabs/tunables/store"
)

// Table is the per instance binding table. It should be embedded within the component structure,
// which makes the component implement the Owner interface.
// The table is populated by the Setup and is not safe for concurrent setups.
type Table struct {
	class     *Class
	root      string
	bindings  map[descriptor]*binding
	feedbacks map[*Feedback]store.Entry
}

type binding struct {
	entry        store.Entry
	subscription store.Subscription
}

// TunableTable implements Owner interface.
func (t *Table) TunableTable() *Table {
	return t
}

// Root gets the namespace root the table is bound under. Empty for unbound tables.
func (t *Table) Root() string {
	return t.root
}

// IsBound checks if the table was already set up.
func (t *Table) IsBound() bool {
	return t.root != ""
}

// Keys gets the sorted keys of all bound tunable entries.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.bindings))
	for _, b := range t.bindings {
		keys = append(keys, b.entry.Key())
	}
	slices.Sort(keys)
	return keys
}

func (t *Table) bind(c *Class, root string) {
	t.class = c
	t.root = root
	if t.bindings == nil {
		t.bindings = map[descriptor]*binding{}
	}
	if t.feedbacks == nil {
		t.feedbacks = map[*Feedback]store.Entry{}
	}
}

func (t *Table) binding(d descriptor) (*binding, bool) {
	b, ok := t.bindings[d]
	return b, ok
}
