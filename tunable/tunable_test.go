package tunable

import (
	"context"
	"flag"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/neuronlabs/uni-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
	"github.com/neuronlabs/tunables/store"
	"github.com/neuronlabs/tunables/store/memory"
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Verbose() {
		_ = log.SetLevel(unilogger.DEBUG)
	}
	os.Exit(m.Run())
}

type drive struct {
	Table
	angle float64
}

func (d *drive) GetAngle() float64 {
	return d.angle
}

var (
	driveClass    = NewClass(&drive{})
	driveSpeed    = MustNew(driveClass, "speed", 0.5)
	drivePIDSpeed = MustNew(driveClass, "speed", 1.5, Subtable("pid"))
	driveMode     = MustNew(driveClass, "mode", "manual", WriteDefault(false))
	driveGears    = MustNew(driveClass, "gears", []int{1, 2, 3})
	driveHidden   = MustNew(driveClass, "_hidden", true)
)

func testingStore(t *testing.T) *memory.Memory {
	t.Helper()
	m := memory.New()
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func waitListeners(t *testing.T, m *memory.Memory) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitForListenerQueue(ctx))
}

// recorder records the callback values.
type recorder[T any] struct {
	mu     sync.Mutex
	values []T
	owners []Owner
}

func (r *recorder[T]) callback(owner Owner, value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
	r.owners = append(r.owners, owner)
}

func (r *recorder[T]) get() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.values...)
}

func TestNew(t *testing.T) {
	type model struct{ Table }
	c := NewClass(&model{})

	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := New(c, "pose", struct{ X int }{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedType))
		assert.True(t, errors.Is(err, ErrDefinition))

		_, err = New(c, "table", map[string]int{})
		assert.True(t, errors.Is(err, ErrUnsupportedType))
	})

	t.Run("InvalidName", func(t *testing.T) {
		_, err := New(c, "", 1)
		assert.True(t, errors.Is(err, ErrInvalidName))

		_, err = New(c, "a/b", 1)
		assert.True(t, errors.Is(err, ErrInvalidName))
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := New(c, "gain", 1.0)
		require.NoError(t, err)

		_, err = New(c, "gain", 2.0)
		assert.True(t, errors.Is(err, ErrDuplicate))

		// the same name within the subtable is a different tunable
		_, err = New(c, "gain", 2.0, Subtable("pid"))
		assert.NoError(t, err)
	})

	t.Run("NilClass", func(t *testing.T) {
		_, err := New[int](nil, "x", 1)
		assert.True(t, errors.Is(err, ErrInvalidClass))
	})

	t.Run("Deprecated", func(t *testing.T) {
		v, err := New(c, "documented", 3, Doc("some doc"))
		require.NoError(t, err)
		assert.Equal(t, 3, v.Default())
	})

	t.Run("Paths", func(t *testing.T) {
		assert.Equal(t, []string{"_hidden", "gears", "mode", "pid/speed", "speed"}, driveClass.Paths())
	})
}

func TestGetSet(t *testing.T) {
	ctx := context.Background()

	t.Run("NotBound", func(t *testing.T) {
		d := &drive{}
		_, err := driveSpeed.Get(d)
		assert.True(t, errors.Is(err, ErrNotBound))

		err = driveSpeed.Set(d, 1.0)
		assert.True(t, errors.Is(err, ErrNotBound))

		assert.Panics(t, func() { driveSpeed.MustGet(d) })
	})

	t.Run("NilOwner", func(t *testing.T) {
		var d *drive
		_, err := driveSpeed.Get(d)
		assert.True(t, errors.Is(err, ErrNilTable))

		_, err = driveSpeed.Get(nil)
		assert.True(t, errors.Is(err, ErrNilTable))
	})

	t.Run("RoundTrip", func(t *testing.T) {
		m := testingStore(t)
		d := &drive{}
		require.NoError(t, Setup(ctx, m, d, "drive"))

		assert.Equal(t, 0.5, driveSpeed.MustGet(d))
		require.NoError(t, driveSpeed.Set(d, 0.75))
		assert.Equal(t, 0.75, driveSpeed.MustGet(d))

		require.NoError(t, driveGears.Set(d, []int{4, 5}))
		gears, err := driveGears.Get(d)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 5}, gears)

		e, ok := m.Lookup("/components/drive/speed")
		require.True(t, ok)
		v, ok := e.Get()
		require.True(t, ok)
		assert.Equal(t, 0.75, v.Double())
	})

	t.Run("StoreError", func(t *testing.T) {
		m := testingStore(t)
		_, err := m.GetOrCreateEntry(ctx, "/components/drive/speed", store.StringValue("fast"), true)
		require.NoError(t, err)

		d := &drive{}
		require.NoError(t, Setup(ctx, m, d, "drive"))

		err = driveSpeed.Set(d, 1.0)
		assert.True(t, errors.Is(err, store.ErrTypeMismatch))

		_, err = driveSpeed.Get(d)
		assert.True(t, errors.Is(err, ErrDecode))
	})
}
