package tunable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/namer"
	"github.com/neuronlabs/tunables/store"
)

var errNoTarget = errors.New("no target")

type vision struct {
	Table
	distance float64
	target   string
	locked   bool
}

func (v *vision) GetDistance() float64 {
	return v.distance
}

func (v *vision) get_target() (string, error) {
	if v.target == "" {
		return "", errNoTarget
	}
	return v.target, nil
}

func (v *vision) Locked() bool {
	return v.locked
}

func (v *vision) Offset(scale float64) float64 {
	return v.distance * scale
}

func (v *vision) Pose() struct{ X, Y float64 } {
	return struct{ X, Y float64 }{}
}

func (v *vision) Pair() (float64, float64) {
	return v.distance, v.distance
}

var (
	visionClass    = NewClass(&vision{})
	visionDistance = visionClass.MustFeedback((*vision).GetDistance)
	visionTarget   = visionClass.MustFeedback((*vision).get_target)
	visionLocked   = visionClass.MustFeedback((*vision).Locked)
	visionScaled   = visionClass.MustFeedback(func(v *vision) float64 { return v.distance * 2 }, Key("scaled/distance"))
)

func TestFeedbackDeclaration(t *testing.T) {
	t.Run("Names", func(t *testing.T) {
		assert.Equal(t, "GetDistance", visionDistance.Name())
		assert.Equal(t, "get_target", visionTarget.Name())
		assert.Equal(t, "Locked", visionLocked.Name())
		assert.Equal(t, "", visionScaled.Name())

		assert.Equal(t, "distance", visionDistance.Key(namer.LowerCamelCase))
		assert.Equal(t, "target", visionTarget.Key(namer.LowerCamelCase))
		assert.Equal(t, "locked", visionLocked.Key(namer.LowerCamelCase))
		assert.Equal(t, "scaled/distance", visionScaled.Key(namer.LowerCamelCase))
		assert.Equal(t, "GetDistance", visionDistance.Key(namer.Raw))
		assert.Equal(t, "target", visionTarget.Key(namer.Raw))

		assert.Equal(t, store.TypeDouble, visionDistance.Type())
		assert.Equal(t, store.TypeString, visionTarget.Type())
	})

	t.Run("ExtraArgument", func(t *testing.T) {
		_, err := visionClass.Feedback((*vision).Offset)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFeedbackArity))
		assert.True(t, errors.Is(err, ErrDefinition))
	})

	t.Run("NotCallable", func(t *testing.T) {
		_, err := visionClass.Feedback(3.14)
		assert.True(t, errors.Is(err, ErrNotCallable))

		_, err = visionClass.Feedback(nil)
		assert.True(t, errors.Is(err, ErrNotCallable))

		var fn func(*vision) float64
		_, err = visionClass.Feedback(fn)
		assert.True(t, errors.Is(err, ErrNotCallable))
	})

	t.Run("Receiver", func(t *testing.T) {
		_, err := visionClass.Feedback((*drive).GetAngle)
		assert.True(t, errors.Is(err, ErrFeedbackReceiver))

		_, err = visionClass.Feedback(func() float64 { return 1 }, Key("x"))
		assert.True(t, errors.Is(err, ErrFeedbackArity))
	})

	t.Run("Result", func(t *testing.T) {
		_, err := visionClass.Feedback((*vision).Pair)
		assert.True(t, errors.Is(err, ErrFeedbackResult))

		_, err = visionClass.Feedback(func(v *vision) {}, Key("nothing"))
		assert.True(t, errors.Is(err, ErrFeedbackResult))

		_, err = visionClass.Feedback((*vision).Pose)
		assert.True(t, errors.Is(err, ErrUnsupportedType))
	})

	t.Run("AnonymousWithoutKey", func(t *testing.T) {
		_, err := visionClass.Feedback(func(v *vision) float64 { return 0 })
		assert.True(t, errors.Is(err, ErrFeedbackKey))

		_, err = visionClass.Feedback(func(v *vision) float64 { return 0 }, Key("/"))
		assert.True(t, errors.Is(err, ErrFeedbackKey))
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := visionClass.Feedback((*vision).GetDistance)
		assert.True(t, errors.Is(err, ErrDuplicate))

		// the same accessor under another key is allowed.
		_, err = visionClass.Feedback((*vision).GetDistance, Key("range"))
		assert.NoError(t, err)
	})
}

func TestCollectFeedbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("Keys", func(t *testing.T) {
		m := testingStore(t)
		v := &vision{distance: 2.5}
		entries, err := CollectFeedbacks(ctx, m, v, "vision")
		require.NoError(t, err)

		keys := map[string]*FeedbackEntry{}
		for _, e := range entries {
			keys[e.Key] = e
		}
		for _, key := range []string{
			"/components/vision/GetDistance",
			"/components/vision/target",
			"/components/vision/Locked",
			"/components/vision/scaled/distance",
		} {
			e, ok := keys[key]
			require.True(t, ok, key)
			// collected entries are not given any default
			_, ok = e.Entry.Get()
			assert.False(t, ok, key)
		}

		require.NoError(t, keys["/components/vision/GetDistance"].Publish())
		value, ok := keys["/components/vision/GetDistance"].Entry.Get()
		require.True(t, ok)
		assert.Equal(t, 2.5, value.Double())

		err = keys["/components/vision/target"].Publish()
		assert.True(t, errors.Is(err, ErrFeedbackCall))
	})

	t.Run("Idempotent", func(t *testing.T) {
		m := testingStore(t)
		v := &vision{}
		first, err := visionClass.CollectFeedbacks(ctx, m, v, "vision", WithPrefix(""))
		require.NoError(t, err)
		second, err := visionClass.CollectFeedbacks(ctx, m, v, "vision", WithPrefix(""))
		require.NoError(t, err)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Same(t, first[i].Feedback, second[i].Feedback)
			assert.Equal(t, first[i].Entry.ID(), second[i].Entry.ID())
		}
		assert.Equal(t, "/vision", v.Root())

		_, err = visionClass.CollectFeedbacks(ctx, m, v, "camera", WithPrefix(""))
		assert.True(t, errors.Is(err, ErrRebind))
	})

	t.Run("NamingConvention", func(t *testing.T) {
		type sensor struct {
			Table
			rpm int
		}
		c := NewClass(&sensor{})
		c.MustFeedback(func(s *sensor) int { return s.rpm }, Key("rpm"))

		m := testingStore(t)
		entries, err := c.CollectFeedbacks(ctx, m, &sensor{rpm: 10}, "sensor", WithNamingConvention(namer.SnakeCase))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "/components/sensor/rpm", entries[0].Key)
	})
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()
	m := testingStore(t)
	v := &vision{distance: 1.25, locked: true}
	entries, err := CollectFeedbacks(ctx, m, v, "vision", WithPrefix("autonomous"), WithNamingConvention(namer.LowerCamelCase))
	require.NoError(t, err)

	p := NewPublisher(5*time.Millisecond, entries...)

	t.Run("PublishAll", func(t *testing.T) {
		err := p.PublishAll()
		require.Error(t, err)
		multi, ok := err.(errors.MultiError)
		require.True(t, ok)
		// only the target accessor fails
		assert.Len(t, multi, 1)
		assert.True(t, errors.Is(err, ErrFeedbackCall))

		for key, expected := range map[string]interface{}{
			"/autonomous/vision/distance":        1.25,
			"/autonomous/vision/locked":          true,
			"/autonomous/vision/scaled/distance": 2.5,
		} {
			e, ok := m.Lookup(key)
			require.True(t, ok, key)
			value, ok := e.Get()
			require.True(t, ok, key)
			assert.Equal(t, expected, value.Interface(), key)
		}
	})

	t.Run("Run", func(t *testing.T) {
		v.target = "hub"
		ctx, cancel := context.WithCancel(ctx)
		done := make(chan error)
		go func() { done <- p.Run(ctx) }()

		assert.Eventually(t, func() bool {
			e, ok := m.Lookup("/autonomous/vision/target")
			if !ok {
				return false
			}
			value, ok := e.Get()
			return ok && value.String() == "hub"
		}, time.Second, 5*time.Millisecond)

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
}
