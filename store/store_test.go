package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Run("Unassigned", func(t *testing.T) {
		var v Value
		assert.False(t, v.IsValid())
		assert.Equal(t, TypeUnassigned, v.Type())
		assert.True(t, v.Equal(Value{}))
	})

	t.Run("Scalars", func(t *testing.T) {
		assert.True(t, BooleanValue(true).Boolean())
		assert.Equal(t, int64(-12), IntegerValue(-12).Integer())
		assert.Equal(t, 0.5, DoubleValue(0.5).Double())
		assert.Equal(t, "drive", StringValue("drive").String())
		assert.False(t, IntegerValue(1).Equal(DoubleValue(1)))
	})

	t.Run("ArraysAreCopied", func(t *testing.T) {
		in := []float64{1, 2, 3}
		v := DoubleArrayValue(in)
		in[0] = 10
		assert.Equal(t, []float64{1, 2, 3}, v.DoubleArray())

		out := v.DoubleArray()
		out[1] = 20
		assert.Equal(t, []float64{1, 2, 3}, v.DoubleArray())

		assert.True(t, v.Equal(DoubleArrayValue([]float64{1, 2, 3})))
		assert.False(t, v.Equal(DoubleArrayValue([]float64{1, 2})))
		assert.True(t, RawValue([]byte("ab")).Equal(RawValue([]byte("ab"))))
	})

	t.Run("ParseValueType", func(t *testing.T) {
		vt, ok := ParseValueType("double[]")
		assert.True(t, ok)
		assert.Equal(t, TypeDoubleArray, vt)
		assert.True(t, vt.IsArray())

		_, ok = ParseValueType("complex")
		assert.False(t, ok)
	})
}

func TestNotifyFlags(t *testing.T) {
	updates := NotifyUpdate
	assert.True(t, updates.Matches(NotifyUpdate))
	assert.False(t, updates.Matches(NotifyUpdate|NotifyLocal))
	assert.False(t, updates.Matches(NotifyNew))

	local := NotifyUpdate | NotifyLocal
	assert.True(t, local.Matches(NotifyUpdate|NotifyLocal))
	assert.True(t, local.Matches(NotifyUpdate))
	assert.Equal(t, "local|update", local.String())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "/components/drive/speed", JoinKey("components", "drive", "speed"))
	assert.Equal(t, "/drive/pid/speed", JoinKey("", "drive", "/pid/", "speed"))
	assert.Equal(t, "/", JoinKey())
	// decomposed 'e' with the combining acute accent is composed
	assert.Equal(t, "/components/caf\u00e9", JoinKey("components", "cafe\u0301"))

	assert.True(t, ValidKey("/components/drive/speed"))
	assert.False(t, ValidKey("components/drive"))
	assert.False(t, ValidKey("/components//drive"))
	assert.False(t, ValidKey("/drive/"))
	assert.False(t, ValidKey("/"))
}
