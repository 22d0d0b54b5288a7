package namer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tunables/errors"
)

func TestNamingConvention(t *testing.T) {
	t.Run("Parse", func(t *testing.T) {
		var n NamingConvention
		require.NoError(t, n.Parse("lower_camel"))
		assert.Equal(t, LowerCamelCase, n)
		assert.Equal(t, "lower_camel", n.String())

		require.NoError(t, n.Parse("snake"))
		assert.Equal(t, SnakeCase, n)

		err := n.Parse("pascal")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNamingConvention))
	})

	t.Run("Name", func(t *testing.T) {
		assert.Equal(t, "angle", LowerCamelCase.Name("Angle"))
		assert.Equal(t, "wheelSpeed", LowerCamelCase.Name("WheelSpeed"))
		assert.Equal(t, "wheel_speed", SnakeCase.Name("WheelSpeed"))
		assert.Equal(t, "wheel-speed", KebabCase.Name("WheelSpeed"))
		assert.Equal(t, "WheelSpeed", CamelCase.Name("wheel_speed"))
		assert.Equal(t, "Wheel_Speed", Raw.Name("Wheel_Speed"))
	})
}
