package config

import (
	"testing"
	"time"

	"github.com/neuronlabs/uni-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tunables/log"
)

func TestReadDefaultConfig(t *testing.T) {
	if testing.Verbose() {
		require.NoError(t, log.SetLevel(unilogger.DEBUG))
	}
	var c *Config
	require.NotPanics(t, func() { c = ReadDefaultConfig() })
	require.NotNil(t, c)
	require.NoError(t, c.Validate())

	t.Run("Tunables", func(t *testing.T) {
		assert.Equal(t, "components", c.Tunables.Prefix)
		assert.False(t, c.Tunables.SelfNotify)
		assert.Equal(t, "raw", c.Tunables.NamingConvention)
		assert.Equal(t, 50*time.Millisecond, c.Tunables.FeedbackInterval)
	})

	t.Run("Store", func(t *testing.T) {
		assert.Equal(t, ":5810", c.Store.ListenAddress)
		assert.Equal(t, "/nt", c.Store.Path)
		assert.Equal(t, 5*time.Second, c.Store.WriteTimeout)
		assert.Equal(t, 30*time.Second, c.Store.PingInterval)
		assert.Equal(t, 256, c.Store.SendBuffer)
		assert.Empty(t, c.Store.TokenSecret)
	})

	assert.Equal(t, "info", c.Log.Level)
}

func TestReadConfigFile(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c, err := ReadConfigFile("testdata/tunables.yaml")
		require.NoError(t, err)

		assert.Equal(t, "autonomous", c.Tunables.Prefix)
		assert.True(t, c.Tunables.SelfNotify)
		assert.Equal(t, "snake", c.Tunables.NamingConvention)
		assert.Equal(t, 20*time.Millisecond, c.Tunables.FeedbackInterval)
		assert.Equal(t, ":9000", c.Store.ListenAddress)
		assert.Equal(t, "secret", c.Store.TokenSecret)
		// not overwritten values are taken from defaults
		assert.Equal(t, "/nt", c.Store.Path)
		assert.Equal(t, "debug", c.Log.Level)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ReadConfigFile("testdata/invalid.yaml")
		require.Error(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := ReadNamedConfig("not-existing-config")
		require.Error(t, err)
	})
}
