package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-dev/formkit/pkg/config"
)

type serverConfig struct {
	Addr    string `env:"TEST_HTTP_ADDR" envDefault:":8080"`
	Workers int    `env:"TEST_WORKERS" envDefault:"4"`
}

type requiredConfig struct {
	Secret string `env:"TEST_REQUIRED_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies env values and defaults", func(t *testing.T) {
		t.Setenv("TEST_HTTP_ADDR", ":9090")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, 4, cfg.Workers)
	})

	t.Run("caches per type", func(t *testing.T) {
		// The first Load above populated the cache; changed env must not
		// leak into subsequent loads of the same type.
		t.Setenv("TEST_HTTP_ADDR", ":7070")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
	})

	t.Run("missing required variable errors", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer errors", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[serverConfig](nil), config.ErrNilPointer)
	})
}
