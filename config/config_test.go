package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/moesi-sim/config"
)

func TestValidateFillsDefaults(t *testing.T) {
	cfg := &config.Config{Cores: 4}
	require.NoError(t, config.Validate(cfg))

	assert.Equal(t, config.DefaultLinesPerCache, cfg.LinesPer)
	assert.Equal(t, config.DefaultWordSize, cfg.WordSize)
	assert.Equal(t, config.DefaultWords, cfg.Words)
}

func TestValidateRejectsNonPositiveCores(t *testing.T) {
	cfg := &config.Config{Cores: 0}
	assert.Error(t, config.Validate(cfg))
}

func TestByNameFindsPresetAndCopies(t *testing.T) {
	cfg, ok := config.ByName("small")
	require.True(t, ok)
	assert.Equal(t, 4, cfg.Cores)

	_, ok = config.ByName("does-not-exist")
	assert.False(t, ok)
}
