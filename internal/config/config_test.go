package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.AppPort)
	assert.Equal(t, "/data/parley.db", cfg.DatabasePath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 120*time.Second, cfg.LLMRequestTimeout)
	assert.Equal(t, 3, cfg.LLMMaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.LLMRetryBaseDelay)
	assert.Equal(t, 4, cfg.CharsPerToken)
	// No default: the master key must be provided explicitly.
	assert.Empty(t, cfg.MasterKey)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("MASTER_KEY", "unit-test-key")
	t.Setenv("LLM_REQUEST_TIMEOUT", "30s")
	t.Setenv("CHARS_PER_TOKEN", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.AppPort)
	assert.Equal(t, "unit-test-key", cfg.MasterKey)
	assert.Equal(t, 30*time.Second, cfg.LLMRequestTimeout)
	assert.Equal(t, 3, cfg.CharsPerToken)
}
