package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err, "a missing config file must not be an error")

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)

	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Browser.Stealth)

	assert.Equal(t, time.Second, cfg.Scraper.PageTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.SettleDelay)

	assert.Equal(t, "./pagelens_cache", cfg.Cache.Path)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PAGELENS_SERVER_PORT", "9999")
	t.Setenv("PAGELENS_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}
