package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, int64(32768), cfg.ReadLimit)
	assert.Equal(t, 5, cfg.ChatRateLimit)
	assert.Equal(t, 3*time.Second, cfg.ChatRateInterval)
	assert.Equal(t, 64, cfg.SendBuffer)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: debug
port: 9000
chat_rate_interval: 10s
`), 0o600))

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ChatRateInterval)

	t.Setenv("POKER_PORT", "9100")
	cfg, err = Load([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)

	cfg, err = Load([]string{"--config", path, "--port", "9200"})
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 70000\nping_period: 0s\n"), 0o600))

	_, err := Load([]string{"--config", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port out of range")
	assert.Contains(t, err.Error(), "ping_period")

	_, err = Load([]string{"--no-such-flag"})
	assert.Error(t, err)
}
