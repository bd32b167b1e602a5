package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cowsbulls-go/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Storage.SessionTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
storage:
  backend: redis
  redis_url: redis://localhost:6379
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "redis://localhost:6379", cfg.Storage.RedisURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset file values fall back to defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CBGAME_SERVER_PORT", "7000")
	t.Setenv("CBGAME_LOG_LEVEL", "warn")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadRedisRequiresURL(t *testing.T) {
	t.Setenv("CBGAME_STORAGE_BACKEND", "redis")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis_url")
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("CBGAME_STORAGE_BACKEND", "cassandra")

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &config.Config{Log: config.LogConfig{Level: tt.level}}
		assert.Equal(t, tt.expected, cfg.SlogLevel(), "level %q", tt.level)
	}
}
