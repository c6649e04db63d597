package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, int64(4096), cfg.WebSocket.MaxMessageSize)
	assert.Equal(t, 256, cfg.WebSocket.SendBuffer)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
	assert.True(t, cfg.MetricsEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("GOCHAT_TEST_ORIGIN", "https://chat.example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: ":9000"
  shutdown_timeout: 3s
websocket:
  allowed_origins: ["${GOCHAT_TEST_ORIGIN}", "*"]
  send_buffer: 16
rate_limit:
  burst: 20
log:
  level: debug
  format: json
metrics:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadAndValidate(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"https://chat.example.com", "*"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, 16, cfg.WebSocket.SendBuffer)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.MetricsEnabled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config yaml")
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"SERVER_PORT":                ":7000",
		"ALLOWED_ORIGINS":            " http://a.test , ,http://b.test",
		"MAX_MESSAGE_SIZE":           "1024",
		"RATE_LIMIT_BURST":           "9",
		"RATE_LIMIT_REFILL_INTERVAL": "2",
		"LOG_LEVEL":                  "WARN",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":7000", cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.WebSocket.MaxMessageSize)
	assert.Equal(t, 9, cfg.RateLimit.Burst)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.RefillInterval)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvOverridesIgnoreBadValues(t *testing.T) {
	env := map[string]string{
		"MAX_MESSAGE_SIZE":           "-5",
		"RATE_LIMIT_BURST":           "lots",
		"RATE_LIMIT_REFILL_INTERVAL": "500ms",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, int64(DefaultMaxMessageSize), cfg.WebSocket.MaxMessageSize)
	assert.Equal(t, DefaultRateBurst, cfg.RateLimit.Burst)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.RefillInterval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"send buffer", func(c *Config) { c.WebSocket.SendBuffer = -1 }, "websocket.send_buffer"},
		{"message size", func(c *Config) { c.WebSocket.MaxMessageSize = -1 }, "websocket.max_message_size"},
		{"ping not shorter than pong", func(c *Config) { c.WebSocket.PingInterval = time.Minute }, "must be shorter"},
		{"burst", func(c *Config) { c.RateLimit.Burst = -2 }, "rate_limit.burst"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
