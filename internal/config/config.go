package config

import "time"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WebSocketConfig holds per-connection transport settings.
type WebSocketConfig struct {
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxMessageSize int64         `yaml:"max_message_size"`
	SendBuffer     int           `yaml:"send_buffer"`
	PingInterval   time.Duration `yaml:"ping_interval"`
	PongWait       time.Duration `yaml:"pong_wait"`
	WriteWait      time.Duration `yaml:"write_wait"`
}

// RateLimitConfig defines the parameters for per-connection message rate limiting.
type RateLimitConfig struct {
	Burst          int           `yaml:"burst"`
	RefillInterval time.Duration `yaml:"refill_interval"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsEnabled reports whether /metrics should be served. Unset means on.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}
