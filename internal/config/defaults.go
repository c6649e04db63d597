package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultPort            = ":8080"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultOrigin          = "http://localhost:8080"
	DefaultMaxMessageSize  = 4096
	DefaultSendBuffer      = 256
	DefaultPingInterval    = 54 * time.Second
	DefaultPongWait        = 60 * time.Second
	DefaultWriteWait       = 10 * time.Second
	DefaultRateBurst       = 5
	DefaultRefillInterval  = time.Second
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultMetricsPath     = "/metrics"
)

// Default returns a Config with every field set to its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.WebSocket.AllowedOrigins == nil {
		c.WebSocket.AllowedOrigins = []string{DefaultOrigin}
	}
	if c.WebSocket.MaxMessageSize == 0 {
		c.WebSocket.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.WebSocket.SendBuffer == 0 {
		c.WebSocket.SendBuffer = DefaultSendBuffer
	}
	if c.WebSocket.PingInterval == 0 {
		c.WebSocket.PingInterval = DefaultPingInterval
	}
	if c.WebSocket.PongWait == 0 {
		c.WebSocket.PongWait = DefaultPongWait
	}
	if c.WebSocket.WriteWait == 0 {
		c.WebSocket.WriteWait = DefaultWriteWait
	}

	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = DefaultRateBurst
	}
	if c.RateLimit.RefillInterval == 0 {
		c.RateLimit.RefillInterval = DefaultRefillInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
