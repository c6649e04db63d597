package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be > 0")
	}

	if c.WebSocket.MaxMessageSize < 1 {
		return errors.New("websocket.max_message_size must be >= 1")
	}
	if c.WebSocket.SendBuffer < 1 {
		return errors.New("websocket.send_buffer must be >= 1")
	}
	if c.WebSocket.WriteWait <= 0 {
		return errors.New("websocket.write_wait must be > 0")
	}
	if c.WebSocket.PingInterval <= 0 || c.WebSocket.PongWait <= 0 {
		return errors.New("websocket.ping_interval and websocket.pong_wait must be > 0")
	}
	if c.WebSocket.PingInterval >= c.WebSocket.PongWait {
		return fmt.Errorf("websocket.ping_interval (%s) must be shorter than websocket.pong_wait (%s)",
			c.WebSocket.PingInterval, c.WebSocket.PongWait)
	}

	if c.RateLimit.Burst < 1 {
		return errors.New("rate_limit.burst must be >= 1")
	}
	if c.RateLimit.RefillInterval <= 0 {
		return errors.New("rate_limit.refill_interval must be > 0")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	return nil
}
