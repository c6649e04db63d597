package config

import (
	"strconv"
	"strings"
	"time"
)

// applyEnv overrides fields from environment variables. Unparseable or
// non-positive numeric values are ignored.
func (c *Config) applyEnv(getenv func(string) string) {
	if port := getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}

	if origins := getenv("ALLOWED_ORIGINS"); origins != "" {
		c.WebSocket.AllowedOrigins = parseOrigins(origins)
	}

	if maxSize := getenv("MAX_MESSAGE_SIZE"); maxSize != "" {
		c.WebSocket.MaxMessageSize = parseMaxMessageSize(maxSize, c.WebSocket.MaxMessageSize)
	}

	if burst := getenv("RATE_LIMIT_BURST"); burst != "" {
		c.RateLimit.Burst = parseIntValue(burst, c.RateLimit.Burst)
	}

	// Plain integers are seconds; Go duration strings are also accepted.
	if interval := getenv("RATE_LIMIT_REFILL_INTERVAL"); interval != "" {
		c.RateLimit.RefillInterval = parseRefillInterval(interval, c.RateLimit.RefillInterval)
	}

	if level := getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
	if format := getenv("LOG_FORMAT"); format != "" {
		c.Log.Format = strings.ToLower(format)
	}
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
		return size
	}
	return defaultValue
}

func parseIntValue(value string, defaultValue int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	return defaultValue
}

func parseRefillInterval(value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
