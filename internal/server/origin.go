package server

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// originPolicy decides which browser origins may open a WebSocket.
type originPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
	logger   *zap.Logger
}

func newOriginPolicy(origins []string, logger *zap.Logger) *originPolicy {
	p := &originPolicy{
		allowed: make(map[string]struct{}, len(origins)),
		logger:  logger,
	}

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}

		if trimmed == "*" {
			p.allowAll = true
			continue
		}

		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			logger.Warn("ignoring invalid origin in configuration", zap.String("origin", origin))
			continue
		}
		p.allowed[normalized] = struct{}{}
	}
	return p
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}

	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

// isAllowed requires an Origin header even when every origin is allowed.
func (p *originPolicy) isAllowed(r *http.Request) bool {
	originHeader := r.Header.Get("Origin")
	if originHeader == "" {
		return false
	}

	normalized, ok := normalizeOrigin(originHeader)
	if !ok {
		return false
	}

	if p.allowAll {
		return true
	}

	_, exists := p.allowed[normalized]
	return exists
}

func (p *originPolicy) checkOrigin(r *http.Request) bool {
	if p.isAllowed(r) {
		return true
	}

	p.logger.Warn("blocked websocket connection from disallowed origin",
		zap.String("origin", r.Header.Get("Origin")))
	return false
}
