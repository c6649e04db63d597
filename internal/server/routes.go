package server

import (
	"net/http"

	"github.com/Tyrowin/gochat-presence/internal/config"
	"github.com/Tyrowin/gochat-presence/internal/metrics"
)

// SetupRoutes configures the health check, the WebSocket endpoint and, when
// enabled and m is non-nil, the Prometheus endpoint.
func SetupRoutes(hub *Hub, cfg *config.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HealthHandler)
	mux.HandleFunc("/ws", WebSocketHandler(hub, cfg))
	if m != nil && cfg.MetricsEnabled() {
		mux.Handle(cfg.Metrics.Path, m.Handler())
	}
	return mux
}
