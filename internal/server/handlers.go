package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Tyrowin/gochat-presence/internal/config"
)

// WebSocketHandler upgrades GET requests from allowed origins and registers
// the resulting connection with hub.
func WebSocketHandler(hub *Hub, cfg *config.Config) http.HandlerFunc {
	policy := newOriginPolicy(cfg.WebSocket.AllowedOrigins, hub.logger)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     policy.checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Info("websocket upgrade failed", zap.String("addr", r.RemoteAddr), zap.Error(err))
			return
		}

		client := NewClient(conn, hub, r.RemoteAddr, cfg)

		// The hub launches the pump goroutines once the client is registered.
		if !hub.Register(client) {
			_ = conn.Close()
		}
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "GoChat presence relay is running!")
}
