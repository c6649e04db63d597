package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Tyrowin/gochat-presence/internal/config"
)

// CreateServer creates an HTTP server for handler using the configured
// address and timeouts.
func CreateServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// StartServer listens until the server is shut down. A clean shutdown
// returns nil.
func StartServer(server *http.Server, logger *zap.Logger) error {
	logger.Info("server listening", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}
	return nil
}

// ShutdownServer gracefully shuts down the HTTP server without interrupting
// active requests, giving up when ctx expires.
func ShutdownServer(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	logger.Info("shutting down HTTP server")

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("HTTP server shutdown completed")
	return nil
}
