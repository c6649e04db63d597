package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tyrowin/gochat-presence/internal/config"
	"github.com/Tyrowin/gochat-presence/internal/logging"
	"github.com/Tyrowin/gochat-presence/internal/metrics"
	"github.com/Tyrowin/gochat-presence/internal/registry"
	"github.com/Tyrowin/gochat-presence/internal/relay"
	"github.com/Tyrowin/gochat-presence/internal/server"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to YAML config file")
	port := pflag.String("port", "", "listen address, overrides server.port")
	pflag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "gochat: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, port string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Server.Port = port
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var m *metrics.Metrics
	if cfg.MetricsEnabled() {
		m = metrics.New()
	}

	hub := server.NewHub(logger, m)
	hub.SetDispatcher(relay.NewService(registry.New(), hub, logger, m))

	httpServer := server.CreateServer(cfg.Server, server.SetupRoutes(hub, cfg, m))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run()
		return nil
	})
	g.Go(func() error {
		return server.StartServer(httpServer, logger)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.ShutdownServer(shutdownCtx, httpServer, logger); err != nil {
			errs = append(errs, err)
		}
		if err := hub.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
			errs = append(errs, fmt.Errorf("shutdown hub: %w", err))
		}
		if len(errs) > 0 {
			logger.Warn("shutdown incomplete", zap.Errors("errors", errs))
			return errs[0]
		}
		return nil
	})

	logger.Info("gochat presence relay started",
		zap.String("addr", cfg.Server.Port),
		zap.Bool("metrics", cfg.MetricsEnabled()))

	return g.Wait()
}
