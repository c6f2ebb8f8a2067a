package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"route-timing-service/internal/api"
	"route-timing-service/internal/app"
	"route-timing-service/internal/config"
	"route-timing-service/internal/platform/obs"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger depends on config, so this is the one plain stderr write.
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := obs.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HomeAddress == "" {
		logger.Warn("HOME_ADDRESS is empty; every route will be empty")
	}

	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	// Seed demo data on startup for local runs.
	if err := app.Seed(ctx, cfg, storage, cfg.SeedPath); err != nil {
		return err
	}

	gateway, err := app.NewGateway(cfg, storage.Geocodes, logger)
	if err != nil {
		return err
	}

	routes, err := app.NewDayRoutes(cfg, storage, gateway, logger)
	if err != nil {
		return err
	}

	// Timeouts are tuned for cold-cache fallback runs (one provider call per leg).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(routes, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.StoreDriver),
			zap.String("provider", cfg.DirectionsProvider))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
