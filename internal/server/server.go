// Package server runs the viewer's HTTP server until its context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/livechat-history-viewer/internal/api"
	"github.com/livechat-history-viewer/internal/config"
	"github.com/livechat-history-viewer/internal/service"
	"github.com/rs/zerolog"
)

// Run wires the services and router, serves until ctx is done, then shuts
// down gracefully
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Initialize services
	services, err := service.NewServices(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Initialize router
	router := api.NewRouter(services, cfg, log)

	// Feed streams never finish on their own, so request contexts are
	// cancelled as soon as shutdown begins
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		services.Stop()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop rendering and bridge work
	services.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}
