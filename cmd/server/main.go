package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/livechat-history-viewer/internal/config"
	"github.com/livechat-history-viewer/internal/server"
	"github.com/livechat-history-viewer/pkg/logger"
)

func main() {
	// Load .env if present; real environment variables win
	_ = godotenv.Load()

	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting live chat history viewer...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if os.Getenv("ENV") != "development" {
		log = logger.NewWithOptions(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
		stop()
		os.Exit(1)
	}
}
