// Package main is the entry point for the Alpha HTTP API.
//
// Startup sequence:
// 1. Load configuration from the environment (.env supported)
// 2. Build the logger
// 3. Wire the container (database, price sources, services, backups, jobs)
// 4. Start the HTTP server and the scheduler
// 5. Wait for a shutdown signal and stop both gracefully
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/alpha/internal/config"
	"github.com/aristath/alpha/internal/di"
	"github.com/aristath/alpha/internal/server"
	"github.com/aristath/alpha/pkg/logger"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	server.Version = getEnv("VERSION", server.Version)
	log.Info().Str("version", server.Version).Msg("Starting Alpha")

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directories")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	srv := di.NewServer(container, jobs, cfg, log)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	container.Scheduler.Start()

	// Prime the latest summary instead of waiting for the first tick
	if cfg.RefreshSchedule != "" {
		go func() {
			if err := container.Scheduler.RunNow(jobs.PriceRefresh); err != nil {
				log.Warn().Err(err).Msg("Initial price refresh failed")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	cancel()

	container.Scheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
