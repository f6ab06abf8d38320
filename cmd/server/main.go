// Package main implements the entry point for the task API server,
// a JSON CRUD service over a single task collection.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
)

// revision is set at build time with -ldflags "-X main.revision=...".
var revision = "unknown"

// main is the entry point for the task-api server.
// It loads configuration, sets up logging, opens the configured store and
// serves HTTP until it receives SIGINT or SIGTERM.
func main() {
	ctx := context.Background()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to start application", slog.String("error", err.Error()))
		log.Fatalf("Failed to start application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("Server stopped with error", slog.String("error", err.Error()))
		log.Fatalf("Server stopped with error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("driver", cfg.Database.Driver),
		slog.String("revision", revision))

	if cfg.Database.URL != "" {
		appLogger.Debug("Database configuration", slog.Bool("url_present", true))
	}

	return cfg, appLogger, nil
}
