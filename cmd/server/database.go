package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/platform/sqlite"
	"github.com/phrazzld/task-api/internal/store"
)

// setupTaskStore opens the storage engine named by the configuration and,
// when enabled, bootstraps its schema. The returned *sqlx.DB is nil for the
// in-memory engine.
func setupTaskStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.TaskStore, *sqlx.DB, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Info("Using in-memory task store")
		return memory.NewTaskStore(logger), nil, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if cfg.AutoMigrate {
			if err := sqlite.Migrate(ctx, db, logger); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
			}
		}
		logger.Info("Database connection established", slog.String("driver", cfg.Driver))
		return sqlite.NewTaskStore(db, logger), db, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL, postgres.PoolConfig{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, logger); err != nil {
				_ = db.Close()
				return nil, nil, fmt.Errorf("failed to migrate postgres database: %w", err)
			}
		}
		logger.Info("Database connection established", slog.String("driver", cfg.Driver))
		return postgres.NewTaskStore(db, logger), db, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
