package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hongminglow/arcade-be/internal/config"
	"github.com/hongminglow/arcade-be/internal/storage"
	"github.com/hongminglow/arcade-be/internal/storage/memory"
	"github.com/hongminglow/arcade-be/internal/storage/mongodb"
	postgres "github.com/hongminglow/arcade-be/internal/storage/postgres"
)

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMongo:
		return mongodb.NewStore(ctx, mongodb.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	case config.DriverPostgres:
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// withStore loads config, opens the store and runs fn.
func withStore(ctx context.Context, fn func(cfg config.Config, store storage.Store, logger *slog.Logger) error) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()
	return fn(cfg, store, logger)
}
