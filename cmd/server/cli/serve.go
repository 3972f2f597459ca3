package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/hongminglow/arcade-be/internal/auth"
	"github.com/hongminglow/arcade-be/internal/cache"
	"github.com/hongminglow/arcade-be/internal/config"
	"github.com/hongminglow/arcade-be/internal/server"
	"github.com/hongminglow/arcade-be/internal/storage"
	"github.com/hongminglow/arcade-be/internal/telemetry"
)

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default when no command is given)",
		RunE:  serveRunE(version),
	}
}

func serveRunE(version string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(cfg config.Config, store storage.Store, logger *slog.Logger) error {
			return runServe(cmd.Context(), cfg, store, logger, version)
		})
	}
}

func runServe(ctx context.Context, cfg config.Config, store storage.Store, logger *slog.Logger, version string) error {
	slog.SetDefault(logger)
	logger.Info("database ready", "driver", cfg.DatabaseDriver)

	if _, err := auth.EnsureAdmin(ctx, store, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return err
	}

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTLPEndpoint, "arcade-be", version)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracer shutdown", "error", err)
		}
	}()

	var catalog cache.Catalog = cache.Noop{}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, cfg.CatalogCacheTTL)
		if err != nil {
			return fmt.Errorf("init catalog cache: %w", err)
		}
		defer rc.Close()
		catalog = rc
		logger.Info("catalog cache enabled", "ttl", cfg.CatalogCacheTTL)
	}

	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	srv := server.New(cfg, server.Deps{
		Store:    store,
		Catalog:  catalog,
		Logger:   logger,
		Registry: registry,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("arcade backend listening", "addr", cfg.HTTPAddress(), "version", version)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown error", "error", err)
	}
	return nil
}
