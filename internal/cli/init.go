// Package cli implements the findash command line and the initialization
// shared by its subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"findash/internal/backend"
	"findash/internal/config"
	"findash/internal/dataset"
	applog "findash/internal/log"
	"findash/internal/storage"
)

// SetupLogger initializes structured logging at the given LOG_LEVEL and
// sets it as the default logger.
func SetupLogger(level string, w io.Writer) *applog.Logger {
	lvl := applog.ParseLevel(level)
	logger := applog.New(applog.Config{
		Level:     lvl,
		Component: applog.ComponentApp,
		Handler:   slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}),
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// loadEnvFrom loads an explicitly requested env file, which must exist.
func loadEnvFrom(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(parent context.Context, logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// LoadSnapshot reads every record from the configured backend and builds
// the dataset snapshot.
func LoadSnapshot(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*dataset.Snapshot, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}

	loaderLog := logger.WithComponent(applog.ComponentLoader)
	res, err := backend.NewFactory(loaderLog.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}
	defer func() {
		if cerr := res.Close(); cerr != nil {
			loaderLog.Warn("Failed to close backend", "error", cerr)
		}
	}()

	if repo, ok := res.Reader.(*storage.SQLiteRepository); ok {
		info, err := repo.LatestImport(ctx)
		switch {
		case errors.Is(err, storage.ErrNoImport):
			loaderLog.Warn("SQLite database has no imports yet", "path", bcfg.SQLiteDBPath)
		case err != nil:
			return nil, err
		default:
			loaderLog.Info("Serving stored import",
				applog.FieldImportID, info.ID,
				applog.FieldSource, info.Source,
				"imported_at", info.ImportedAt)
		}
	}

	snap, err := dataset.Load(ctx, res.Reader)
	if err != nil {
		return nil, err
	}

	stats := snap.Stats()
	applog.NewStructuredLogger(loaderLog).LogDatasetLoaded(ctx, bcfg.Type.String(), stats.Records, stats.PivotRows)
	return snap, nil
}
