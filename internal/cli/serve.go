package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"findash/internal/config"
	apphttp "findash/internal/http"
	applog "findash/internal/log"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				a.cfg.Port = port
			}
			a.logger = SetupLogger(a.cfg.LogLevel, cmd.OutOrStdout())
			return runServe(cmd.Context(), a.cfg, a.logger)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config, logger *applog.Logger) error {
	ctx, cancel := GracefulShutdown(parent, logger)
	defer cancel()

	logger.Info("Starting findash", applog.FieldBackend, cfg.DataBackend, "port", cfg.Port)

	snap, err := LoadSnapshot(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	dash, err := config.LoadDashboard(cfg.DashboardConfig)
	if err != nil {
		return err
	}

	srv := apphttp.NewServer(":"+cfg.Port, snap, apphttp.Options{
		Dashboard: dash,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger.WithComponent(applog.ComponentHTTP),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server forced to shutdown", "error", err)
			return err
		}
		logger.Info("Server shutdown complete")
		return nil
	})
	return g.Wait()
}
