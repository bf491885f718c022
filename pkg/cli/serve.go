package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/cli/config"
	controller "github.com/secmon-lab/insights/pkg/controller/http"
	slackCtrl "github.com/secmon-lab/insights/pkg/controller/slack"
	"github.com/secmon-lab/insights/pkg/repository"
	"github.com/secmon-lab/insights/pkg/usecase"
	"github.com/secmon-lab/insights/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		dashboardCfg dashboardConfig
	)

	flags := joinFlags(
		serverCfg.Flags(),
		dashboardCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Get logger from root command metadata
			logger := ctxlog.From(ctx)

			logger.Info("Starting insights server",
				slog.Any("server", serverCfg),
				slog.Any("dataset", dashboardCfg.dataset),
				slog.Any("engine", dashboardCfg.engine),
				slog.Any("slack", dashboardCfg.slack),
			)

			if err := serverCfg.Validate(); err != nil {
				return err
			}

			var (
				cacheOpts  []repository.CacheOption
				serverOpts = []controller.Option{
					controller.WithTitle(serverCfg.Title),
					controller.WithAssetsHost(serverCfg.AssetsHost),
				}
			)
			if serverCfg.Metrics {
				metrics := controller.NewMetrics()
				cacheOpts = append(cacheOpts, repository.WithLoadObserver(metrics.ObserveLoad))
				serverOpts = append(serverOpts, controller.WithMetrics(metrics))
			}

			dashboard, engineCfg, err := dashboardCfg.build(ctx, cacheOpts,
				usecase.WithRegistryStore(serverCfg.RegistryStore()))
			if err != nil {
				return err
			}
			logger.Debug("Engine configuration loaded", slog.Any("engine", engineCfg))

			// Warm the cache. A broken dataset is reported on the dashboard, not fatal.
			if table, err := dashboard.Refresh(ctx, true); err != nil {
				logger.Warn("Initial dataset load failed", "error", err)
			} else {
				logger.Info("Dataset loaded",
					slog.String("source", table.Source),
					slog.Int("rows", table.Len()),
					slog.Int("warnings", len(table.Warnings)),
				)
			}

			if dashboardCfg.slack.IsCommandConfigured() {
				slackHandler := slackCtrl.NewHandler(dashboardCfg.slack.SigningSecret, dashboard)
				serverOpts = append(serverOpts, controller.WithSlackCommand(slackHandler.HandleCommand))
			}

			// Create HTTP server
			server, err := controller.NewServer(ctx, serverCfg.Addr, dashboard, serverOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			if serverCfg.RefreshInterval > 0 {
				stop := async.Every(ctx, serverCfg.RefreshInterval, refreshHandler(dashboard, serverCfg.RefreshInvalidate))
				defer stop()
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// refreshHandler recomputes the dashboard on each tick, re-reading the file when invalidate is set
func refreshHandler(dashboard usecase.DashboardUseCase, invalidate bool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		table, err := dashboard.Refresh(ctx, invalidate)
		if err != nil {
			return goerr.Wrap(err, "failed to refresh dashboard")
		}
		ctxlog.From(ctx).Debug("Dashboard refreshed",
			slog.String("source", table.Source),
			slog.Int("rows", table.Len()),
			slog.Bool("invalidate", invalidate),
		)
		return nil
	}
}
