package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	if err := newApp().Run(ctx, args); err != nil {
		// Before has installed the configured logger unless flag parsing failed
		slog.Default().Error("Command failed", "error", err)
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}

func newApp() *cli.Command {
	var loggerCfg config.Logger

	return &cli.Command{
		Name:    "insights",
		Usage:   "Security findings analytics dashboard",
		Version: "0.1.0",
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := loggerCfg.Validate(); err != nil {
				return nil, err
			}

			// Configure logger
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdSummary(),
			cmdValidate(),
		},
	}
}
