package cli

import (
	"context"

	"github.com/secmon-lab/insights/pkg/cli/config"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/repository"
	"github.com/secmon-lab/insights/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// dashboardConfig gathers the flag groups every command needs to build a dashboard
type dashboardConfig struct {
	dataset config.Dataset
	engine  config.Engine
	slack   config.Slack
}

func (d *dashboardConfig) Flags() []cli.Flag {
	return joinFlags(
		d.dataset.Flags(),
		d.engine.Flags(),
		d.slack.Flags(),
	)
}

// build wires the CSV loader, the table cache and the notifier into a dashboard
func (d *dashboardConfig) build(ctx context.Context, cacheOpts []repository.CacheOption, opts ...usecase.DashboardOption) (*usecase.Dashboard, model.EngineConfig, error) {
	if err := d.dataset.Validate(); err != nil {
		return nil, model.EngineConfig{}, err
	}

	engineCfg, err := d.engine.Configure()
	if err != nil {
		return nil, engineCfg, err
	}

	notifier, err := d.slack.Configure()
	if err != nil {
		return nil, engineCfg, err
	}
	if notifier != nil {
		if err := notifier.Verify(ctx); err != nil {
			return nil, engineCfg, err
		}
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	cache := repository.NewCache(repository.NewCSV(), cacheOpts...)
	return usecase.NewDashboard(cache, d.dataset.Path, engineCfg, opts...), engineCfg, nil
}

// filterConfig holds the facet flags of one-shot commands
type filterConfig struct {
	sources    []string
	severities []string
	statuses   []string
	teams      []string
	repos      []string
}

func (f *filterConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "source",
			Usage:       "Only findings of this source tool (repeatable)",
			Category:    "Filter",
			Destination: &f.sources,
		},
		&cli.StringSliceFlag{
			Name:        "severity",
			Usage:       "Only findings of this severity (repeatable)",
			Category:    "Filter",
			Destination: &f.severities,
		},
		&cli.StringSliceFlag{
			Name:        "status",
			Usage:       "Only findings of this status (repeatable)",
			Category:    "Filter",
			Destination: &f.statuses,
		},
		&cli.StringSliceFlag{
			Name:        "team",
			Usage:       "Only findings assigned to this team (repeatable)",
			Category:    "Filter",
			Destination: &f.teams,
		},
		&cli.StringSliceFlag{
			Name:        "repo",
			Usage:       "Only findings of this repository (repeatable)",
			Category:    "Filter",
			Destination: &f.repos,
		},
	}
}

func (f *filterConfig) FilterSet() model.FilterSet {
	return model.FilterSet{
		Sources:    f.sources,
		Severities: f.severities,
		Statuses:   f.statuses,
		Teams:      f.teams,
		Repos:      f.repos,
	}
}
