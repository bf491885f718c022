package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// engineFile is the YAML layout of an engine config file. Omitted keys keep
// their defaults; SLA thresholds are merged per severity.
type engineFile struct {
	SLA struct {
		Thresholds []model.SLAThreshold `yaml:"thresholds"`
	} `yaml:"sla"`
	RiskSensitivity  float64 `yaml:"risk_sensitivity"`
	Granularity      string  `yaml:"granularity"`
	HeatmapDimension string  `yaml:"heatmap_dimension"`
	TopRepos         int     `yaml:"top_repos"`
}

// LoadEngineFromFile loads engine parameters from a YAML file on top of the defaults
func LoadEngineFromFile(path string) (model.EngineConfig, error) {
	cfg := model.DefaultEngineConfig()
	if path == "" {
		return cfg, goerr.New("configuration file path is required")
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, goerr.Wrap(err, "configuration file not found",
				goerr.V("path", path))
		}
		return cfg, goerr.Wrap(err, "failed to read configuration file",
			goerr.V("path", path))
	}

	// Parse YAML
	var file engineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, goerr.Wrap(err, "failed to parse YAML configuration",
			goerr.V("path", path),
			goerr.T(model.ErrTagInvalidConfig))
	}

	if err := file.apply(&cfg); err != nil {
		return cfg, goerr.Wrap(err, "invalid configuration", goerr.V("path", path))
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return cfg, goerr.Wrap(err, "invalid configuration",
			goerr.V("path", path))
	}

	return cfg, nil
}

func (f *engineFile) apply(cfg *model.EngineConfig) error {
	for _, th := range f.SLA.Thresholds {
		sev, ok := types.ParseSeverity(th.Severity.String())
		if !ok {
			return goerr.New("unknown SLA severity",
				goerr.V("severity", th.Severity),
				goerr.T(model.ErrTagInvalidConfig))
		}
		cfg.SLA.Set(sev, th.Hours)
	}
	if f.RiskSensitivity != 0 {
		cfg.RiskSensitivity = f.RiskSensitivity
	}
	if f.Granularity != "" {
		g, ok := types.ParseGranularity(f.Granularity)
		if !ok {
			return goerr.New("unknown granularity",
				goerr.V("granularity", f.Granularity),
				goerr.T(model.ErrTagInvalidConfig))
		}
		cfg.Granularity = g
	}
	if f.HeatmapDimension != "" {
		cfg.HeatmapDimension = types.Field(f.HeatmapDimension)
	}
	if f.TopRepos != 0 {
		cfg.TopRepos = f.TopRepos
	}
	return nil
}

// Engine holds analytics engine configuration. Flags left at their zero value
// keep the file or default setting.
type Engine struct {
	File             string
	Granularity      string
	HeatmapDimension string
	TopRepos         int
	RiskSensitivity  float64
	SLACritical      float64
	SLAHigh          float64
	SLAMedium        float64
	SLALow           float64
}

// Flags returns CLI flags for Engine configuration
func (e *Engine) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "engine-config",
			Usage:       "Path of a YAML file with engine parameters",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_ENGINE_CONFIG"),
			Destination: &e.File,
		},
		&cli.StringFlag{
			Name:        "granularity",
			Usage:       "Default time bucket of trend and heatmap (day, week, month)",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_GRANULARITY"),
			Destination: &e.Granularity,
		},
		&cli.StringFlag{
			Name:        "heatmap-dimension",
			Usage:       "Default row dimension of the heatmap (e.g. Repo, Assigned_Team)",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_HEATMAP_DIMENSION"),
			Destination: &e.HeatmapDimension,
		},
		&cli.IntFlag{
			Name:        "top-repos",
			Usage:       "Number of repositories in the top repositories chart",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_TOP_REPOS"),
			Destination: &e.TopRepos,
		},
		&cli.FloatFlag{
			Name:        "risk-sensitivity",
			Usage:       "Divisor of the saturating risk score curve",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_RISK_SENSITIVITY"),
			Destination: &e.RiskSensitivity,
		},
		&cli.FloatFlag{
			Name:        "sla-critical",
			Usage:       "SLA hours of Critical findings",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_SLA_HOURS_CRITICAL"),
			Destination: &e.SLACritical,
		},
		&cli.FloatFlag{
			Name:        "sla-high",
			Usage:       "SLA hours of High findings",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_SLA_HOURS_HIGH"),
			Destination: &e.SLAHigh,
		},
		&cli.FloatFlag{
			Name:        "sla-medium",
			Usage:       "SLA hours of Medium findings",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_SLA_HOURS_MEDIUM"),
			Destination: &e.SLAMedium,
		},
		&cli.FloatFlag{
			Name:        "sla-low",
			Usage:       "SLA hours of Low findings",
			Category:    "Engine",
			Sources:     cli.EnvVars("INSIGHTS_SLA_HOURS_LOW"),
			Destination: &e.SLALow,
		},
	}
}

// Configure builds the engine configuration: defaults, then the config file, then flags
func (e *Engine) Configure() (model.EngineConfig, error) {
	cfg := model.DefaultEngineConfig()
	if e.File != "" {
		loaded, err := LoadEngineFromFile(e.File)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	override := engineFile{
		RiskSensitivity:  e.RiskSensitivity,
		Granularity:      e.Granularity,
		HeatmapDimension: e.HeatmapDimension,
		TopRepos:         e.TopRepos,
	}
	for sev, hours := range map[types.Severity]float64{
		types.SeverityCritical: e.SLACritical,
		types.SeverityHigh:     e.SLAHigh,
		types.SeverityMedium:   e.SLAMedium,
		types.SeverityLow:      e.SLALow,
	} {
		if hours != 0 {
			override.SLA.Thresholds = append(override.SLA.Thresholds,
				model.SLAThreshold{Severity: sev, Hours: hours})
		}
	}
	if err := override.apply(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LogValue returns structured log value
func (e Engine) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", e.File),
		slog.String("granularity", e.Granularity),
		slog.String("heatmap_dimension", e.HeatmapDimension),
		slog.Int("top_repos", e.TopRepos),
		slog.Float64("risk_sensitivity", e.RiskSensitivity),
	)
}
