package model

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

const (
	// DefaultRiskSensitivity is the divisor of the saturating risk curve.
	// A raw weight equal to it scores about 63.
	DefaultRiskSensitivity = 50.0

	// DefaultTopRepos is how many repositories the top-N chart shows
	DefaultTopRepos = 10
)

// EngineConfig holds the tunable parameters of the analytics engine
type EngineConfig struct {
	SLA              SLAConfig         `yaml:"sla"`
	RiskSensitivity  float64           `yaml:"risk_sensitivity"`
	Granularity      types.Granularity `yaml:"granularity"`
	HeatmapDimension types.Field       `yaml:"heatmap_dimension"`
	TopRepos         int               `yaml:"top_repos"`
}

// DefaultEngineConfig returns the engine defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SLA:              DefaultSLAConfig(),
		RiskSensitivity:  DefaultRiskSensitivity,
		Granularity:      types.GranularityWeek,
		HeatmapDimension: types.FieldRepo,
		TopRepos:         DefaultTopRepos,
	}
}

// Validate validates the entire configuration
func (c *EngineConfig) Validate() error {
	if err := c.SLA.Validate(); err != nil {
		return goerr.Wrap(err, "invalid SLA configuration", goerr.T(ErrTagInvalidConfig))
	}
	if c.RiskSensitivity <= 0 {
		return goerr.New("risk sensitivity must be positive",
			goerr.V("risk_sensitivity", c.RiskSensitivity),
			goerr.T(ErrTagInvalidConfig))
	}
	if !c.Granularity.IsValid() {
		return goerr.New("invalid granularity",
			goerr.V("granularity", c.Granularity),
			goerr.T(ErrTagInvalidConfig))
	}
	if !c.HeatmapDimension.IsValid() || c.HeatmapDimension.Numeric() || c.HeatmapDimension == types.FieldOpenedAt {
		return goerr.New("heatmap dimension must be a categorical column",
			goerr.V("heatmap_dimension", c.HeatmapDimension),
			goerr.T(ErrTagInvalidConfig))
	}
	if c.TopRepos <= 0 {
		return goerr.New("top repos must be positive",
			goerr.V("top_repos", c.TopRepos),
			goerr.T(ErrTagInvalidConfig))
	}
	return nil
}

// LogValue returns structured log value
func (c EngineConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("sla", c.SLA.Hours()),
		slog.Float64("risk_sensitivity", c.RiskSensitivity),
		slog.String("granularity", c.Granularity.String()),
		slog.String("heatmap_dimension", c.HeatmapDimension.String()),
		slog.Int("top_repos", c.TopRepos),
	)
}
