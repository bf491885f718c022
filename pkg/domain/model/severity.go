package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// SLAThreshold is the resolution target of one severity
type SLAThreshold struct {
	Severity types.Severity `yaml:"severity"`
	Hours    float64        `yaml:"hours"`
}

// Validate validates the threshold
func (s *SLAThreshold) Validate() error {
	if !s.Severity.IsValid() {
		return goerr.New("SLA severity must be one of Critical, High, Medium, Low",
			goerr.V("severity", s.Severity),
			goerr.T(ErrTagInvalidConfig))
	}
	if s.Hours <= 0 {
		return goerr.New("SLA hours must be positive",
			goerr.V("severity", s.Severity),
			goerr.V("hours", s.Hours),
			goerr.T(ErrTagInvalidConfig))
	}
	return nil
}

// SLAConfig represents the SLA thresholds configuration
type SLAConfig struct {
	Thresholds []SLAThreshold `yaml:"thresholds"`
}

// DefaultSLAConfig returns the default thresholds: 1 day, 3 days, 1 week, 30 days
func DefaultSLAConfig() SLAConfig {
	return SLAConfig{
		Thresholds: []SLAThreshold{
			{Severity: types.SeverityCritical, Hours: 24},
			{Severity: types.SeverityHigh, Hours: 72},
			{Severity: types.SeverityMedium, Hours: 168},
			{Severity: types.SeverityLow, Hours: 720},
		},
	}
}

// Validate validates the SLA configuration
func (c *SLAConfig) Validate() error {
	if len(c.Thresholds) == 0 {
		return goerr.New("at least one SLA threshold is required", goerr.T(ErrTagInvalidConfig))
	}

	seen := make(map[types.Severity]bool)
	for i, th := range c.Thresholds {
		if err := th.Validate(); err != nil {
			return goerr.Wrap(err, "invalid SLA threshold at index",
				goerr.V("index", i),
				goerr.T(ErrTagInvalidConfig))
		}
		if seen[th.Severity] {
			return goerr.New("duplicate SLA severity",
				goerr.V("severity", th.Severity),
				goerr.T(ErrTagInvalidConfig))
		}
		seen[th.Severity] = true
	}

	return nil
}

// Hours returns thresholds keyed by severity
func (c SLAConfig) Hours() map[types.Severity]float64 {
	out := make(map[types.Severity]float64, len(c.Thresholds))
	for _, th := range c.Thresholds {
		out[th.Severity] = th.Hours
	}
	return out
}

// Set overrides or adds the threshold of a severity
func (c *SLAConfig) Set(sev types.Severity, hours float64) {
	for i := range c.Thresholds {
		if c.Thresholds[i].Severity == sev {
			c.Thresholds[i].Hours = hours
			return
		}
	}
	c.Thresholds = append(c.Thresholds, SLAThreshold{Severity: sev, Hours: hours})
}
