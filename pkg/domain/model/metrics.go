package model

import (
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// KPI holds the headline counters of a view
type KPI struct {
	Total        int     `json:"total"`
	Open         int     `json:"open"`
	CriticalOpen int     `json:"critical_open"`
	AvgMTTR      float64 `json:"avg_mttr"` // mean over every row in view, not only Closed ones
}

// TrendResult compares the two most recent populated time buckets
type TrendResult struct {
	Current  int     `json:"current"`
	Previous int     `json:"previous"`
	Delta    int     `json:"delta"`
	DeltaPct float64 `json:"delta_pct"`
}

// SLACompliance is the compliance rate of one severity bucket
type SLACompliance struct {
	Severity       types.Severity `json:"severity"`
	ThresholdHours float64        `json:"threshold_hours"`
	Total          int            `json:"total"`
	Compliant      int            `json:"compliant"`
	Percent        float64        `json:"percent"`
}

// ComplianceMap holds SLA compliance per severity in canonical order
type ComplianceMap struct {
	Entries []SLACompliance `json:"entries"`
}

// Percent returns the compliance percentage of a severity, 0 if absent
func (c ComplianceMap) Percent(sev types.Severity) float64 {
	for _, e := range c.Entries {
		if e.Severity == sev {
			return e.Percent
		}
	}
	return 0
}

// SeverityMTTR is the mean resolution time of one severity bucket
type SeverityMTTR struct {
	Severity types.Severity `json:"severity"`
	Count    int            `json:"count"`
	MeanMTTR float64        `json:"mean_mttr"`
}
