package model

import (
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Snapshot bundles every builtin derived view for one filter set
type Snapshot struct {
	Filter     FilterSet      `json:"filter"`
	KPI        KPI            `json:"kpi"`
	RiskScore  float64        `json:"risk_score"`
	Trend      TrendResult    `json:"trend"`
	SLA        ComplianceMap  `json:"sla"`
	MTTR       []SeverityMTTR `json:"mttr"`
	Charts     []ChartData    `json:"charts"`
	Heatmap    Heatmap        `json:"heatmap"`
	Warnings   int            `json:"warnings"`
	TotalInSet int            `json:"total_in_dataset"`
}

// Chart returns the builtin chart of the given kind
func (s *Snapshot) Chart(kind types.ChartKind) (ChartData, bool) {
	for _, c := range s.Charts {
		if c.Kind == kind {
			return c, true
		}
	}
	return ChartData{}, false
}
