package model

import (
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// ClickContext identifies the clicked chart and data point. Which of Label, X,
// Y and LegendGroup is meaningful depends on the chart.
type ClickContext struct {
	Chart       types.ChartKind `json:"chart"`
	Label       string          `json:"label,omitempty"`
	X           string          `json:"x,omitempty"`
	Y           string          `json:"y,omitempty"`
	LegendGroup string          `json:"legend_group,omitempty"`

	// Heatmap clicks carry the grid parameters: Label is the row value and X the column label
	Dimension   types.Field       `json:"dimension,omitempty"`
	Granularity types.Granularity `json:"granularity,omitempty"`
}

// DrillDown is the narrowed finding set behind a chart click
type DrillDown struct {
	Findings    []*Finding    `json:"-"`
	Description string        `json:"description"`
	Narrowed    bool          `json:"narrowed"`
	Click       *ClickContext `json:"click,omitempty"`
}

// Count returns the number of findings in the narrowed view
func (d DrillDown) Count() int {
	return len(d.Findings)
}
