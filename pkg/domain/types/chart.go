package types

import "strings"

// ChartType is the visual form of a custom chart
type ChartType string

const (
	ChartTypeBar     ChartType = "bar"
	ChartTypeLine    ChartType = "line"
	ChartTypePie     ChartType = "pie"
	ChartTypeScatter ChartType = "scatter"
	ChartTypeBox     ChartType = "box"
)

// String returns the string representation
func (c ChartType) String() string {
	return string(c)
}

// IsValid checks if the chart type is supported
func (c ChartType) IsValid() bool {
	switch c {
	case ChartTypeBar, ChartTypeLine, ChartTypePie, ChartTypeScatter, ChartTypeBox:
		return true
	default:
		return false
	}
}

// Title returns the chart type with an upper-case first letter
func (c ChartType) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ChartKind names a builtin dashboard chart. It is also the origin of a drill-down click.
type ChartKind string

const (
	ChartSeverity     ChartKind = "severity"
	ChartTrend        ChartKind = "trend"
	ChartSeverityWeek ChartKind = "severity-week"
	ChartSource       ChartKind = "source"
	ChartCategory     ChartKind = "category"
	ChartRepos        ChartKind = "repos"
	ChartRisk         ChartKind = "risk"
	ChartHeatmap      ChartKind = "heatmap"
)

// BuiltinCharts returns the builtin charts in dashboard display order
func BuiltinCharts() []ChartKind {
	return []ChartKind{
		ChartRisk,
		ChartSeverity,
		ChartTrend,
		ChartSeverityWeek,
		ChartSource,
		ChartCategory,
		ChartRepos,
	}
}

// String returns the string representation
func (k ChartKind) String() string {
	return string(k)
}

// IsValid checks if the chart kind is a known builtin chart
func (k ChartKind) IsValid() bool {
	for _, b := range BuiltinCharts() {
		if b == k {
			return true
		}
	}
	return false
}

// IsDrillable reports whether clicks on the chart narrow the finding table
func (k ChartKind) IsDrillable() bool {
	switch k {
	case ChartSeverity, ChartTrend, ChartSeverityWeek, ChartSource, ChartCategory, ChartRepos, ChartHeatmap:
		return true
	default:
		return false
	}
}
