package chart

import (
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Theme holds the colors of the dark dashboard
type Theme struct {
	Background string
	Card       string
	Border     string
	Accent     string
	AccentSoft string
	Text       string
	TextMuted  string
	TextDim    string
	Grid       string
	Success    string
	Warning    string
	Danger     string
	Info       string
}

// DefaultTheme returns the dashboard theme
func DefaultTheme() Theme {
	return Theme{
		Background: "#050506",
		Card:       "#0E0F14",
		Border:     "#5E5CE6",
		Accent:     "#00AEEF",
		AccentSoft: "#6A5ACD",
		Text:       "#E5E5F0",
		TextMuted:  "#A0A0B0",
		TextDim:    "#6B7280",
		Grid:       "#1F2030",
		Success:    "#10B981",
		Warning:    "#F59E0B",
		Danger:     "#EF4444",
		Info:       "#3B82F6",
	}
}

// SeverityColor returns the color of a severity series. Unrecognized
// severities use the dim text color.
func (t Theme) SeverityColor(sev types.Severity) string {
	switch sev {
	case types.SeverityCritical:
		return t.Danger
	case types.SeverityHigh:
		return t.Warning
	case types.SeverityMedium:
		return t.Info
	case types.SeverityLow:
		return t.Success
	default:
		return t.TextDim
	}
}

// StatusColor returns the color of a status series
func (t Theme) StatusColor(status types.Status) string {
	switch status {
	case types.StatusOpen:
		return t.Danger
	case types.StatusInProgress:
		return t.Warning
	case types.StatusClosed:
		return t.Success
	default:
		return t.TextDim
	}
}

// seriesColor picks a fixed color for severity and status groups, empty otherwise
func (t Theme) seriesColor(field types.Field, name string) string {
	switch field {
	case types.FieldSeverity:
		return t.SeverityColor(types.Severity(name))
	case types.FieldStatus:
		return t.StatusColor(types.Status(name))
	default:
		return ""
	}
}

// Options provides themed go-echarts options shared by every chart
type Options struct {
	theme Theme
}

// NewOptions creates themed chart options
func NewOptions(theme Theme) *Options {
	return &Options{theme: theme}
}

// DefaultOptions returns options for the default theme
func DefaultOptions() *Options {
	return NewOptions(DefaultTheme())
}

// Theme returns the underlying theme
func (o *Options) Theme() Theme {
	return o.theme
}

// Init returns initialization options with the card background
func (o *Options) Init(height string) opts.Initialization {
	return opts.Initialization{
		Width:           "100%",
		Height:          height,
		BackgroundColor: o.theme.Card,
		Theme:           "dark",
	}
}

// Title returns title options
func (o *Options) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: o.theme.Text},
		SubtitleStyle: &opts.TextStyle{Color: o.theme.TextMuted},
	}
}

// Legend returns legend options
func (o *Options) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Type:      "scroll",
		Top:       "12%",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: o.theme.TextMuted},
	}
}

// XAxis returns category x-axis options
func (o *Options) XAxis(name string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: o.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: o.theme.TextDim}},
	}
}

// YAxis returns value y-axis options
func (o *Options) YAxis(name string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		AxisLabel: &opts.AxisLabel{Color: o.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: o.theme.TextDim}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: o.theme.Grid},
		},
	}
}

// Grid returns grid options leaving room for title and legend
func (o *Options) Grid() opts.Grid {
	return opts.Grid{
		Top:          "22%",
		Bottom:       "12%",
		Left:         "4%",
		Right:        "4%",
		ContainLabel: opts.Bool(true),
	}
}

// Tooltip returns tooltip options
func (o *Options) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}
