package model

import (
	"time"

	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Finding is one row of the dataset. It is never modified after loading.
type Finding struct {
	Row        int // 1-based data row in the source, header excluded
	Source     string
	Category   string
	Severity   types.Severity
	Status     types.Status
	Team       string
	Repo       string
	OpenedAt   time.Time // UTC
	MTTRHours  float64
	ToolURL    string // empty when absent or invalid
	WeekNumber int    // ISO week of OpenedAt
}

// IsOpen reports whether the finding counts as open workload
func (f *Finding) IsOpen() bool {
	return f.Status.IsOpen()
}

// ViewLink returns the external reference link for table display, or empty
func (f *Finding) ViewLink() string {
	if f.ToolURL == "" {
		return ""
	}
	return "[View](" + f.ToolURL + ")"
}

// OpenedDate returns the calendar date of OpenedAt formatted as YYYY-MM-DD
func (f *Finding) OpenedDate() string {
	return f.OpenedAt.Format("2006-01-02")
}

// AgeHours returns how many hours the finding has been open as of now
func (f *Finding) AgeHours(now time.Time) float64 {
	return now.Sub(f.OpenedAt).Hours()
}

// Value returns the display value of a field for grouping
func (f *Finding) Value(field types.Field) string {
	switch field {
	case types.FieldSource:
		return f.Source
	case types.FieldCategory:
		return f.Category
	case types.FieldSeverity:
		return f.Severity.String()
	case types.FieldStatus:
		return f.Status.String()
	case types.FieldTeam:
		return f.Team
	case types.FieldRepo:
		return f.Repo
	case types.FieldOpenedAt:
		return f.OpenedAt.Format("2006-01-02 15:04")
	case types.FieldMTTRHours:
		return formatNumber(f.MTTRHours)
	case types.FieldWeekNumber:
		return formatNumber(float64(f.WeekNumber))
	case types.FieldToolURL:
		return f.ToolURL
	default:
		return ""
	}
}

// Number returns the numeric value of a numeric field
func (f *Finding) Number(field types.Field) (float64, bool) {
	switch field {
	case types.FieldMTTRHours:
		return f.MTTRHours, true
	case types.FieldWeekNumber:
		return float64(f.WeekNumber), true
	default:
		return 0, false
	}
}

// Table is a loaded dataset
type Table struct {
	Source   string
	Findings []*Finding
	Warnings []DataQualityWarning
	LoadedAt time.Time
}

// Len returns the number of findings
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Findings)
}
