package model

import (
	"fmt"
	"log/slog"
)

// WarningKind classifies a data quality issue
type WarningKind string

const (
	WarningUnrecognizedSeverity WarningKind = "unrecognized_severity"
	WarningUnrecognizedStatus   WarningKind = "unrecognized_status"
	WarningNegativeMTTR         WarningKind = "negative_mttr"
	WarningNullField            WarningKind = "null_field"
	WarningInvalidToolURL       WarningKind = "invalid_tool_url"
)

// DataQualityWarning is a non-fatal defect found while loading. Affected rows
// stay in the table; the warning makes them visible to an operator.
type DataQualityWarning struct {
	Kind   WarningKind `json:"kind"`
	Field  string      `json:"field"`
	Count  int         `json:"count"`
	Values []string    `json:"values,omitempty"`
	Rows   []int       `json:"rows,omitempty"`
}

// Message returns a one-line description
func (w DataQualityWarning) Message() string {
	switch w.Kind {
	case WarningUnrecognizedSeverity:
		return fmt.Sprintf("Invalid severity values: %v (%d rows)", w.Values, w.Count)
	case WarningUnrecognizedStatus:
		return fmt.Sprintf("Invalid status values: %v (%d rows)", w.Values, w.Count)
	case WarningNegativeMTTR:
		return fmt.Sprintf("Found %d negative MTTR values", w.Count)
	case WarningNullField:
		return fmt.Sprintf("Found %d null values in '%s'", w.Count, w.Field)
	case WarningInvalidToolURL:
		return fmt.Sprintf("Dropped %d invalid tool URLs", w.Count)
	default:
		return fmt.Sprintf("%s in '%s' (%d rows)", w.Kind, w.Field, w.Count)
	}
}

// LogValue returns structured log value
func (w DataQualityWarning) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", string(w.Kind)),
		slog.String("field", w.Field),
		slog.Int("count", w.Count),
		slog.Any("values", w.Values),
	)
}
