package model

import (
	"log/slog"

	"github.com/secmon-lab/insights/pkg/domain/types"
)

// FilterSet holds the five facet selections. An empty facet places no
// restriction; facets combine with AND, values within a facet with OR.
type FilterSet struct {
	Sources    []string `json:"source,omitempty"`
	Severities []string `json:"severity,omitempty"`
	Statuses   []string `json:"status,omitempty"`
	Teams      []string `json:"team,omitempty"`
	Repos      []string `json:"repo,omitempty"`
}

// IsEmpty reports whether no facet restricts the view
func (f FilterSet) IsEmpty() bool {
	return len(f.Sources) == 0 && len(f.Severities) == 0 && len(f.Statuses) == 0 &&
		len(f.Teams) == 0 && len(f.Repos) == 0
}

// LogValue returns structured log value
func (f FilterSet) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("source", f.Sources),
		slog.Any("severity", f.Severities),
		slog.Any("status", f.Statuses),
		slog.Any("team", f.Teams),
		slog.Any("repo", f.Repos),
	)
}

// FilterOptions lists selectable values per facet
type FilterOptions struct {
	Sources    []string         `json:"sources"`
	Severities []types.Severity `json:"severities"`
	Statuses   []string         `json:"statuses"`
	Teams      []string         `json:"teams"`
	Repos      []string         `json:"repos"`
}
