package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/secmon-lab/insights/pkg/usecase"
)

// Resolver serves the dashboard queries
type Resolver struct {
	dashboard usecase.DashboardUseCase
}

// NewResolver creates a new resolver instance
func NewResolver(dashboard usecase.DashboardUseCase) *Resolver {
	return &Resolver{
		dashboard: dashboard,
	}
}

// FilterOptions resolves the selectable facet values
func (r *Resolver) FilterOptions(p graphql.ResolveParams) (interface{}, error) {
	return r.dashboard.FilterOptions(p.Context)
}

// Snapshot resolves every builtin view of the filter
func (r *Resolver) Snapshot(p graphql.ResolveParams) (interface{}, error) {
	return r.dashboard.Snapshot(p.Context, filterArg(p.Args))
}

// Chart resolves one builtin chart
func (r *Resolver) Chart(p graphql.ResolveParams) (interface{}, error) {
	kind, _ := p.Args["kind"].(string)
	return r.dashboard.Chart(p.Context, filterArg(p.Args), types.ChartKind(kind))
}

// Heatmap resolves the timeline heatmap. Omitted arguments use the configured defaults.
func (r *Resolver) Heatmap(p graphql.ResolveParams) (interface{}, error) {
	g, _ := p.Args["granularity"].(string)
	dimension, _ := p.Args["dimension"].(string)
	return r.dashboard.Heatmap(p.Context, filterArg(p.Args), types.Granularity(g), types.Field(dimension))
}

// DrillDown resolves the findings behind a click
func (r *Resolver) DrillDown(p graphql.ResolveParams) (interface{}, error) {
	result, err := r.dashboard.DrillDown(p.Context, filterArg(p.Args), clickArg(p.Args))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"description": result.Description,
		"narrowed":    result.Narrowed,
		"count":       result.Count(),
		"findings":    findingsToMaps(result.Findings),
	}, nil
}

// Warnings resolves the data quality warnings of the dataset
func (r *Resolver) Warnings(p graphql.ResolveParams) (interface{}, error) {
	warnings, err := r.dashboard.Warnings(p.Context)
	if err != nil {
		return nil, err
	}
	if warnings == nil {
		warnings = []model.DataQualityWarning{}
	}
	return warnings, nil
}
