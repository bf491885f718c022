package usecase

import (
	"context"

	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// DashboardUseCase defines the query interface consumed by the presentation layer
type DashboardUseCase interface {
	// Source returns the dataset source served by the dashboard
	Source() string

	// Config returns the engine configuration
	Config() model.EngineConfig

	// Table returns the loaded dataset
	Table(ctx context.Context) (*model.Table, error)

	// FilterOptions lists selectable filter values
	FilterOptions(ctx context.Context) (model.FilterOptions, error)

	// View returns the findings matching the filter
	View(ctx context.Context, fs model.FilterSet) ([]*model.Finding, error)

	// Snapshot computes every builtin view for the filter
	Snapshot(ctx context.Context, fs model.FilterSet) (*model.Snapshot, error)

	// Chart computes one builtin chart
	Chart(ctx context.Context, fs model.FilterSet, kind types.ChartKind) (model.ChartData, error)

	// Heatmap computes the timeline heatmap
	Heatmap(ctx context.Context, fs model.FilterSet, g types.Granularity, dimension types.Field) (model.Heatmap, error)

	// CustomChart computes a user defined chart
	CustomChart(ctx context.Context, fs model.FilterSet, spec model.ChartSpec) (model.ChartData, error)

	// DrillDown narrows the filtered view to the rows behind a chart click
	DrillDown(ctx context.Context, fs model.FilterSet, click *model.ClickContext) (model.DrillDown, error)

	// Warnings returns the data quality warnings of the dataset
	Warnings(ctx context.Context) ([]model.DataQualityWarning, error)

	// Refresh re-reads the dataset, dropping the cache when invalidate is set
	Refresh(ctx context.Context, invalidate bool) (*model.Table, error)

	// CustomCharts returns the custom charts of a session
	CustomCharts(ctx context.Context, sid types.SessionID) ([]model.ChartSpec, error)

	// AddCustomChart registers a custom chart for a session
	AddCustomChart(ctx context.Context, sid types.SessionID, spec model.ChartSpec) (*model.ChartSpec, error)

	// RemoveCustomChart removes a custom chart of a session
	RemoveCustomChart(ctx context.Context, sid types.SessionID, id types.ChartID) error

	// RenderCustomCharts projects every custom chart of a session
	RenderCustomCharts(ctx context.Context, sid types.SessionID, fs model.FilterSet) ([]CustomChartResult, error)
}

// CustomChartResult is one projected custom chart. Err is set when the chart
// could not be computed; the presentation layer shows it in place of the chart.
type CustomChartResult struct {
	Spec model.ChartSpec
	Data model.ChartData
	Err  error
}
