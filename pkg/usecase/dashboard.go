package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/interfaces"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// Dashboard binds a dataset source and the engine configuration. Every call
// recomputes its result from the cached table; nothing derived is shared
// between calls.
type Dashboard struct {
	dataset    interfaces.Dataset
	source     string
	config     model.EngineConfig
	registries interfaces.RegistryStore
	notifier   interfaces.Notifier
	now        func() time.Time
}

// DashboardOption is a functional option for configuring Dashboard
type DashboardOption func(*Dashboard)

// WithRegistryStore enables per-session custom charts
func WithRegistryStore(store interfaces.RegistryStore) DashboardOption {
	return func(d *Dashboard) {
		d.registries = store
	}
}

// WithNotifier enables operator notifications
func WithNotifier(n interfaces.Notifier) DashboardOption {
	return func(d *Dashboard) {
		d.notifier = n
	}
}

// WithClock replaces the clock used for ages
func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) {
		d.now = now
	}
}

// NewDashboard creates a new Dashboard instance
func NewDashboard(dataset interfaces.Dataset, source string, config model.EngineConfig, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		dataset: dataset,
		source:  source,
		config:  config,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ DashboardUseCase = (*Dashboard)(nil)

// Source returns the dataset source served by the dashboard
func (d *Dashboard) Source() string {
	return d.source
}

// Config returns the engine configuration
func (d *Dashboard) Config() model.EngineConfig {
	return d.config
}

func (d *Dashboard) projectOptions() ProjectOptions {
	return ProjectOptions{
		TopRepos:    d.config.TopRepos,
		Sensitivity: d.config.RiskSensitivity,
	}
}

// Table returns the loaded dataset
func (d *Dashboard) Table(ctx context.Context) (*model.Table, error) {
	table, err := d.dataset.Get(ctx, d.source)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get dataset", goerr.V("source", d.source))
	}
	return table, nil
}

// View returns the findings matching fs
func (d *Dashboard) View(ctx context.Context, fs model.FilterSet) ([]*model.Finding, error) {
	table, err := d.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(table.Findings, fs), nil
}

// FilterOptions lists selectable filter values
func (d *Dashboard) FilterOptions(ctx context.Context) (model.FilterOptions, error) {
	table, err := d.Table(ctx)
	if err != nil {
		return model.FilterOptions{}, err
	}
	return FilterOptions(table), nil
}

// Snapshot computes every builtin view for fs
func (d *Dashboard) Snapshot(ctx context.Context, fs model.FilterSet) (*model.Snapshot, error) {
	table, err := d.Table(ctx)
	if err != nil {
		return nil, err
	}
	view := Filter(table.Findings, fs)

	snapshot := &model.Snapshot{
		Filter:     fs,
		KPI:        ComputeKPIs(view),
		RiskScore:  RiskScore(view, d.config.RiskSensitivity),
		Trend:      TrendComparison(view, d.config.Granularity),
		SLA:        SLACompliance(view, d.config.SLA.Hours()),
		MTTR:       MTTRBySeverity(view),
		Warnings:   len(table.Warnings),
		TotalInSet: table.Len(),
	}

	for _, kind := range types.BuiltinCharts() {
		data, err := ProjectBuiltin(view, kind, d.projectOptions())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to project chart", goerr.V("chart", kind))
		}
		snapshot.Charts = append(snapshot.Charts, data)
	}

	snapshot.Heatmap, err = ProjectHeatmap(view, d.config.Granularity, d.config.HeatmapDimension)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to project heatmap")
	}

	return snapshot, nil
}

// Chart computes one builtin chart for fs
func (d *Dashboard) Chart(ctx context.Context, fs model.FilterSet, kind types.ChartKind) (model.ChartData, error) {
	view, err := d.View(ctx, fs)
	if err != nil {
		return model.ChartData{}, err
	}
	return ProjectBuiltin(view, kind, d.projectOptions())
}

// Heatmap computes the timeline heatmap. Empty granularity or dimension fall
// back to the configured defaults.
func (d *Dashboard) Heatmap(ctx context.Context, fs model.FilterSet, g types.Granularity, dimension types.Field) (model.Heatmap, error) {
	if g == "" {
		g = d.config.Granularity
	}
	if parsed, ok := types.ParseGranularity(g.String()); ok {
		g = parsed
	}
	if dimension == "" {
		dimension = d.config.HeatmapDimension
	}

	view, err := d.View(ctx, fs)
	if err != nil {
		return model.Heatmap{}, err
	}
	return ProjectHeatmap(view, g, dimension)
}

// CustomChart computes a user defined chart for fs
func (d *Dashboard) CustomChart(ctx context.Context, fs model.FilterSet, spec model.ChartSpec) (model.ChartData, error) {
	view, err := d.View(ctx, fs)
	if err != nil {
		return model.ChartData{}, err
	}
	return ProjectCustom(view, spec)
}

// DrillDown narrows the filtered view to the rows behind a chart click
func (d *Dashboard) DrillDown(ctx context.Context, fs model.FilterSet, click *model.ClickContext) (model.DrillDown, error) {
	view, err := d.View(ctx, fs)
	if err != nil {
		return model.DrillDown{}, err
	}
	return ResolveDrillDown(view, click)
}

// Warnings returns the data quality warnings of the loaded dataset
func (d *Dashboard) Warnings(ctx context.Context) ([]model.DataQualityWarning, error) {
	table, err := d.Table(ctx)
	if err != nil {
		return nil, err
	}
	return table.Warnings, nil
}

// Refresh re-reads the dataset. Without invalidate the cached table is
// reused, so a refresh only recomputes. Data quality warnings of a fresh load
// are sent to the notifier when one is configured.
func (d *Dashboard) Refresh(ctx context.Context, invalidate bool) (*model.Table, error) {
	if invalidate {
		d.dataset.Invalidate(d.source)
	}

	table, err := d.Table(ctx)
	if err != nil {
		return nil, err
	}

	if invalidate && d.notifier != nil && len(table.Warnings) > 0 {
		if err := d.notifier.NotifyDataQuality(ctx, d.source, table.Warnings); err != nil {
			// notification failure must not fail the reload
			ctxlog.From(ctx).Warn("failed to notify data quality warnings",
				"error", err,
				"source", d.source)
		}
	}

	return table, nil
}

// NotifyDigest posts a KPI digest of fs to the notifier
func (d *Dashboard) NotifyDigest(ctx context.Context, fs model.FilterSet) error {
	if d.notifier == nil {
		return goerr.New("notifier is not configured")
	}
	snapshot, err := d.Snapshot(ctx, fs)
	if err != nil {
		return err
	}
	if err := d.notifier.NotifyDigest(ctx, d.source, snapshot); err != nil {
		return goerr.Wrap(err, "failed to notify digest")
	}
	return nil
}

// OpenFindingAges returns the age in hours of every open finding in the filtered view, oldest first
func (d *Dashboard) OpenFindingAges(ctx context.Context, fs model.FilterSet) ([]float64, error) {
	view, err := d.View(ctx, fs)
	if err != nil {
		return nil, err
	}
	now := d.now()
	ages := make([]float64, 0, len(view))
	for _, f := range view {
		if f.IsOpen() {
			ages = append(ages, AgeHours(f, now))
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ages)))
	return ages, nil
}
