package http

import (
	"bytes"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/secmon-lab/insights/pkg/service/chart"
	"github.com/secmon-lab/insights/pkg/utils/apperr"
)

// wideCharts span the full row of the page grid
var wideCharts = map[types.ChartKind]bool{
	types.ChartTrend:   true,
	types.ChartHeatmap: true,
}

// handleDashboard renders the whole dashboard for the filter of the query. A
// chart that cannot be computed is shown as a titled error placeholder; a
// dataset that cannot be loaded leaves the page with a single error panel.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fs := parseFilter(r.URL.Query())
	sid := s.session(w, r)

	page := chart.NewPage(s.title, s.dashboard.Source())
	page.AssetsHost = s.assetsHost
	page.Filter = fs

	status := http.StatusOK
	if err := s.buildPage(r, page, fs); err != nil {
		apperr.Handle(ctx, err)
		status = errorStatus(err)
		page.Sections = []chart.Section{{
			Chart: s.renderer.Error(chart.ElementID("dataset"), "Dataset unavailable", err),
			Wide:  true,
		}}
	}

	results, err := s.dashboard.RenderCustomCharts(ctx, sid, fs)
	if err != nil {
		ctxlog.From(ctx).Warn("failed to render custom charts", "error", err)
	}
	for _, res := range results {
		section := chart.Section{ChartID: res.Spec.ID}
		if res.Err != nil {
			section.Chart = s.renderer.Error(chart.CustomElementID(res.Spec.ID), res.Spec.Title, res.Err)
		} else {
			section.Chart = s.renderer.Custom(res.Data)
		}
		page.Custom = append(page.Custom, section)
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		apperr.Handle(ctx, err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		ctxlog.From(ctx).Error("Failed to write dashboard", "error", err)
	}
}

// buildPage fills the KPI cards and builtin chart sections of page
func (s *Server) buildPage(r *http.Request, page *chart.Page, fs model.FilterSet) error {
	ctx := r.Context()

	table, err := s.dashboard.Table(ctx)
	if err != nil {
		return err
	}
	page.LoadedAt = table.LoadedAt
	page.Warnings = table.Warnings

	if page.Options, err = s.dashboard.FilterOptions(ctx); err != nil {
		return err
	}

	snapshot, err := s.dashboard.Snapshot(ctx, fs)
	if err != nil {
		return err
	}
	page.Cards = chart.SnapshotCards(snapshot)

	for _, kind := range types.BuiltinCharts() {
		data, ok := snapshot.Chart(kind)
		if !ok {
			continue
		}
		page.Sections = append(page.Sections, chart.Section{
			Kind:  kind,
			Chart: s.renderer.Builtin(data),
			Wide:  wideCharts[kind],
		})
	}

	page.Sections = append(page.Sections, chart.Section{
		Kind:        types.ChartHeatmap,
		Chart:       s.renderer.Heatmap(snapshot.Heatmap),
		Dimension:   snapshot.Heatmap.Dimension,
		Granularity: snapshot.Heatmap.Granularity,
		Wide:        wideCharts[types.ChartHeatmap],
	})
	return nil
}
