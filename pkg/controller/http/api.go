package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

// maxBodySize bounds JSON request bodies of the custom chart builder
const maxBodySize = 64 << 10

// parseFilter reads the facet selections from repeated query parameters
func parseFilter(q url.Values) model.FilterSet {
	return model.FilterSet{
		Sources:    q["source"],
		Severities: q["severity"],
		Statuses:   q["status"],
		Teams:      q["team"],
		Repos:      q["repo"],
	}
}

// parseClick reads a drill-down click. Without a chart parameter there is no click.
func parseClick(q url.Values) *model.ClickContext {
	kind := q.Get("chart")
	if kind == "" {
		return nil
	}
	return &model.ClickContext{
		Chart:       types.ChartKind(kind),
		Label:       q.Get("label"),
		X:           q.Get("x"),
		Y:           q.Get("y"),
		LegendGroup: q.Get("legend_group"),
		Dimension:   types.Field(q.Get("dimension")),
		Granularity: types.Granularity(q.Get("granularity")),
	}
}

// findingView is the JSON shape of one finding row
type findingView struct {
	Row        int     `json:"row"`
	Source     string  `json:"source"`
	Category   string  `json:"category"`
	Severity   string  `json:"severity"`
	Status     string  `json:"status"`
	Team       string  `json:"team"`
	Repo       string  `json:"repo"`
	OpenedAt   string  `json:"opened_at"`
	MTTRHours  float64 `json:"mttr_hours"`
	WeekNumber int     `json:"week_number"`
	ToolURL    string  `json:"tool_url,omitempty"`
}

func toFindingViews(findings []*model.Finding) []findingView {
	views := make([]findingView, 0, len(findings))
	for _, f := range findings {
		views = append(views, findingView{
			Row:        f.Row,
			Source:     f.Source,
			Category:   f.Category,
			Severity:   f.Severity.String(),
			Status:     f.Status.String(),
			Team:       f.Team,
			Repo:       f.Repo,
			OpenedAt:   f.OpenedAt.Format("2006-01-02 15:04"),
			MTTRHours:  f.MTTRHours,
			WeekNumber: f.WeekNumber,
			ToolURL:    f.ToolURL,
		})
	}
	return views
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dashboard.FilterOptions(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, opts)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.dashboard.Snapshot(r.Context(), parseFilter(r.URL.Query()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snapshot)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := types.ChartKind(chi.URLParam(r, "kind"))
	if kind == types.ChartHeatmap {
		s.handleHeatmap(w, r)
		return
	}
	data, err := s.dashboard.Chart(r.Context(), parseFilter(r.URL.Query()), kind)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, data)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hm, err := s.dashboard.Heatmap(r.Context(), parseFilter(q),
		types.Granularity(q.Get("granularity")),
		types.Field(q.Get("dimension")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, hm)
}

func (s *Server) handleDrillDown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := s.dashboard.DrillDown(r.Context(), parseFilter(q), parseClick(q))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"description": result.Description,
		"narrowed":    result.Narrowed,
		"count":       result.Count(),
		"click":       result.Click,
		"findings":    toFindingViews(result.Findings),
	})
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := s.dashboard.Warnings(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if warnings == nil {
		warnings = []model.DataQualityWarning{}
	}
	writeJSON(w, r, http.StatusOK, warnings)
}

// handleReload re-reads the dataset. ?invalidate=false only recomputes from the cached table.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	invalidate := r.URL.Query().Get("invalidate") != "false"
	table, err := s.dashboard.Refresh(r.Context(), invalidate)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.SetDataset(table)
	}

	ctxlog.From(r.Context()).Info("dataset reloaded",
		"source", table.Source,
		"rows", table.Len(),
		"warnings", len(table.Warnings),
		"invalidate", invalidate,
	)
	writeJSON(w, r, http.StatusOK, map[string]any{
		"source":    table.Source,
		"rows":      table.Len(),
		"warnings":  len(table.Warnings),
		"loaded_at": table.LoadedAt.Format(time.RFC3339),
	})
}

// customChartView is one custom chart with its data or the reason it could not be computed
type customChartView struct {
	Spec  model.ChartSpec  `json:"spec"`
	Data  *model.ChartData `json:"data,omitempty"`
	Error string           `json:"error,omitempty"`
}

func (s *Server) handleListCustomCharts(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)
	results, err := s.dashboard.RenderCustomCharts(r.Context(), sid, parseFilter(r.URL.Query()))
	if err != nil {
		handleError(w, r, err)
		return
	}

	views := make([]customChartView, 0, len(results))
	for _, res := range results {
		view := customChartView{Spec: res.Spec}
		if res.Err != nil {
			view.Error = res.Err.Error()
		} else {
			data := res.Data
			view.Data = &data
		}
		views = append(views, view)
	}
	writeJSON(w, r, http.StatusOK, views)
}

// customChartRequest is the chart builder form
type customChartRequest struct {
	Type  string `json:"type"`
	X     string `json:"x"`
	Y     string `json:"y"`
	Color string `json:"color"`
}

func (s *Server) handleAddCustomChart(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)

	var req customChartRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	spec, err := s.dashboard.AddCustomChart(r.Context(), sid, model.ChartSpec{
		Type:  types.ChartType(req.Type),
		X:     types.Field(req.X),
		Y:     types.Field(req.Y),
		Color: types.Field(req.Color),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, spec)
}

func (s *Server) handleRemoveCustomChart(w http.ResponseWriter, r *http.Request) {
	sid := s.session(w, r)

	id, ok := types.ParseChartID(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, goerr.New("invalid chart id", goerr.V("id", chi.URLParam(r, "id"))), http.StatusBadRequest)
		return
	}
	if err := s.dashboard.RemoveCustomChart(r.Context(), sid, id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
