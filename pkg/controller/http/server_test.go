package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/insights/pkg/controller/http"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
	"github.com/secmon-lab/insights/pkg/repository"
	"github.com/secmon-lab/insights/pkg/usecase"
)

const header = "Source,Category,Severity,Status,Assigned_Team,Repo/Account,Opened_At,MTTR_Hours,tool_url"

var rows = []string{
	"Snyk,Dependency,Critical,Open,platform,api,2024-01-01 09:00:00,12,https://snyk.io/1",
	"Snyk,Dependency,High,Closed,platform,api,2024-01-02 09:00:00,30,",
	"Trivy,Container,Critical,In Progress,web,frontend,2024-01-09 09:00:00,48,",
	"Trivy,Container,Low,Open,web,frontend,2024-01-10 09:00:00,200,",
	"GuardDuty,Cloud,Medium,Closed,security,aws-prod,2024-01-10 12:00:00,100,",
}

func writeCSV(t *testing.T, path string, lines ...string) {
	t.Helper()
	content := header + "\n" + strings.Join(lines, "\n") + "\n"
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
}

type testServer struct {
	server  *controller.Server
	metrics *controller.Metrics
	path    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "findings.csv")
	writeCSV(t, path, rows...)
	return newTestServerFor(t, path)
}

func newTestServerFor(t *testing.T, path string) *testServer {
	t.Helper()
	ctx := ctxlog.With(context.Background(), slog.New(slog.NewTextHandler(os.Stdout, nil)))

	metrics := controller.NewMetrics()
	dataset := repository.NewCache(repository.NewCSV(), repository.WithLoadObserver(metrics.ObserveLoad))
	dashboard := usecase.NewDashboard(dataset, path, model.DefaultEngineConfig(),
		usecase.WithRegistryStore(repository.NewRegistryStore()),
	)

	server, err := controller.NewServer(ctx, ":0", dashboard, controller.WithMetrics(metrics))
	gt.NoError(t, err).Required()
	return &testServer{server: server, metrics: metrics, path: path}
}

func (s *testServer) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.server.Server.Handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), v)).Required()
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == controller.SessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie was not issued")
	return nil
}

func TestServerHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", "")

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Body.String()).Contains("healthy")
	gt.S(t, w.Body.String()).Contains("insights")
}

func TestOptionsAndSnapshot(t *testing.T) {
	s := newTestServer(t)

	t.Run("filter options", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/options", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var opts model.FilterOptions
		decode(t, w, &opts)
		gt.A(t, opts.Sources).Equal([]string{"GuardDuty", "Snyk", "Trivy"})
		gt.A(t, opts.Teams).Equal([]string{"platform", "security", "web"})
	})

	t.Run("snapshot of repeated facets", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/snapshot?source=Snyk&source=GuardDuty", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var snapshot model.Snapshot
		decode(t, w, &snapshot)
		gt.Equal(t, snapshot.KPI.Total, 3)
		gt.Equal(t, snapshot.TotalInSet, 5)
		gt.A(t, snapshot.Filter.Sources).Equal([]string{"Snyk", "GuardDuty"})
	})

	t.Run("unmatched filter is empty, not an error", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/snapshot?team=nobody", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var snapshot model.Snapshot
		decode(t, w, &snapshot)
		gt.Equal(t, snapshot.KPI.Total, 0)
	})
}

func TestChartEndpoint(t *testing.T) {
	s := newTestServer(t)

	t.Run("builtin chart", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/charts/severity?status=Open", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var data model.ChartData
		decode(t, w, &data)
		gt.Equal(t, data.Kind, types.ChartSeverity)
		gt.Equal(t, data.CountOf("Critical"), 1.0)
		gt.Equal(t, data.CountOf("Low"), 1.0)
	})

	t.Run("unknown chart", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/charts/nope", "")
		gt.Equal(t, w.Code, http.StatusNotFound)
		gt.S(t, w.Body.String()).Contains("error")
	})

	t.Run("heatmap through the chart route", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/charts/heatmap?granularity=day&dimension=Source", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var hm model.Heatmap
		decode(t, w, &hm)
		gt.A(t, hm.Rows).Equal([]string{"GuardDuty", "Snyk", "Trivy"})
	})
}

func TestHeatmapEndpoint(t *testing.T) {
	s := newTestServer(t)

	t.Run("configured defaults", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/heatmap", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var hm model.Heatmap
		decode(t, w, &hm)
		gt.Equal(t, hm.Granularity, types.GranularityWeek)
		gt.Equal(t, hm.Dimension, types.FieldRepo)
		gt.Equal(t, hm.Cell("api", hm.Columns[0]), 2)
	})

	t.Run("invalid dimension", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/heatmap?dimension=MTTR_Hours", "")
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})
}

func TestDrillDownEndpoint(t *testing.T) {
	s := newTestServer(t)

	type response struct {
		Description string `json:"description"`
		Narrowed    bool   `json:"narrowed"`
		Count       int    `json:"count"`
		Findings    []struct {
			Source   string `json:"source"`
			Severity string `json:"severity"`
			ToolURL  string `json:"tool_url"`
		} `json:"findings"`
	}

	t.Run("severity click", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/drilldown?chart=severity&label=Critical", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var resp response
		decode(t, w, &resp)
		gt.True(t, resp.Narrowed)
		gt.Equal(t, resp.Count, 2)
		gt.A(t, resp.Findings).Length(2)
		gt.Equal(t, resp.Findings[0].ToolURL, "https://snyk.io/1")
		gt.S(t, resp.Description).Contains("(2 findings)")
	})

	t.Run("click within a filter", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/drilldown?source=Trivy&chart=severity&label=Critical", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var resp response
		decode(t, w, &resp)
		gt.Equal(t, resp.Count, 1)
		gt.Equal(t, resp.Findings[0].Source, "Trivy")
	})

	t.Run("no click", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/drilldown", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var resp response
		decode(t, w, &resp)
		gt.False(t, resp.Narrowed)
		gt.Equal(t, resp.Description, "Showing all 5 findings")
	})

	t.Run("chart without drill-down", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/drilldown?chart=risk&label=x", "")
		gt.Equal(t, w.Code, http.StatusNotFound)
	})
}

func TestCustomChartEndpoints(t *testing.T) {
	s := newTestServer(t)

	type listed struct {
		Spec  model.ChartSpec  `json:"spec"`
		Data  *model.ChartData `json:"data"`
		Error string           `json:"error"`
	}

	w := s.do(t, http.MethodPost, "/api/custom-charts", `{"type":"bar","x":"Source","y":"count","color":"None"}`)
	gt.Equal(t, w.Code, http.StatusCreated)
	cookie := sessionCookie(t, w)

	var spec model.ChartSpec
	decode(t, w, &spec)
	gt.Equal(t, spec.ID, types.ChartID(1))
	gt.Equal(t, spec.Title, "Bar: Source vs count")
	gt.Equal(t, spec.Color, types.Field(""))

	t.Run("categorical y renders on a category axis", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/custom-charts", `{"type":"scatter","x":"Assigned_Team","y":"Source"}`, cookie)
		gt.Equal(t, w.Code, http.StatusCreated)

		w = s.do(t, http.MethodGet, "/api/custom-charts", "", cookie)
		gt.Equal(t, w.Code, http.StatusOK)

		var charts []listed
		decode(t, w, &charts)
		gt.A(t, charts).Length(2)
		gt.V(t, charts[0].Data).NotNil()
		gt.Equal(t, charts[0].Data.CountOf("Snyk"), 2.0)
		gt.Equal(t, charts[1].Error, "")
		gt.V(t, charts[1].Data).NotNil().Required()
		gt.A(t, charts[1].Data.YCategories).Has("Snyk")
		gt.A(t, charts[1].Data.Points).Longer(0)
	})

	t.Run("invalid spec", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/custom-charts", `{"type":"radar","x":"Source","y":"count"}`, cookie)
		gt.Equal(t, w.Code, http.StatusBadRequest)

		w = s.do(t, http.MethodPost, "/api/custom-charts", `{"type":`, cookie)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/custom-charts", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var charts []listed
		decode(t, w, &charts)
		gt.A(t, charts).Length(0)
	})

	t.Run("remove", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/custom-charts/1", "", cookie)
		gt.Equal(t, w.Code, http.StatusNoContent)

		w = s.do(t, http.MethodDelete, "/api/custom-charts/abc", "", cookie)
		gt.Equal(t, w.Code, http.StatusBadRequest)

		w = s.do(t, http.MethodGet, "/api/custom-charts", "", cookie)
		var charts []listed
		decode(t, w, &charts)
		gt.A(t, charts).Length(1)
		gt.Equal(t, charts[0].Spec.ID, types.ChartID(2))
	})
}

func TestReload(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/snapshot", "")
	gt.Equal(t, w.Code, http.StatusOK)

	writeCSV(t, s.path, append(rows, "Snyk,Dependency,Low,Open,platform,api,2024-01-11 09:00:00,-5,")...)

	t.Run("without invalidation the cached table is kept", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/reload?invalidate=false", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var resp struct {
			Rows int `json:"rows"`
		}
		decode(t, w, &resp)
		gt.Equal(t, resp.Rows, 5)
	})

	t.Run("invalidation re-reads the file", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/reload", "")
		gt.Equal(t, w.Code, http.StatusOK)

		var resp struct {
			Rows     int `json:"rows"`
			Warnings int `json:"warnings"`
		}
		decode(t, w, &resp)
		gt.Equal(t, resp.Rows, 6)
		gt.Equal(t, resp.Warnings, 1)

		w = s.do(t, http.MethodGet, "/api/warnings", "")
		var warnings []model.DataQualityWarning
		decode(t, w, &warnings)
		gt.A(t, warnings).Length(1)
		gt.Equal(t, warnings[0].Kind, model.WarningNegativeMTTR)
	})
}

func TestMissingDataset(t *testing.T) {
	s := newTestServerFor(t, filepath.Join(t.TempDir(), "missing.csv"))

	w := s.do(t, http.MethodGet, "/api/snapshot", "")
	gt.Equal(t, w.Code, http.StatusServiceUnavailable)

	w = s.do(t, http.MethodGet, "/", "")
	gt.Equal(t, w.Code, http.StatusServiceUnavailable)
	gt.S(t, w.Body.String()).Contains("Dataset unavailable")
}

func TestDashboardPage(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/custom-charts", `{"type":"pie","x":"Status","y":"count"}`)
	gt.Equal(t, w.Code, http.StatusCreated)
	cookie := sessionCookie(t, w)

	w = s.do(t, http.MethodGet, "/?severity=Critical&severity=High", "", cookie)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Header().Get("Content-Type")).Contains("text/html")

	html := w.Body.String()
	gt.S(t, html).Contains("Security Insights Center")
	gt.S(t, html).Contains("echarts.min.js")
	gt.S(t, html).Contains("chart_severity")
	gt.S(t, html).Contains("chart_heatmap")
	gt.S(t, html).Contains("custom_1")
	gt.S(t, html).Contains("Pie: Status vs count")
	gt.S(t, html).Contains(`value="Critical" selected`)
}

func TestGraphQLRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/graphql", `{"query":"{ snapshot { kpi { total open } } }"}`)

	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains(`"total":5`)
	gt.S(t, w.Body.String()).Contains(`"open":3`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	gt.Equal(t, s.do(t, http.MethodGet, "/api/snapshot", "").Code, http.StatusOK)
	gt.Equal(t, s.do(t, http.MethodGet, "/api/charts/source", "").Code, http.StatusOK)

	w := s.do(t, http.MethodGet, "/metrics", "")
	gt.Equal(t, w.Code, http.StatusOK)

	body := w.Body.String()
	gt.S(t, body).Contains("insights_http_requests_total")
	gt.S(t, body).Contains(`route="/api/charts/{kind}"`)
	gt.S(t, body).Contains("insights_dataset_rows")
	gt.S(t, body).Contains(`outcome="success"`)
}

func TestSlackCommandRoute(t *testing.T) {
	t.Run("not mounted by default", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/hooks/slack/command", "")
		gt.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("mounted with option", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "findings.csv")
		writeCSV(t, path, rows...)
		dashboard := usecase.NewDashboard(repository.NewCache(repository.NewCSV()), path, model.DefaultEngineConfig())

		called := false
		server, err := controller.NewServer(context.Background(), ":0", dashboard,
			controller.WithSlackCommand(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusTeapot)
			}))
		gt.NoError(t, err).Required()

		w := httptest.NewRecorder()
		server.Server.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hooks/slack/command", nil))
		gt.Equal(t, http.StatusTeapot, w.Code)
		gt.True(t, called)
	})
}

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"source":   {"Snyk", "Trivy"},
		"severity": {"Critical"},
		"unknown":  {"x"},
	}
	fs := controller.ParseFilter(q)
	gt.A(t, fs.Sources).Equal([]string{"Snyk", "Trivy"})
	gt.A(t, fs.Severities).Equal([]string{"Critical"})
	gt.A(t, fs.Teams).Length(0)

	gt.V(t, controller.ParseClick(q)).Nil()

	click := controller.ParseClick(url.Values{
		"chart":        {"severity-week"},
		"x":            {"2"},
		"legend_group": {"High"},
	})
	gt.V(t, click).NotNil()
	gt.Equal(t, click.Chart, types.ChartSeverityWeek)
	gt.Equal(t, click.X, "2")
	gt.Equal(t, click.LegendGroup, "High")
}

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid field", goerr.New("bad", goerr.T(model.ErrTagInvalidField)), http.StatusBadRequest},
		{"unknown chart", goerr.New("bad", goerr.T(model.ErrTagUnknownChart)), http.StatusNotFound},
		{"not found", goerr.New("bad", goerr.T(model.ErrTagNotFound)), http.StatusServiceUnavailable},
		{"parse", goerr.Wrap(goerr.New("bad", goerr.T(model.ErrTagParse)), "wrapped"), http.StatusServiceUnavailable},
		{"missing column", goerr.New("bad", goerr.T(model.ErrTagMissingColumn)), http.StatusServiceUnavailable},
		{"other", goerr.New("bad"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, controller.ErrorStatus(tc.err), tc.status)
		})
	}
}
