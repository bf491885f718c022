package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	graphqlCtrl "github.com/secmon-lab/insights/pkg/controller/graphql"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/service/chart"
	"github.com/secmon-lab/insights/pkg/usecase"
	"github.com/secmon-lab/insights/pkg/utils/apperr"
)

const defaultTitle = "Security Insights Center"

// Server represents the HTTP server
type Server struct {
	*http.Server
	router     chi.Router
	dashboard  usecase.DashboardUseCase
	renderer   *chart.Renderer
	metrics    *Metrics
	title      string
	assetsHost string
	slackCmd   http.HandlerFunc
}

// Option is a functional option for configuring Server
type Option func(*Server)

// WithMetrics enables request instrumentation and the /metrics endpoint
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTitle sets the dashboard page title
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithAssetsHost sets where the browser loads echarts.min.js from
func WithAssetsHost(host string) Option {
	return func(s *Server) {
		s.assetsHost = host
	}
}

// WithRenderer replaces the chart renderer of the HTML dashboard
func WithRenderer(r *chart.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

// WithSlackCommand mounts the Slack slash command endpoint
func WithSlackCommand(h http.HandlerFunc) Option {
	return func(s *Server) {
		s.slackCmd = h
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, dashboard usecase.DashboardUseCase, opts ...Option) (*Server, error) {
	router := chi.NewRouter()
	server := &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router:     router,
		dashboard:  dashboard,
		renderer:   chart.New(),
		title:      defaultTitle,
		assetsHost: chart.DefaultAssetsHost,
	}
	for _, opt := range opts {
		opt(server)
	}

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	if server.metrics != nil {
		router.Use(server.metrics.Middleware)
	}
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/options", server.handleOptions)
		r.Get("/snapshot", server.handleSnapshot)
		r.Get("/charts/{kind}", server.handleChart)
		r.Get("/heatmap", server.handleHeatmap)
		r.Get("/drilldown", server.handleDrillDown)
		r.Get("/warnings", server.handleWarnings)
		r.Post("/reload", server.handleReload)

		r.Route("/custom-charts", func(r chi.Router) {
			r.Get("/", server.handleListCustomCharts)
			r.Post("/", server.handleAddCustomChart)
			r.Delete("/{id}", server.handleRemoveCustomChart)
		})
	})

	// GraphQL endpoint
	graphqlHandler, err := createGraphQLHandler(dashboard)
	if err != nil {
		return nil, err
	}
	router.Handle("/graphql", graphqlHandler)

	// Slack webhook routes
	if server.slackCmd != nil {
		router.Route("/hooks/slack", func(r chi.Router) {
			r.Post("/command", server.slackCmd)
		})
	}

	if server.metrics != nil {
		router.Handle("/metrics", server.metrics.Handler())
	}

	// HTML dashboard
	router.Get("/", server.handleDashboard)

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "insights",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}

// createGraphQLHandler creates a GraphQL handler over the dashboard
func createGraphQLHandler(dashboard usecase.DashboardUseCase) (http.Handler, error) {
	schema, err := graphqlCtrl.NewSchema(dashboard)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create graphql handler")
	}
	return graphqlCtrl.NewHandler(schema), nil
}

// errorStatus maps an application error to its HTTP status
func errorStatus(err error) int {
	switch {
	case goerr.HasTag(err, model.ErrTagInvalidField):
		return http.StatusBadRequest
	case goerr.HasTag(err, model.ErrTagUnknownChart):
		return http.StatusNotFound
	case model.IsDataLoadError(err), goerr.HasTag(err, model.ErrTagMissingColumn):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleError logs server side failures and writes the mapped status
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
	} else {
		ctxlog.From(r.Context()).Debug("request rejected", "error", err, "status", status)
	}
	writeError(w, err, status)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		// Can't get context here, so use background context
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", err)
	}
}

// writeJSON writes v with the given status
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}
