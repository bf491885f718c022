package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/insights/pkg/domain/model"
)

// Metrics holds the Prometheus collectors of the server. Each instance owns
// its registry so several servers can live in one process.
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	datasetRows     *prometheus.GaugeVec
	datasetWarnings *prometheus.GaugeVec
	datasetLoads    *prometheus.CounterVec
	datasetLoadedAt *prometheus.GaugeVec
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "http_requests_total",
			Help:      "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "insights",
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "insights",
			Name:      "dataset_rows",
			Help:      "Number of findings in the loaded dataset.",
		}, []string{"source"}),
		datasetWarnings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "insights",
			Name:      "dataset_warnings",
			Help:      "Number of data quality warnings of the loaded dataset.",
		}, []string{"source"}),
		datasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insights",
			Name:      "dataset_loads_total",
			Help:      "Total dataset loads by outcome.",
		}, []string{"source", "outcome"}),
		datasetLoadedAt: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "insights",
			Name:      "dataset_loaded_timestamp_seconds",
			Help:      "Unix time of the last successful dataset load.",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.datasetRows,
		m.datasetWarnings,
		m.datasetLoads,
		m.datasetLoadedAt,
	)
	return m
}

// Handler serves the scrape endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests by chi route pattern, so path parameters do not
// explode the label space
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveLoad records the outcome of a dataset load. It matches repository.LoadObserver.
func (m *Metrics) ObserveLoad(ctx context.Context, source string, table *model.Table, err error) {
	if err != nil {
		m.datasetLoads.WithLabelValues(source, "failure").Inc()
		return
	}
	m.datasetLoads.WithLabelValues(source, "success").Inc()
	m.SetDataset(table)
}

// SetDataset updates the dataset gauges
func (m *Metrics) SetDataset(table *model.Table) {
	if table == nil {
		return
	}
	m.datasetRows.WithLabelValues(table.Source).Set(float64(table.Len()))
	m.datasetWarnings.WithLabelValues(table.Source).Set(float64(len(table.Warnings)))
	if !table.LoadedAt.IsZero() {
		m.datasetLoadedAt.WithLabelValues(table.Source).Set(float64(table.LoadedAt.Unix()))
	}
}
