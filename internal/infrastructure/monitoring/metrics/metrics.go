// Package metrics exposes prometheus instrumentation for model builds and
// the browse API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the application registers.
type Metrics struct {
	registry *prometheus.Registry

	recordsProcessed *prometheus.CounterVec
	recordsRejected  *prometheus.CounterVec
	buildDuration    prometheus.Histogram
	buildsTotal      *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		recordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cobrababel_records_processed_total",
			Help: "Source records accepted into a universal model.",
		}, []string{"source", "kind"}),
		recordsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cobrababel_records_rejected_total",
			Help: "Source records skipped during a build.",
		}, []string{"source", "kind", "reason"}),
		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cobrababel_build_duration_seconds",
			Help:    "Wall-clock duration of universal model builds.",
			Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
		}),
		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cobrababel_builds_total",
			Help: "Completed universal model builds.",
		}, []string{"status"}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cobrababel_http_requests_total",
			Help: "HTTP requests served by the browse API.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cobrababel_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
	}
}

// RecordProcessed counts one accepted record.
func (m *Metrics) RecordProcessed(source, kind string) {
	m.recordsProcessed.WithLabelValues(source, kind).Inc()
}

// RecordRejected counts one skipped record.
func (m *Metrics) RecordRejected(source, kind, reason string) {
	m.recordsRejected.WithLabelValues(source, kind, reason).Inc()
}

// ObserveBuild records the outcome and duration of one build.
func (m *Metrics) ObserveBuild(elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.buildsTotal.WithLabelValues(status).Inc()
	if err == nil {
		m.buildDuration.Observe(elapsed.Seconds())
	}
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, statusText(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func statusText(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
