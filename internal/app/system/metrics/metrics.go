// Package metrics exposes Prometheus instrumentation for the document API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors recorded by the document service and API
// handlers.
type Metrics struct {
	registry *prometheus.Registry

	// DocumentOps counts document operations by operation name, category
	// tag, and outcome ("ok", "rejected", "error").
	DocumentOps *prometheus.CounterVec

	// UploadBytes observes accepted upload sizes.
	UploadBytes prometheus.Histogram

	// DownloadBytes observes streamed download sizes.
	DownloadBytes prometheus.Histogram

	// RequestDuration observes API request latency by route pattern and
	// status code.
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry, including the
// standard Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "facilidocs",
			Name:      "document_operations_total",
			Help:      "Document operations by operation, category, and outcome.",
		}, []string{"operation", "category", "outcome"}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facilidocs",
			Name:      "upload_bytes",
			Help:      "Accepted upload sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10), // 1KiB .. ~256MiB
		}),
		DownloadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "facilidocs",
			Name:      "download_bytes",
			Help:      "Streamed download sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "facilidocs",
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Handler returns the /metrics scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOp increments the operation counter. Outcome is "ok", "rejected",
// or "error".
func (m *Metrics) RecordOp(operation, category, outcome string) {
	if m == nil {
		return
	}
	m.DocumentOps.WithLabelValues(operation, category, outcome).Inc()
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware instruments request latency. Route is the mount pattern, not
// the raw URL, to keep label cardinality bounded.
func (m *Metrics) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.RequestDuration.
				WithLabelValues(route, strconv.Itoa(rec.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}
