// Package metrics exposes Prometheus collectors for the audit service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Audit outcome labels.
const (
	OutcomeCompleted   = "completed"
	OutcomeUnreachable = "unreachable"
	OutcomeInvalid     = "invalid_input"
)

var (
	auditsTotal          *prometheus.CounterVec
	auditDurationSeconds prometheus.Histogram
	auditScore           prometheus.Histogram
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors. Safe to call multiple times.
func Init() {
	once.Do(func() {
		auditsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "siteaudit_audits_total",
				Help: "Total number of audit runs, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		auditDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "siteaudit_audit_duration_seconds",
				Help:    "Histogram of end-to-end audit run durations.",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
			},
		)

		auditScore = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "siteaudit_audit_score",
				Help:    "Distribution of computed automation-potential scores.",
				Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler exposing the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAudit records one completed audit run.
func ObserveAudit(outcome string, score int, duration time.Duration) {
	auditsTotal.WithLabelValues(outcome).Inc()
	auditDurationSeconds.Observe(duration.Seconds())
	if outcome == OutcomeCompleted {
		auditScore.Observe(float64(score))
	}
}

// ObserveInvalidInput counts an audit rejected before any network activity.
func ObserveInvalidInput() {
	auditsTotal.WithLabelValues(OutcomeInvalid).Inc()
}

// ObserveHTTPRequest records one API request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
