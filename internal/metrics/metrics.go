// Package metrics holds the Prometheus collectors exported on /metrics.
//
// Label sets stay bounded: search outcomes are a fixed enum, HTTP paths are
// chi route patterns rather than raw URLs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes.
const (
	OutcomeSucceeded   = "succeeded"
	OutcomeUnreachable = "unreachable"
	OutcomeFailed      = "request_failed"
	OutcomeRejected    = "rejected"
)

type Metrics struct {
	Searches         *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	UnknownKeys      prometheus.Counter
	BackendAvailable prometheus.Gauge
	HistoryEntries   prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	HTTPInflight prometheus.Gauge
}

// New builds the collectors and registers them on reg. A nil reg leaves them
// unregistered, which tests use to get a private set.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nexus",
				Name:      "searches_total",
				Help:      "Username searches by outcome.",
			},
			[]string{"outcome"},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "nexus",
				Name:      "search_duration_seconds",
				Help:      "Time spent waiting on the lookup backend.",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 30},
			},
		),
		UnknownKeys: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "nexus",
				Name:      "unknown_platform_keys_total",
				Help:      "Backend result keys with no registered platform.",
			},
		),
		BackendAvailable: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "nexus",
				Name:      "backend_available",
				Help:      "1 when the lookup backend is reachable.",
			},
		),
		HistoryEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "nexus",
				Name:      "history_entries",
				Help:      "Entries currently held by the search history.",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_inflight",
				Help: "Current number of in-flight HTTP requests.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.Searches, m.SearchDuration, m.UnknownKeys,
			m.BackendAvailable, m.HistoryEntries,
			m.HTTPRequests, m.HTTPLatency, m.HTTPInflight,
		)
	}
	return m
}

// SetBackendAvailable mirrors the availability flag into the gauge.
func (m *Metrics) SetBackendAvailable(ok bool) {
	if ok {
		m.BackendAvailable.Set(1)
		return
	}
	m.BackendAvailable.Set(0)
}
