package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters exposed on /metrics.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sections prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "naofs_outline_requests_total",
				Help: "Outline requests by response status and outcome",
			},
			[]string{"status", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "naofs_outline_duration_seconds",
				Help:    "Time spent generating an outline",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"outcome"},
		),
		sections: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "naofs_outline_sections",
				Help:    "Top-level sections per generated outline",
				Buckets: prometheus.LinearBuckets(1, 2, 8),
			},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.sections)
	return m
}

func (m *Metrics) observe(status int, outcome string, seconds float64) {
	m.requests.WithLabelValues(statusLabel(status), outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(seconds)
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
