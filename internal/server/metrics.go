package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics owns a private registry so handlers can be constructed repeatedly
// (e.g. in tests) without duplicate-registration panics.
type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heloc",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "API requests by endpoint and status code.",
	}, []string{"endpoint", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "heloc",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request latency by endpoint.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	registry.MustRegister(requests, duration)
	return &metrics{registry: registry, requests: requests, duration: duration}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observe(endpoint string, status int, seconds float64) {
	m.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(endpoint).Observe(seconds)
}
