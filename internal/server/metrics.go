package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's prometheus instruments. Each server gets its own
// registry so tests can start several without colliding.
type metrics struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bingwall_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"path", "status"},
		),
		requestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bingwall_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestSeconds)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
