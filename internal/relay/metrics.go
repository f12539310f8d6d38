package relay

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks relay-level counters on a private registry so tests can
// run servers side by side without collisions.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	upstreamLatency prometheus.Histogram
}

// NewMetrics creates and registers the relay metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tardis",
			Subsystem: "relay",
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome.",
		}, []string{"outcome"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tardis",
			Subsystem: "relay",
			Name:      "upstream_seconds",
			Help:      "Upstream completion latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
	}

	registry.MustRegister(m.requests, m.upstreamLatency)
	return m
}

// RecordRequest counts one chat request with the given outcome label
// ("ok", "bad_request", or "upstream_error").
func (m *Metrics) RecordRequest(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records one upstream round-trip duration.
func (m *Metrics) ObserveUpstream(seconds float64) {
	m.upstreamLatency.Observe(seconds)
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
