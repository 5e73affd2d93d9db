// Package metrics exposes Prometheus instruments for rendering passes and
// bridge requests.
package metrics

import (
	"net/http"

	"github.com/livechat-history-viewer/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chatfeed"

// Metrics holds the application instruments on a private registry
type Metrics struct {
	registry          *prometheus.Registry
	passes            *prometheus.CounterVec
	passDuration      prometheus.Histogram
	fragmentsInserted prometheus.Counter
	bridgeRequests    *prometheus.CounterVec
}

// New creates and registers all instruments. Each call uses its own
// registry so tests can build as many as they need.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_passes_total",
			Help:      "Rendering passes by final status.",
		}, []string{"status"}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_pass_duration_seconds",
			Help:      "Wall time of rendering passes, including yields between chunks.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		fragmentsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_inserted_total",
			Help:      "Session fragments inserted into the document.",
		}),
		bridgeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_requests_total",
			Help:      "Outbound bridge requests by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.passes,
		m.passDuration,
		m.fragmentsInserted,
		m.bridgeRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the scrape endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePass records a finished pass
func (m *Metrics) ObservePass(result *models.PassResult) {
	if result == nil {
		return
	}
	m.passes.WithLabelValues(string(result.Status)).Inc()
	m.passDuration.Observe(float64(result.DurationMs) / 1000)
	m.fragmentsInserted.Add(float64(result.InsertedCount))
}

// ObserveBridgeRequest records the outcome of an outbound request
func (m *Metrics) ObserveBridgeRequest(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.bridgeRequests.WithLabelValues(result).Inc()
}
