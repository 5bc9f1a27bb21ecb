// Package metrics exposes prometheus counters of the publishing pipeline and signal deliveries.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds pipeline counters on a private registry
type Metrics struct {
	registry   *prometheus.Registry
	items      *prometheus.CounterVec
	summaries  *prometheus.CounterVec
	overlays   *prometheus.CounterVec
	deliveries *prometheus.CounterVec
}

// New makes metrics with counters registered on a new registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportswatch",
			Name:      "items_processed_total",
			Help:      "Feed items processed, by tier and result",
		}, []string{"tier", "success"}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportswatch",
			Name:      "summaries_total",
			Help:      "Accepted summaries by provider, provider is 'none' when every provider failed",
		}, []string{"provider"}),
		overlays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportswatch",
			Name:      "overlays_total",
			Help:      "Overlay files written, by tier",
		}, []string{"tier"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sportswatch",
			Name:      "deliveries_total",
			Help:      "Message deliveries by channel and result",
		}, []string{"channel", "success"}),
	}
	m.registry.MustRegister(m.items, m.summaries, m.overlays, m.deliveries,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// ItemProcessed counts a processed item
func (m *Metrics) ItemProcessed(tier string, success bool) {
	m.items.WithLabelValues(tier, strconv.FormatBool(success)).Inc()
}

// SummaryGenerated counts a summary, empty provider means no summary
func (m *Metrics) SummaryGenerated(provider string) {
	if provider == "" {
		provider = "none"
	}
	m.summaries.WithLabelValues(provider).Inc()
}

// OverlayWritten counts a saved overlay
func (m *Metrics) OverlayWritten(tier string) {
	m.overlays.WithLabelValues(tier).Inc()
}

// Delivery counts a message delivery attempt
func (m *Metrics) Delivery(channel string, ok bool) {
	m.deliveries.WithLabelValues(channel, strconv.FormatBool(ok)).Inc()
}

// Handler returns http handler exposing the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns underlying registry
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
