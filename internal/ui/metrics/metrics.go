// Package metrics exposes Prometheus collectors for the dashboard server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	TabSelections   *prometheus.CounterVec
	AssetSelections *prometheus.CounterVec
	StreamClients   prometheus.Gauge
	Patches         *prometheus.CounterVec
}

// New creates a registry with Go/process collectors and the dashboard
// collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		TabSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskcc",
			Name:      "tab_selections_total",
			Help:      "Navigation tab selections by tab.",
		}, []string{"tab"}),
		AssetSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskcc",
			Name:      "asset_selections_total",
			Help:      "Scorecard selections by result (ok, unknown).",
		}, []string{"result"}),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "riskcc",
			Name:      "update_streams",
			Help:      "Open SSE update streams.",
		}),
		Patches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "riskcc",
			Name:      "region_patches_total",
			Help:      "Element patches sent to browsers by region.",
		}, []string{"region"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.TabSelections,
		m.AssetSelections,
		m.StreamClients,
		m.Patches,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
