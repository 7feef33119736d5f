// Package metrics exposes application counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the picfolio counters.
type Metrics struct {
	registry *prometheus.Registry

	UploadsTotal   *prometheus.CounterVec
	DeletionsTotal *prometheus.CounterVec
	LoginsTotal    *prometheus.CounterVec
	GamesTotal     *prometheus.CounterVec
}

// New creates a registry with process/Go collectors and the app counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picfolio_uploads_total",
				Help: "Total number of image uploads by result",
			},
			[]string{"result"},
		),
		DeletionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picfolio_deletions_total",
				Help: "Total number of deletions by kind",
			},
			[]string{"kind"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picfolio_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		GamesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picfolio_games_total",
				Help: "Total number of finished game rounds by game and outcome",
			},
			[]string{"game", "outcome"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.UploadsTotal,
		m.DeletionsTotal,
		m.LoginsTotal,
		m.GamesTotal,
	)
	return m
}

func (m *Metrics) RecordUpload(result string) {
	m.UploadsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordDeletion(kind string) {
	m.DeletionsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordLogin(result string) {
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordGame(game, outcome string) {
	m.GamesTotal.WithLabelValues(game, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
