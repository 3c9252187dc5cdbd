package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes recorded by Metrics.
const (
	OutcomeOK      = "ok"
	OutcomeWarning = "warning"
	OutcomeError   = "error"
)

// Metrics owns a private registry so several servers can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	rows     prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics registers the run collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reelstats_runs_total",
			Help: "Analysis runs by outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reelstats_rows_processed_total",
			Help: "Rows read from uploaded exports.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reelstats_run_duration_seconds",
			Help:    "Wall time of one analysis run, decoding included.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.runs, m.rows, m.duration)
	for _, o := range []string{OutcomeOK, OutcomeWarning, OutcomeError} {
		m.runs.WithLabelValues(o)
	}
	return m
}

// Observe records one finished run.
func (m *Metrics) Observe(outcome string, rows int, elapsed time.Duration) {
	m.runs.WithLabelValues(outcome).Inc()
	if rows > 0 {
		m.rows.Add(float64(rows))
	}
	m.duration.Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
