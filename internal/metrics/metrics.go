// Package metrics exposes Prometheus collectors for pattern generation and
// simulation runs. Collectors live on a private registry so several Metrics
// values can coexist in one process (tests, embedded use).
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the radonsim collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	patterns         *prometheus.GaugeVec
	campaignsTotal   *prometheus.CounterVec
	simulationTime   prometheus.Histogram
	simulationErrors *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		patterns: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "radonsim_patterns",
			Help: "Number of generated room patterns per diversity level.",
		}, []string{"level"}),
		campaignsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radonsim_campaigns_total",
			Help: "Total campaigns evaluated by simulation mode.",
		}, []string{"mode"}),
		simulationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "radonsim_simulation_duration_seconds",
			Help:    "Histogram of simulation run durations.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		simulationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "radonsim_simulation_errors_total",
			Help: "Total failed simulation runs by reason.",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.patterns,
		m.campaignsTotal,
		m.simulationTime,
		m.simulationErrors,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// SetPatterns records the pattern count of one diversity level.
func (m *Metrics) SetPatterns(level string, n int) {
	if m == nil {
		return
	}
	m.patterns.WithLabelValues(level).Set(float64(n))
}

// ObserveRun records a completed run: its campaign count and duration.
func (m *Metrics) ObserveRun(mode string, campaigns int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.campaignsTotal.WithLabelValues(mode).Add(float64(campaigns))
	m.simulationTime.Observe(elapsed.Seconds())
}

// RunFailed counts a failed run.
func (m *Metrics) RunFailed(reason string) {
	if m == nil {
		return
	}
	m.simulationErrors.WithLabelValues(reason).Inc()
}

// WriteTextfile writes the current values in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
