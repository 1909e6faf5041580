// Package metrics exports selection engine counters and histograms in
// Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the engine's Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	evaluations       *prometheus.CounterVec
	divergences       *prometheus.CounterVec
	solveIterations   prometheus.Histogram
	selections        *prometheus.CounterVec
	selectionDuration prometheus.Histogram
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tired_evaluations_total",
			Help: "Objective evaluations by backend and feasibility.",
		}, []string{"backend", "feasible"}),
		divergences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tired_coupling_divergences_total",
			Help: "Coupling solves that failed to converge, by backend.",
		}, []string{"backend"}),
		solveIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tired_coupling_iterations",
			Help:    "Iterations per converged coupling solve.",
			Buckets: prometheus.LinearBuckets(1, 2, 12),
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tired_selections_total",
			Help: "Completed selection jobs by terminal status.",
		}, []string{"status"}),
		selectionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tired_selection_duration_seconds",
			Help:    "Wall-clock duration of selection jobs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
	}
	c.registry.MustRegister(
		c.evaluations, c.divergences, c.solveIterations,
		c.selections, c.selectionDuration,
	)
	return c
}

// Registry exposes the underlying registry, e.g. for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the /metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveSelection records one finished selection job.
func (c *Collector) ObserveSelection(status string, duration time.Duration) {
	c.selections.WithLabelValues(status).Inc()
	c.selectionDuration.Observe(duration.Seconds())
}

// Backend returns a per-backend observer for objective evaluations.
func (c *Collector) Backend(name string) *BackendObserver {
	return &BackendObserver{collector: c, backend: name}
}

// BackendObserver feeds one backend's evaluation outcomes into the shared
// collector.
type BackendObserver struct {
	collector *Collector
	backend   string
}

// ObserveEvaluation counts one objective evaluation.
func (o *BackendObserver) ObserveEvaluation(feasible bool) {
	label := "false"
	if feasible {
		label = "true"
	}
	o.collector.evaluations.WithLabelValues(o.backend, label).Inc()
}

// ObserveDivergence counts one diverged coupling solve.
func (o *BackendObserver) ObserveDivergence() {
	o.collector.divergences.WithLabelValues(o.backend).Inc()
}

// ObserveSolveIterations records the iteration count of a converged solve.
func (o *BackendObserver) ObserveSolveIterations(n int) {
	o.collector.solveIterations.Observe(float64(n))
}
