package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
	reloadErrors prometheus.Counter
}

// newMetrics uses a private registry so several services (and tests) can
// coexist in one process.
func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "runway",
			Name:      "projection_runs_total",
			Help:      "Projections generated, by scenario.",
		}, []string{"scenario"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "runway",
			Name:      "projection_duration_seconds",
			Help:      "Time to generate every scenario for one settings snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		reloadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runway",
			Name:      "settings_reload_errors_total",
			Help:      "Failed settings reloads.",
		}),
	}

	m.registry.MustRegister(
		m.runs,
		m.duration,
		m.reloadErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
