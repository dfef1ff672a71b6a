// Package metrics exposes Prometheus counters for sweeps, cleanup runs,
// scripts, process termination and background tasks.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusMetrics struct {
	registry        prometheus.Registerer
	filesDeleted    prometheus.Counter
	filesSkipped    *prometheus.CounterVec
	cleanupRuns     *prometheus.CounterVec
	cleanupDuration *prometheus.HistogramVec
	scriptRuns      *prometheus.CounterVec
	scriptDuration  prometheus.Histogram
	processesClosed *prometheus.CounterVec
	tasksTotal      *prometheus.CounterVec
}

func New(namespace string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		registry: reg,
		filesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_deleted_total",
				Help:      "Files removed by sweeps and the discard fallback",
			},
		),
		filesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_skipped_total",
				Help:      "Entries left in place, by reason",
			},
			[]string{"reason"},
		),
		cleanupRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cleanup_runs_total",
				Help:      "Cleanup runs by trigger",
			},
			[]string{"trigger"},
		),
		cleanupDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cleanup_duration_seconds",
				Help:      "Duration of cleanup runs",
				Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 300, 900},
			},
			[]string{"trigger"},
		),
		scriptRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "script_runs_total",
				Help:      "Script executions by status: success, failure, timeout, error",
			},
			[]string{"status"},
		),
		scriptDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "script_duration_seconds",
				Help:      "Duration of script executions",
				Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		processesClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "processes_closed_total",
				Help:      "Process instances handled by outcome: graceful, killed, failed",
			},
			[]string{"outcome"},
		),
		tasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_total",
				Help:      "Background tasks by type and status",
			},
			[]string{"type", "status"},
		),
	}

	reg.MustRegister(
		m.filesDeleted,
		m.filesSkipped,
		m.cleanupRuns,
		m.cleanupDuration,
		m.scriptRuns,
		m.scriptDuration,
		m.processesClosed,
		m.tasksTotal,
	)

	return m
}

func (m *PrometheusMetrics) FileDeleted() {
	m.filesDeleted.Inc()
}

func (m *PrometheusMetrics) FileSkipped(reason string) {
	m.filesSkipped.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) RecordCleanup(trigger string, duration time.Duration) {
	m.cleanupRuns.WithLabelValues(trigger).Inc()
	m.cleanupDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordScript(status string, duration time.Duration) {
	m.scriptRuns.WithLabelValues(status).Inc()
	m.scriptDuration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordProcess(outcome string) {
	m.processesClosed.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RecordTask(taskType string, err error) {
	status := "completed"
	if err != nil {
		status = "failed"
	}
	m.tasksTotal.WithLabelValues(taskType, status).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
