package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the job metrics against the provided registerer. A nil
// registerer falls back to the Prometheus default.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "micomida_job_runs_total",
			Help: "Background job executions per task type.",
		}, []string{"task"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "micomida_job_failures_total",
			Help: "Background job failures per task type.",
		}, []string{"task"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "micomida_job_duration_seconds",
			Help:    "Background job duration per task type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"task"}),
	}
	registerer.MustRegister(m.runs, m.failures, m.duration)
	return m
}

// Instrument wraps an Asynq handler with run, failure and duration tracking.
// A nil Metrics passes the handler through untouched.
func (m *Metrics) Instrument(taskType string, handler asynq.HandlerFunc) asynq.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(ctx context.Context, t *asynq.Task) error {
		start := time.Now()
		err := handler(ctx, t)
		m.runs.WithLabelValues(taskType).Inc()
		m.duration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if err != nil {
			m.failures.WithLabelValues(taskType).Inc()
		}
		return err
	}
}
