package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics tracks calls to the upstream generation provider.
//
// Metrics:
//   - switchboard_credential_attempts_total: per-credential call outcomes
//   - switchboard_generation_duration_seconds: time spent per generation call sequence
type ProviderMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(namespace string, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "credential_attempts_total",
				Help:      "Total number of provider calls by model and outcome",
			},
			[]string{"model", "outcome"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of generation calls across all credentials in seconds",
				Buckets:   DefaultDurationBuckets,
			},
			[]string{"model", "mode"},
		),
	}

	registry.MustRegister(pm.attempts, pm.duration)

	return pm
}

// RecordAttempt increments the attempt counter.
func (pm *ProviderMetrics) RecordAttempt(model, outcome string) {
	pm.attempts.WithLabelValues(model, outcome).Inc()
}

// RecordGeneration observes a generation duration.
func (pm *ProviderMetrics) RecordGeneration(model, mode string, duration time.Duration) {
	pm.duration.WithLabelValues(model, mode).Observe(duration.Seconds())
}
