package metrics

import "github.com/prometheus/client_golang/prometheus"

// RoutingMetrics tracks model selection and fallback.
//
// Metrics:
//   - switchboard_model_selections_total: selections by model and deciding rule
//   - switchboard_classifier_score: distribution of complexity scores
//   - switchboard_fallbacks_total: switches to the fallback model
type RoutingMetrics struct {
	selections *prometheus.CounterVec
	scores     prometheus.Histogram
	fallbacks  *prometheus.CounterVec
}

// NewRoutingMetrics creates and registers routing metrics with the provided registry.
func NewRoutingMetrics(namespace string, registry *prometheus.Registry) *RoutingMetrics {
	rm := &RoutingMetrics{
		selections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_selections_total",
				Help:      "Total number of model selections by model and reason",
			},
			[]string{"model", "reason"},
		),

		scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classifier_score",
				Help:      "Complexity scores returned by the classifier",
				Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),

		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Total number of switches to the fallback model",
			},
			[]string{"mode"},
		),
	}

	registry.MustRegister(rm.selections, rm.scores, rm.fallbacks)

	return rm
}

// RecordSelection increments the selection counter.
func (rm *RoutingMetrics) RecordSelection(model, reason string) {
	rm.selections.WithLabelValues(model, reason).Inc()
}

// RecordScore observes a classifier score.
func (rm *RoutingMetrics) RecordScore(score float64) {
	rm.scores.Observe(score)
}

// RecordFallback increments the fallback counter.
func (rm *RoutingMetrics) RecordFallback(mode string) {
	rm.fallbacks.WithLabelValues(mode).Inc()
}
