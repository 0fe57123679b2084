package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultDurationBuckets covers generation latencies from 100ms to several
// minutes. Streams against the complex model routinely run past 30s.
var DefaultDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120, 300}

// Collector owns the Prometheus registry and every Switchboard metric.
// All Record methods are safe on a nil *Collector, which records nothing.
type Collector struct {
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	routingMetrics  *RoutingMetrics
	providerMetrics *ProviderMetrics
}

// NewCollector creates a collector registering on registry. If registry is
// nil a fresh one is created.
//
// Example:
//
//	collector := metrics.NewCollector("switchboard", nil)
//	mux.Handle("/metrics", collector.Handler())
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "switchboard"
	}

	return &Collector{
		registry:        registry,
		requestMetrics:  NewRequestMetrics(namespace, registry),
		routingMetrics:  NewRoutingMetrics(namespace, registry),
		providerMetrics: NewProviderMetrics(namespace, registry),
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordRequest records a completed chat request.
//
// Parameters:
//   - mode: "stream" or "non_stream"
//   - model: the model that served the request last
//   - duration: wall time from receipt to the final byte
func (c *Collector) RecordRequest(mode, model string, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestMetrics.RecordRequest(mode, model, duration)
}

// RecordSelection records a model selection decision and the rule that made it.
func (c *Collector) RecordSelection(model, reason string) {
	if c == nil {
		return
	}
	c.routingMetrics.RecordSelection(model, reason)
}

// RecordClassifierScore records a complexity score.
func (c *Collector) RecordClassifierScore(score float64) {
	if c == nil {
		return
	}
	c.routingMetrics.RecordScore(score)
}

// RecordFallback records a switch to the fallback model.
func (c *Collector) RecordFallback(mode string) {
	if c == nil {
		return
	}
	c.routingMetrics.RecordFallback(mode)
}

// RecordCredentialAttempt records the outcome of one call with one credential.
//
// Outcomes: "success", "status", "transport", "empty", "parse".
func (c *Collector) RecordCredentialAttempt(model, outcome string) {
	if c == nil {
		return
	}
	c.providerMetrics.RecordAttempt(model, outcome)
}

// RecordGeneration records the duration of one generation call sequence
// (all credentials) against a model.
func (c *Collector) RecordGeneration(model, mode string, duration time.Duration) {
	if c == nil {
		return
	}
	c.providerMetrics.RecordGeneration(model, mode, duration)
}
