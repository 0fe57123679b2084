package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks inbound chat requests.
//
// Metrics:
//   - switchboard_requests_total: completed requests by delivery mode and model
//   - switchboard_request_duration_seconds: end-to-end request duration
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(namespace string, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of chat completion requests served",
			},
			[]string{"mode", "model"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of chat completion requests in seconds",
				Buckets:   DefaultDurationBuckets,
			},
			[]string{"mode"},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration)

	return rm
}

// RecordRequest records a completed request.
func (rm *RequestMetrics) RecordRequest(mode, model string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(mode, model).Inc()
	rm.requestDuration.WithLabelValues(mode).Observe(duration.Seconds())
}
