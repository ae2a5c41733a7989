package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records outcomes of synchronous calls to peer services.
type ClientMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewClientMetrics registers the inter-service call metrics.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "service_client_calls_total",
		Help: "Inter-service client calls, by target service, operation and outcome.",
	}, []string{"service", "operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "service_client_call_duration_seconds",
		Help:    "Inter-service client call latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "operation"})
	reg.MustRegister(calls, duration)
	return &ClientMetrics{
		calls:    calls,
		duration: duration,
	}
}

// ObserveCall records one call to a peer service. Outcome is "success" or
// "error".
func (m *ClientMetrics) ObserveCall(service, operation string, err error, duration time.Duration) {
	if m == nil || m.calls == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.calls.WithLabelValues(normalizeLabel(service), normalizeLabel(operation), outcome).Inc()
	m.duration.WithLabelValues(normalizeLabel(service), normalizeLabel(operation)).Observe(duration.Seconds())
}
