package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.ObserveRequest("GET", "/api/inventory/{id}", 200, 250*time.Millisecond)
	metrics.ObserveRequest("GET", "/api/inventory/{id}", 200, 100*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/inventory/{id}"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 2 {
		t.Fatalf("expected requests=2, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/inventory/{id}"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestClientMetricsRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewClientMetrics(reg)
	metrics.ObserveCall("inventory-service", "reserve", nil, 50*time.Millisecond)
	metrics.ObserveCall("inventory-service", "reserve", errors.New("timeout"), 50*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	mf := findMetricFamily(mfs, "service_client_calls_total")
	if mf == nil {
		t.Fatal("expected client call counter to be registered")
	}
	var success, failure float64
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), "outcome", "success") {
			success = metric.GetCounter().GetValue()
		}
		if matchesLabel(metric.GetLabel(), "outcome", "error") {
			failure = metric.GetCounter().GetValue()
		}
	}
	if success != 1 || failure != 1 {
		t.Fatalf("expected one success and one error, got success=%f error=%f", success, failure)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	metrics := NewHTTPMetrics(nil)
	metrics.ObserveRequest("GET", "/health", 200, time.Millisecond)

	clients := NewClientMetrics(nil)
	clients.ObserveCall("order-service", "get", nil, time.Millisecond)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
