package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestReportMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewReportMetrics(reg)
	metrics.ObserveDuration("storefront", 250*time.Millisecond)
	metrics.IncBuild("storefront", OutcomePartial)
	metrics.AddRejected("sale", "MALFORMED_RECORD", 3)
	metrics.AddRejected("sale", "MALFORMED_RECORD", 0)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "report_build_total", "outcome", OutcomePartial); err != nil {
		t.Fatalf("fetch builds: %v", err)
	} else if got != 1 {
		t.Fatalf("expected builds=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "report_rejected_records_total", "reason", "MALFORMED_RECORD"); err != nil {
		t.Fatalf("fetch rejected: %v", err)
	} else if got != 3 {
		t.Fatalf("expected rejected=3, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "report_build_duration_seconds", "report", "storefront"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestReportMetricsNilSafe(t *testing.T) {
	var nilMetrics *ReportMetrics
	nilMetrics.IncBuild("x", OutcomeFailed)
	nilMetrics.ObserveDuration("x", time.Second)

	noop := NewReportMetrics(nil)
	noop.AddRejected("sale", "x", 1)
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
