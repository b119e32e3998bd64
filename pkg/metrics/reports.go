package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Report build outcomes.
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
)

// ReportMetrics records report builds and the raw records they rejected.
type ReportMetrics struct {
	duration *prometheus.HistogramVec
	builds   *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewReportMetrics registers the report metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		return &ReportMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_build_duration_seconds",
		Help:    "Duration of report builds in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})
	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_build_total",
		Help: "Report builds by outcome.",
	}, []string{"report", "outcome"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_rejected_records_total",
		Help: "Raw records rejected during normalization.",
	}, []string{"kind", "reason"})
	reg.MustRegister(duration, builds, rejected)
	return &ReportMetrics{
		duration: duration,
		builds:   builds,
		rejected: rejected,
	}
}

// ObserveDuration records the duration of the named report build.
func (m *ReportMetrics) ObserveDuration(report string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(report)).Observe(duration.Seconds())
}

// IncBuild counts one build of the named report with its outcome.
func (m *ReportMetrics) IncBuild(report, outcome string) {
	if m == nil || m.builds == nil {
		return
	}
	m.builds.WithLabelValues(normalizeLabel(report), normalizeLabel(outcome)).Inc()
}

// AddRejected counts rejected raw records of a kind for a reason code.
func (m *ReportMetrics) AddRejected(kind, reason string, n int) {
	if m == nil || m.rejected == nil || n <= 0 {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(kind), normalizeLabel(reason)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
