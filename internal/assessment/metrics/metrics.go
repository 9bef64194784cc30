package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the assessment module.
type Metrics struct {
	// Assessments created by risk level
	AssessmentsCreated *prometheus.CounterVec

	// Stateless evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all assessment module metrics registered.
func New() *Metrics {
	return &Metrics{
		AssessmentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "filingcontrol_assessments_created_total",
			Help: "Total assessments persisted by risk level",
		}, []string{"risk_level"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "filingcontrol_evaluate_duration_seconds",
			Help:    "Duration of stateless compliance evaluations",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementCreated records a persisted assessment.
func (m *Metrics) IncrementCreated(riskLevel string) {
	if m != nil {
		m.AssessmentsCreated.WithLabelValues(riskLevel).Inc()
	}
}

// ObserveEvaluateLatency records the duration of a stateless evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
