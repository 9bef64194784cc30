package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the deadline monitor.
type Metrics struct {
	// Completed runs by result: ok, locked, failed
	RunsTotal *prometheus.CounterVec

	// Entities swept per run outcome: processed, skipped, failed
	EntitiesTotal *prometheus.CounterVec

	// Compliance state rows written
	StatesUpdated prometheus.Counter

	// Notification events by outcome: created, duplicate
	EventsTotal *prometheus.CounterVec

	// Full sweep latency
	RunDuration prometheus.Histogram
}

// New creates a new Metrics instance with all monitor metrics registered.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "filingcontrol_monitor_runs_total",
			Help: "Total monitor runs by result",
		}, []string{"result"}),

		EntitiesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "filingcontrol_monitor_entities_total",
			Help: "Entities swept by the monitor by outcome",
		}, []string{"outcome"}),

		StatesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "filingcontrol_monitor_states_updated_total",
			Help: "Compliance state rows written by the monitor",
		}),

		EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "filingcontrol_monitor_events_total",
			Help: "Notification events produced by the monitor by outcome",
		}, []string{"outcome"}),

		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "filingcontrol_monitor_run_duration_seconds",
			Help:    "Duration of full monitor sweeps",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementRun records a completed run by result.
func (m *Metrics) IncrementRun(result string) {
	if m != nil {
		m.RunsTotal.WithLabelValues(result).Inc()
	}
}

// IncrementEntity records one swept entity by outcome.
func (m *Metrics) IncrementEntity(outcome string) {
	if m != nil {
		m.EntitiesTotal.WithLabelValues(outcome).Inc()
	}
}

// AddStatesUpdated records written state rows.
func (m *Metrics) AddStatesUpdated(n int) {
	if m != nil {
		m.StatesUpdated.Add(float64(n))
	}
}

// IncrementEvent records one notification event by outcome.
func (m *Metrics) IncrementEvent(outcome string) {
	if m != nil {
		m.EventsTotal.WithLabelValues(outcome).Inc()
	}
}

// ObserveRunDuration records the duration of a full sweep.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}
