package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the evaluation module.
// Tracks save throughput, changelog volume, and save path latency.
type Metrics struct {
	EvaluationsSaved prometheus.Counter
	ChangelogEntries prometheus.Counter
	StatsComputed    prometheus.Counter
	SaveDuration     prometheus.Histogram
}

// New creates a Metrics instance with all evaluation module metrics registered.
func New() *Metrics {
	return &Metrics{
		EvaluationsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "conforma_evaluations_saved_total",
			Help: "Total number of evaluation saves committed",
		}),
		ChangelogEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "conforma_changelog_entries_total",
			Help: "Total number of changelog entries recorded",
		}),
		StatsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "conforma_stats_computed_total",
			Help: "Total number of project statistics aggregations",
		}),
		SaveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "conforma_save_evaluation_duration_seconds",
			Help:    "Duration of SaveEvaluation operations (diff + transactional write)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementEvaluationsSaved records a committed evaluation save.
func (m *Metrics) IncrementEvaluationsSaved() {
	m.EvaluationsSaved.Inc()
}

// AddChangelogEntries records n changelog entries written in one save.
func (m *Metrics) AddChangelogEntries(n int) {
	m.ChangelogEntries.Add(float64(n))
}

// IncrementStatsComputed records one statistics aggregation pass.
func (m *Metrics) IncrementStatsComputed() {
	m.StatsComputed.Inc()
}

// ObserveSave records the duration of a SaveEvaluation operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSave(start time.Time) {
	m.SaveDuration.Observe(time.Since(start).Seconds())
}
