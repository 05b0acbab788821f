package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "workouts_recorded_total",
		Help:      "Workouts accepted and persisted, by type.",
	}, []string{"type"})
	workoutsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "workouts_rejected_total",
		Help:      "Workouts rejected by input validation, by type.",
	}, []string{"type"})
	restoreFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mapty",
		Name:      "restore_failures_total",
		Help:      "Persisted workout lists that could not be decoded and were treated as empty.",
	})
)

func init() {
	prometheus.MustRegister(workoutsRecorded, workoutsRejected, restoreFailures)
}

func RecordWorkoutAdded(kind string) {
	workoutsRecorded.WithLabelValues(kind).Inc()
}

func RecordWorkoutRejected(kind string) {
	workoutsRejected.WithLabelValues(kind).Inc()
}

func RecordRestoreFailure() {
	restoreFailures.Inc()
}
