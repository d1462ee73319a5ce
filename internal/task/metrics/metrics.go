package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the review task lifecycle.
type Metrics struct {
	// Tasks created by check type and resolution ("" for open system tasks)
	TasksCreated *prometheus.CounterVec

	// Requests answered from an earlier task with the same idempotency key
	IdempotentReplays prometheus.Counter

	// Concurrent requests rejected because the key was locked
	IdempotencyConflicts prometheus.Counter

	// Registry accept/reject failures by resolution
	RegistryFailures *prometheus.CounterVec

	TasksResolved prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		TasksCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealchecker_tasks_created_total",
			Help: "Review tasks created by check type and resolution",
		}, []string{"check_type", "resolution"}),

		IdempotentReplays: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_tasks_idempotent_replays_total",
			Help: "Task creations answered with a previously created task",
		}),

		IdempotencyConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_tasks_idempotency_conflicts_total",
			Help: "Task creations rejected because the same key was in flight",
		}),

		RegistryFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealchecker_tasks_registry_failures_total",
			Help: "Deal registry notification failures during task creation",
		}, []string{"resolution"}),

		TasksResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_tasks_resolved_total",
			Help: "System tasks moved from OPEN to DONE",
		}),
	}
}

func (m *Metrics) IncrementCreated(checkType, resolution string) {
	if m != nil {
		m.TasksCreated.WithLabelValues(checkType, resolution).Inc()
	}
}

func (m *Metrics) IncrementReplay() {
	if m != nil {
		m.IdempotentReplays.Inc()
	}
}

func (m *Metrics) IncrementIdempotencyConflict() {
	if m != nil {
		m.IdempotencyConflicts.Inc()
	}
}

func (m *Metrics) IncrementRegistryFailure(resolution string) {
	if m != nil {
		m.RegistryFailures.WithLabelValues(resolution).Inc()
	}
}

func (m *Metrics) IncrementResolved() {
	if m != nil {
		m.TasksResolved.Inc()
	}
}
