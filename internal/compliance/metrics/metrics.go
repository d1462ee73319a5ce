package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	// Files whose storage label did not map to any category
	UnknownLabels prometheus.Counter

	// Check outcomes: "ok", "malformed_deal"
	CheckOutcome *prometheus.CounterVec

	// Applicable rules per category across checks
	RulesApplied *prometheus.CounterVec

	CheckLatency prometheus.Histogram
}

// New registers compliance metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		UnknownLabels: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_compliance_unknown_labels_total",
			Help: "Submitted files dropped because their storage label is not a known document category",
		}),

		CheckOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealchecker_compliance_checks_total",
			Help: "Compliance checks by outcome",
		}, []string{"outcome"}),

		RulesApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealchecker_compliance_rules_applied_total",
			Help: "Rules found applicable by category",
		}, []string{"category"}),

		CheckLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealchecker_compliance_check_duration_seconds",
			Help:    "Duration of classification plus rule evaluation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
	}
}

// IncrementUnknownLabel records a dropped file. Labels are free-form, so they
// go to the log rather than a metric dimension.
func (m *Metrics) IncrementUnknownLabel() {
	if m != nil {
		m.UnknownLabels.Inc()
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.CheckOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) AddRulesApplied(category string, n int) {
	if m != nil && n > 0 {
		m.RulesApplied.WithLabelValues(category).Add(float64(n))
	}
}

// ObserveCheckLatency records the total check duration.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}
