package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for audit delivery.
type Metrics struct {
	Emitted             prometheus.Counter
	Dropped             prometheus.Counter
	PersistFailures     prometheus.Counter
	Fallbacks           prometheus.Counter
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics() *Metrics {
	return &Metrics{
		Emitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_audit_emitted_total",
			Help: "Audit events written to the primary sink",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_audit_dropped_total",
			Help: "Audit events dropped because the async buffer was full",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_audit_persist_failures_total",
			Help: "Primary sink write failures",
		}),
		Fallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealchecker_audit_fallback_total",
			Help: "Audit events written to the fallback sink",
		}),
		CircuitBreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dealchecker_audit_circuit_breaker_state",
			Help: "Primary sink circuit state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) IncEmitted() {
	if m != nil {
		m.Emitted.Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) IncFallback() {
	if m != nil {
		m.Fallbacks.Inc()
	}
}

func (m *Metrics) SetCircuitBreakerState(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
	} else {
		m.CircuitBreakerState.Set(0)
	}
}
