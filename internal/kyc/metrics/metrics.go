package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the KYC workflow. All methods are safe
// on a nil receiver so tests and tools can skip instrumentation.
type Metrics struct {
	SessionsStarted   *prometheus.CounterVec
	StepTransitions   *prometheus.CounterVec
	StepGateRejected  *prometheus.CounterVec
	Outcomes          *prometheus.CounterVec
	DependencyLatency *prometheus.HistogramVec
	AwaitingSessions  prometheus.Gauge
}

// New registers the KYC metrics with reg. A nil registerer uses the default.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		SessionsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "suresavings_kyc_sessions_started_total",
			Help: "Verification sessions started by target tier",
		}, []string{"target_tier"}),

		StepTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "suresavings_kyc_step_transitions_total",
			Help: "Step navigation by step and direction",
		}, []string{"step", "direction"}), // direction: "advance", "retreat"

		StepGateRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "suresavings_kyc_step_gate_rejections_total",
			Help: "Advance attempts rejected because step requirements were unmet",
		}, []string{"step"}),

		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "suresavings_kyc_outcomes_total",
			Help: "Terminal verification outcomes",
		}, []string{"target_tier", "method", "outcome", "reason"}),

		DependencyLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "suresavings_kyc_dependency_duration_seconds",
			Help:    "Duration of verification collaborator calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"dependency"}), // dependency: "ocr", "geolocation", "provider", "proximity", "attestation"

		AwaitingSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "suresavings_kyc_awaiting_attestation_sessions",
			Help: "Sessions waiting on attester responses",
		}),
	}
}

func (m *Metrics) IncSessionStarted(targetTier string) {
	if m != nil {
		m.SessionsStarted.WithLabelValues(targetTier).Inc()
	}
}

func (m *Metrics) IncTransition(step, direction string) {
	if m != nil {
		m.StepTransitions.WithLabelValues(step, direction).Inc()
	}
}

func (m *Metrics) IncGateRejected(step string) {
	if m != nil {
		m.StepGateRejected.WithLabelValues(step).Inc()
	}
}

func (m *Metrics) IncOutcome(targetTier, method, outcome, reason string) {
	if m != nil {
		m.Outcomes.WithLabelValues(targetTier, method, outcome, reason).Inc()
	}
}

// ObserveDependency records the duration of a collaborator call.
func (m *Metrics) ObserveDependency(dependency string, d time.Duration) {
	if m != nil {
		m.DependencyLatency.WithLabelValues(dependency).Observe(d.Seconds())
	}
}

func (m *Metrics) AddAwaiting(delta float64) {
	if m != nil {
		m.AwaitingSessions.Add(delta)
	}
}
