package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics provides observability for feasibility checks, compliance alerts and routing.
// All methods are safe on a nil receiver.
type Metrics struct {
	// Feasibility verdicts by status and tier
	FeasibilityOutcome *prometheus.CounterVec

	// Compliance alerts emitted by severity
	AlertsEmitted *prometheus.CounterVec

	// Documents ingested by category and source
	DocumentsIngested *prometheus.CounterVec

	// Route provider latency
	RouteLatency prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FeasibilityOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_feasibility_outcomes_total",
			Help: "Total feasibility verdicts by status and tier",
		}, []string{"status", "tier"}),

		AlertsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_compliance_alerts_total",
			Help: "Total compliance alerts returned by severity",
		}, []string{"severity"}),

		DocumentsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_documents_ingested_total",
			Help: "Total documents added to sessions by category and source",
		}, []string{"category", "source"}),

		RouteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatch_route_build_duration_seconds",
			Help:    "Duration of route building including feasibility evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	reg.MustRegister(m.FeasibilityOutcome, m.AlertsEmitted, m.DocumentsIngested, m.RouteLatency)
	return m
}

func (m *Metrics) IncrementFeasibility(status, tier string) {
	if m != nil {
		m.FeasibilityOutcome.WithLabelValues(status, tier).Inc()
	}
}

func (m *Metrics) AddAlerts(severity string, n int) {
	if m != nil && n > 0 {
		m.AlertsEmitted.WithLabelValues(severity).Add(float64(n))
	}
}

func (m *Metrics) IncrementDocuments(category, source string) {
	if m != nil {
		m.DocumentsIngested.WithLabelValues(category, source).Inc()
	}
}

func (m *Metrics) ObserveRouteLatency(d time.Duration) {
	if m != nil {
		m.RouteLatency.Observe(d.Seconds())
	}
}
