package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for license operations.
type Metrics struct {
	IssueRequests   prometheus.Counter
	VerifyRequests  prometheus.Counter
	Verdicts        *prometheus.CounterVec
	TokensIssued    prometheus.Counter
	SigningFailures prometheus.Counter
}

// New registers and returns license metrics collectors.
func New() *Metrics {
	return &Metrics{
		IssueRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "keygate_issue_requests_total",
			Help: "Total number of issue requests",
		}),
		VerifyRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "keygate_verify_requests_total",
			Help: "Total number of verify requests",
		}),
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "keygate_verdicts_total",
			Help: "Total number of verdicts by outcome",
		}, []string{"operation", "outcome"}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "keygate_tokens_issued_total",
			Help: "Total number of license tokens issued",
		}),
		SigningFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "keygate_signing_failures_total",
			Help: "Total number of signing failures (configuration faults)",
		}),
	}
}

// ObserveVerdict records an operation outcome.
func (m *Metrics) ObserveVerdict(operation string, valid bool) {
	if m == nil {
		return
	}
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	m.Verdicts.WithLabelValues(operation, outcome).Inc()
}
