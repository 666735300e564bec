package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for registry reader operations.
type Metrics struct {
	FetchDuration prometheus.Histogram
	FetchFailures prometheus.Counter
	Lookups       *prometheus.CounterVec
	BreakerOpen   prometheus.Gauge
}

// New registers and returns registry metrics collectors.
func New() *Metrics {
	return &Metrics{
		FetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "keygate_registry_fetch_duration_seconds",
			Help:    "Duration of remote store fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		FetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "keygate_registry_fetch_failures_total",
			Help: "Total number of failed store fetches (degraded to not_found)",
		}),
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "keygate_registry_lookups_total",
			Help: "Total number of key lookups by outcome",
		}, []string{"outcome"}),
		BreakerOpen: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "keygate_registry_breaker_open",
			Help: "Whether the store circuit breaker is open (1) or closed (0)",
		}),
	}
}

// ObserveLookup records a lookup outcome.
func (m *Metrics) ObserveLookup(outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
}
