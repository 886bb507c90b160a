package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus collectors for the check pipeline.
type Metrics struct {
	registry *prometheus.Registry

	checksTotal   *prometheus.CounterVec
	findingsTotal *prometheus.CounterVec
	judgeCalls    prometheus.Counter
	judgeFailures prometheus.Counter
	checkDuration prometheus.Histogram
}

// NewMetrics creates collectors on a private registry, so multiple
// servers in one process (tests) never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		checksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copywatch_checks_total",
				Help: "Total number of text checks, by mode and outcome",
			},
			[]string{"mode", "result"},
		),

		findingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "copywatch_findings_total",
				Help: "Total number of rule findings reported, by severity",
			},
			[]string{"severity"},
		),

		judgeCalls: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "copywatch_judge_calls_total",
				Help: "Total number of external judge invocations",
			},
		),

		judgeFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "copywatch_judge_failures_total",
				Help: "Total number of absorbed external judge failures",
			},
		),

		checkDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "copywatch_check_duration_seconds",
				Help:    "Latency of check and recheck requests",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}
