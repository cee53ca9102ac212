package scorer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalyzerRunsTotal tracks successful analyzer invocations
	AnalyzerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analyzer_runs_total",
			Help: "Total number of successful analyzer invocations",
		},
	)

	// AnalyzerFailuresTotal tracks failed analyzer invocations by reason
	AnalyzerFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_failures_total",
			Help: "Total number of failed analyzer invocations",
		},
		[]string{"reason"}, // timeout, exit, parse
	)

	// AnalyzerLatency tracks analyzer wall-clock latency
	AnalyzerLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_latency_seconds",
			Help:    "Analyzer invocation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
