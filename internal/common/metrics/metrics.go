// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisRunsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analysis_runs_completed_total",
			Help: "Total number of analysis runs that reached Completed",
		},
	)

	AnalysisRunsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_runs_failed_total",
			Help: "Total number of analysis runs that reached Failed",
		},
		[]string{"error_code"},
	)

	AnalysisRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_run_duration_seconds",
			Help:    "End-to-end duration of one analysis run",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	AnalyzerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analyzer_duration_seconds",
			Help:    "Duration of individual sub-analyses within a run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"analyzer"},
	)

	AnalyzerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_failures_total",
			Help: "Soft failures per analyzer (sub-score degraded to zero)",
		},
		[]string{"analyzer"},
	)

	AnalysisRunsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analysis_runs_active",
			Help: "Number of analysis runs currently in flight",
		},
	)
)
