// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_searches_total",
			Help: "Total number of search runs by mode",
		},
		[]string{"mode"},
	)

	SourceQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_source_queries_total",
			Help: "Total number of upstream source queries by source and status",
		},
		[]string{"source", "status"},
	)

	DeepenDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_deepen_decisions_total",
			Help: "Per route+date deepen decisions",
		},
		[]string{"decision"}, // deepen, cached, skip
	)

	CacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_cache_ops_total",
			Help: "Result cache operations by outcome",
		},
		[]string{"op", "outcome"}, // get/put x hit/miss/expired/error/ok
	)

	DealsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_deals_found_total",
			Help: "Deals at or above the minimum rating, by rating",
		},
		[]string{"rating"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_evaluation_failures_total",
			Help: "Offer evaluations that failed, by error code",
		},
		[]string{"error_code"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "monitor_search_duration_seconds",
			Help: "Duration of a full search run in seconds",
		},
		[]string{"mode"},
	)
)
