package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routeplanner_operation_duration_seconds",
		Help:    "Duration of route planner operations, including remote round trips.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"op"})

	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeplanner_operations_total",
		Help: "Route mutations by operation and result.",
	}, []string{"op", "result"})

	StaleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeplanner_stale_responses_total",
		Help: "Server responses discarded because a newer mutation for the same route was already applied.",
	}, []string{"op"})

	SuggestionLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeplanner_suggestion_lookups_total",
		Help: "Autocomplete lookups by result.",
	}, []string{"result"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeplanner_cache_lookups_total",
		Help: "Address lookup cache reads by cache and result (hit, miss, error).",
	}, []string{"cache", "result"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeplanner_http_requests_total",
		Help: "Requests served by the devserver, by method and status code.",
	}, []string{"method", "code"})
)
