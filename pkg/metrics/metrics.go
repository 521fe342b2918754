package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	OUTCOME_SOLVED      = "solved"
	OUTCOME_NO_SOLUTION = "no_solution"
	OUTCOME_ABORTED     = "aborted"
	OUTCOME_INVALID     = "invalid"
	OUTCOME_ERROR       = "error"
)

var (
	// Registry is the dedicated registry exported on /metrics.
	Registry = prometheus.NewRegistry()

	SearchRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "deliverx_search_runs_total", Help: "Search runs by strategy and outcome."},
		[]string{"strategy", "outcome"},
	)
	NodesExpanded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "deliverx_nodes_expanded_total", Help: "States expanded by strategy."},
		[]string{"strategy"},
	)
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "deliverx_search_duration_seconds", Help: "Search wall clock time in seconds.", Buckets: prometheus.ExponentialBuckets(0.001, 4, 10)},
		[]string{"strategy"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "deliverx_http_requests_total", Help: "HTTP requests by method, path and status."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "deliverx_http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)
)

var regOnce sync.Once

// RegisterDefault registers every collector on Registry, once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(SearchRuns)
		Registry.MustRegister(NodesExpanded)
		Registry.MustRegister(SearchDuration)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

func ObserveSearch(strategy, outcome string, expanded int, elapsed time.Duration) {
	SearchRuns.WithLabelValues(strategy, outcome).Inc()
	NodesExpanded.WithLabelValues(strategy).Add(float64(expanded))
	SearchDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}
