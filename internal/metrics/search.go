package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taxodex"

// Search and record source Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of collection searches",
		},
		[]string{"collection", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Collection search duration in seconds, including the wait for records",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"collection"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of records returned per search",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"collection"},
	)

	RecordsLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Records held per collection after the last load",
		},
		[]string{"collection"},
	)

	SourceLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_loads_total",
			Help:      "Record source loads by source and status",
		},
		[]string{"source", "status"},
	)

	IDsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ids_generated_total",
			Help:      "Identifiers minted by collection, allocator and status",
		},
		[]string{"collection", "allocator", "status"},
	)

	BrowserRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "browser_refresh_total",
			Help:      "View refreshes by collection and outcome (ok, error, stale)",
		},
		[]string{"collection", "outcome"},
	)
)

var registerOnce sync.Once

// Register registers all taxodex metrics on the default registry.
// Safe to call more than once; only the first call registers.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			SearchRequestsTotal,
			SearchDuration,
			SearchResults,
			RecordsLoaded,
			SourceLoadsTotal,
			IDsGeneratedTotal,
			BrowserRefreshTotal,
		)
	})
}

// Status maps an error to a status label.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
