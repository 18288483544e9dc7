// Package observability provides Prometheus metrics for the DuckDuckGo
// MCP server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// waitBuckets covers rate-limit waits from "no wait" up to a full window.
var waitBuckets = []float64{0, 0.1, 0.5, 1, 5, 15, 30, 60}

var (
	// SearchesTotal counts search tool invocations by outcome.
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddgmcp_searches_total",
			Help: "Total search tool invocations",
		},
		[]string{"status"},
	)

	// FetchesTotal counts fetch_content tool invocations by outcome.
	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddgmcp_fetches_total",
			Help: "Total fetch_content tool invocations",
		},
		[]string{"status"},
	)

	// SearchResultsReturned records how many results each search produced.
	SearchResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ddgmcp_search_results_returned",
			Help:    "Number of search results returned per query",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)

	// RateLimitWaitSeconds records time spent waiting for a rate-limit
	// slot, by operation class.
	RateLimitWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ddgmcp_ratelimit_wait_seconds",
			Help:    "Time spent waiting for a rate limit slot",
			Buckets: waitBuckets,
		},
		[]string{"class"},
	)

	// ContentBytesExtracted records the size of extracted page text before
	// truncation.
	ContentBytesExtracted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ddgmcp_content_bytes_extracted",
			Help:    "Size of extracted page text before truncation",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
	)
)

func init() {
	prometheus.MustRegister(
		SearchesTotal,
		FetchesTotal,
		SearchResultsReturned,
		RateLimitWaitSeconds,
		ContentBytesExtracted,
	)
}
