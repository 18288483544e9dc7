package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry without panicking.
func TestMetricsRegistered(t *testing.T) {
	// Counters and histograms only appear in the registry output after the
	// first observation, so seed everything.
	SearchesTotal.WithLabelValues("success").Inc()
	FetchesTotal.WithLabelValues("success").Inc()
	SearchResultsReturned.Observe(3)
	RateLimitWaitSeconds.WithLabelValues("search").Observe(0.1)
	ContentBytesExtracted.Observe(1024)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"ddgmcp_searches_total":           false,
		"ddgmcp_fetches_total":            false,
		"ddgmcp_search_results_returned":  false,
		"ddgmcp_ratelimit_wait_seconds":   false,
		"ddgmcp_content_bytes_extracted":  false,
	}

	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}

	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

// TestCounterLabels verifies the outcome labels increment independently.
func TestCounterLabels(t *testing.T) {
	before := counterValue(t, SearchesTotal, "error")
	SearchesTotal.WithLabelValues("error").Inc()
	after := counterValue(t, SearchesTotal, "error")

	if after-before != 1 {
		t.Errorf("expected error count to increase by 1, got delta=%f", after-before)
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
