// Package search implements DuckDuckGo web search: querying the HTML
// endpoint, parsing the semi-structured result page into ordered records,
// and formatting them for consumption by an LLM agent.
package search

// Result is a single parsed search hit. Results are transient: constructed
// per search call, formatted, and discarded.
type Result struct {
	// Title is the visible link text, markup-stripped, never empty.
	Title string
	// URL is the absolute destination, with DuckDuckGo's redirect
	// wrapper already unwrapped.
	URL string
	// Snippet is the visible summary text. May be empty.
	Snippet string
	// Position is the 1-based rank among accepted results. Skipped
	// containers (ads, malformed entries) do not consume positions.
	Position int
}

// Limits for the max_results tool argument.
const (
	DefaultMaxResults = 10
	MaxMaxResults     = 20
)

// ClampMaxResults normalizes a caller-supplied result cap into [1, 20],
// defaulting when unset.
func ClampMaxResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxMaxResults:
		return MaxMaxResults
	default:
		return n
	}
}
