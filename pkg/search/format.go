package search

import (
	"fmt"
	"strings"
)

// NoResultsMessage is returned verbatim when a search yields nothing.
// DuckDuckGo serves an empty result page both for genuine no-match queries
// and when its bot detection declines to answer, so the message covers both.
const NoResultsMessage = "No results were found for your search query. " +
	"This could be due to DuckDuckGo's bot detection or the query returned no matches. " +
	"Please try rephrasing your search or try again in a few minutes."

// FormatResults renders results as a readable text block: a count header
// followed by one numbered entry per result, each separated by a blank line.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d search results:\n\n", len(results))
	for _, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   URL: %s\n   Summary: %s\n\n", r.Position, r.Title, r.URL, r.Snippet)
	}
	return b.String()
}
