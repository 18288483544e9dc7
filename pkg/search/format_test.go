package search

import (
	"strings"
	"testing"
)

func TestFormatResults_EmptyReturnsFixedMessage(t *testing.T) {
	got := FormatResults(nil)
	if got != NoResultsMessage {
		t.Errorf("FormatResults(nil) = %q, want the fixed no-results message", got)
	}

	if got := FormatResults([]Result{}); got != NoResultsMessage {
		t.Errorf("FormatResults(empty) = %q, want the fixed no-results message", got)
	}
}

func TestFormatResults_RendersNumberedBlocks(t *testing.T) {
	results := []Result{
		{Title: "First", URL: "https://one.test", Snippet: "the first hit", Position: 1},
		{Title: "Second", URL: "https://two.test", Snippet: "the second hit", Position: 2},
		{Title: "Third", URL: "https://three.test", Snippet: "", Position: 3},
	}

	got := FormatResults(results)

	want := "Found 3 search results:\n\n" +
		"1. First\n   URL: https://one.test\n   Summary: the first hit\n\n" +
		"2. Second\n   URL: https://two.test\n   Summary: the second hit\n\n" +
		"3. Third\n   URL: https://three.test\n   Summary: \n\n"
	if got != want {
		t.Errorf("FormatResults() = %q\nwant %q", got, want)
	}
}

func TestFormatResults_BlocksFollowedByBlankLine(t *testing.T) {
	results := []Result{
		{Title: "A", URL: "https://a.test", Snippet: "a", Position: 1},
		{Title: "B", URL: "https://b.test", Snippet: "b", Position: 2},
		{Title: "C", URL: "https://c.test", Snippet: "c", Position: 3},
	}

	got := FormatResults(results)

	if !strings.HasPrefix(got, "Found 3 search results:\n") {
		t.Errorf("missing count header in %q", got)
	}

	// Each numbered block ends with a summary line followed by a blank line.
	for _, marker := range []string{"1. A", "2. B", "3. C"} {
		if !strings.Contains(got, marker) {
			t.Errorf("missing block %q in %q", marker, got)
		}
	}
	if strings.Count(got, "\n\n") != 4 {
		t.Errorf("expected header + three blocks each followed by a blank line, got %q", got)
	}
	if idxA, idxB := strings.Index(got, "1. A"), strings.Index(got, "2. B"); idxA > idxB {
		t.Error("blocks out of order")
	}
}
