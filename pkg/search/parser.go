package search

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// adPathSegment marks DuckDuckGo ad-tracking links. Results routed through
// it are paid placements and are never surfaced.
const adPathSegment = "y.js"

// ParseResults extracts up to maxResults search hits from a DuckDuckGo HTML
// result page, in document order. Containers missing a usable title link,
// carrying an ad link, or whose redirect wrapper cannot be decoded are
// skipped without consuming a position. Malformed or empty input yields an
// empty slice, never an error.
func ParseResults(html string, maxResults int) []Result {
	if maxResults < 1 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// The underlying tokenizer repairs arbitrary markup; a reader
		// over a string cannot fail. Degrade to no results regardless.
		return nil
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		anchor := sel.Find("a.result__a").First()
		if anchor.Length() == 0 {
			return true
		}

		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}

		link, ok := resolveRedirect(href)
		if !ok {
			return true
		}
		if strings.Contains(link, adPathSegment) {
			return true
		}

		title := normalizeSpace(anchor.Text())
		if title == "" {
			return true
		}

		snippet := normalizeSpace(sel.Find(".result__snippet").First().Text())

		results = append(results, Result{
			Title:    title,
			URL:      link,
			Snippet:  snippet,
			Position: len(results) + 1,
		})
		return len(results) < maxResults
	})

	return results
}

// resolveRedirect unwraps DuckDuckGo's redirect links, which embed the true
// destination as an escaped uddg query parameter
// (e.g. //duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com). Direct links
// pass through unchanged apart from scheme-relative normalization. The
// second return value is false when a wrapper is present but its embedded
// URL cannot be recovered; such results must be dropped, not emitted with a
// mangled link.
func resolveRedirect(href string) (string, bool) {
	if !strings.Contains(href, "uddg=") {
		return absoluteURL(href), true
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	dest := parsed.Query().Get("uddg")
	if dest == "" {
		return "", false
	}
	return dest, true
}

// absoluteURL normalizes scheme-relative and site-relative hrefs into
// absolute URLs.
func absoluteURL(href string) string {
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return "https://duckduckgo.com" + href
	default:
		return href
	}
}

// normalizeSpace trims the text and collapses internal whitespace runs
// (including newlines left behind by stripped markup) to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
