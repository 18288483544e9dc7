// Package webcontent fetches arbitrary webpages and reduces them to
// bounded plain text (or Markdown) suitable for an LLM context window.
package webcontent

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// MaxContentLength bounds the extracted text. Longer pages are cut at
	// exactly this many characters and marked as truncated.
	MaxContentLength = 8000

	// TruncationMarker is appended after the cut; it is not counted
	// against MaxContentLength.
	TruncationMarker = "... [content truncated]"

	// EmptyContentSentinel replaces an empty extraction so callers always
	// receive a non-empty string.
	EmptyContentSentinel = "no readable content"
)

// nonContentSelector matches subtrees whose text must never leak into the
// extraction, even when it looks like visible prose.
const nonContentSelector = "script, style, nav, header, footer"

// ExtractText flattens a webpage to whitespace-normalized plain text.
// Script, style, nav, header and footer subtrees are removed before any
// text is collected, so their contents cannot appear in the output. The
// result is trimmed, bounded to MaxContentLength, and never empty.
// Malformed HTML degrades to a best-effort join, never an error.
func ExtractText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return EmptyContentSentinel
	}

	doc.Find(nonContentSelector).Remove()

	var b strings.Builder
	for _, root := range doc.Selection.Nodes {
		collectText(root, &b)
	}

	text := normalizeWhitespace(b.String())
	if text == "" {
		return EmptyContentSentinel
	}
	return Truncate(text)
}

// collectText appends the text nodes under n in document order.
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte('\n')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// normalizeWhitespace trims every line, drops empty ones, and rejoins the
// remainder with single spaces, collapsing any internal whitespace run.
func normalizeWhitespace(s string) string {
	var parts []string
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		parts = append(parts, strings.Join(fields, " "))
	}
	return strings.Join(parts, " ")
}

// Truncate cuts s at MaxContentLength characters and appends the marker.
// Shorter input passes through unchanged.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxContentLength {
		return s
	}
	return string(runes[:MaxContentLength]) + TruncationMarker
}
