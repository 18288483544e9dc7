package webcontent

import (
	"strings"
	"testing"
)

func TestExtractText_FlattensVisibleText(t *testing.T) {
	html := `<!DOCTYPE html><html><body>
		<main>
			<h1>Welcome</h1>
			<p>First paragraph.</p>
			<p>Second   paragraph
			with a wrapped line.</p>
		</main>
	</body></html>`

	got := ExtractText(html)
	want := "Welcome First paragraph. Second paragraph with a wrapped line."
	if got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
}

func TestExtractText_RemovesNonContentSubtrees(t *testing.T) {
	// Each removed element carries a unique marker that must not survive.
	html := `<html><head>
		<script>var SCRIPT_MARKER = "SCRIPT_MARKER";</script>
		<style>.STYLE_MARKER { color: red }</style>
	</head><body>
		<header>HEADER_MARKER site banner</header>
		<nav>NAV_MARKER <a href="/">home</a></nav>
		<article>Actual article text.</article>
		<footer>FOOTER_MARKER copyright</footer>
		<script>console.log("SCRIPT_MARKER_2")</script>
	</body></html>`

	got := ExtractText(html)

	for _, marker := range []string{
		"SCRIPT_MARKER", "STYLE_MARKER", "HEADER_MARKER", "NAV_MARKER", "FOOTER_MARKER",
	} {
		if strings.Contains(got, marker) {
			t.Errorf("output contains %s from a removed subtree: %q", marker, got)
		}
	}
	if !strings.Contains(got, "Actual article text.") {
		t.Errorf("output lost the article text: %q", got)
	}
}

func TestExtractText_RemovesNestedNonContent(t *testing.T) {
	// Visible-looking text nested inside nav must go with the subtree.
	html := `<body><nav><div><span>NESTED_MARKER deep link text</span></div></nav><p>keep me</p></body>`

	got := ExtractText(html)
	if strings.Contains(got, "NESTED_MARKER") {
		t.Errorf("nested nav text leaked: %q", got)
	}
	if got != "keep me" {
		t.Errorf("ExtractText() = %q, want \"keep me\"", got)
	}
}

func TestExtractText_EmptyReturnsSentinel(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"empty document", ""},
		{"only markup", "<html><body><div></div></body></html>"},
		{"only removed subtrees", "<body><script>x()</script><nav>menu</nav></body>"},
		{"only whitespace", "<body>   \n\t   </body>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractText(tt.html); got != EmptyContentSentinel {
				t.Errorf("ExtractText() = %q, want %q", got, EmptyContentSentinel)
			}
		})
	}
}

func TestExtractText_TruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", MaxContentLength+500)
	got := ExtractText("<body><p>" + long + "</p></body>")

	if !strings.HasSuffix(got, TruncationMarker) {
		t.Fatalf("truncated output missing marker: ...%q", got[len(got)-40:])
	}
	body := strings.TrimSuffix(got, TruncationMarker)
	if len(body) != MaxContentLength {
		t.Errorf("truncated body length = %d, want exactly %d", len(body), MaxContentLength)
	}
	if body != long[:MaxContentLength] {
		t.Error("truncated body is not the first 8000 characters of the input")
	}
}

func TestExtractText_ShortContentUnmodified(t *testing.T) {
	exact := strings.Repeat("b", MaxContentLength)
	got := ExtractText("<body><p>" + exact + "</p></body>")

	if got != exact {
		t.Errorf("content at the limit was modified: len=%d, marker=%v",
			len(got), strings.HasSuffix(got, TruncationMarker))
	}
}

func TestExtractText_MalformedHTMLDegrades(t *testing.T) {
	// Unterminated and misnested tags must yield best-effort text, not panic.
	html := `<body><p>readable <b>text<div>more</p></b></div attr="`

	got := ExtractText(html)
	if !strings.Contains(got, "readable") || !strings.Contains(got, "text") {
		t.Errorf("best-effort extraction lost text: %q", got)
	}
}
