package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// recordingThrottle counts Acquire calls and optionally fails them.
type recordingThrottle struct {
	calls atomic.Int64
	err   error
}

func (r *recordingThrottle) Acquire(_ context.Context, _ string) error {
	r.calls.Add(1)
	return r.err
}

func TestService_SearchHappyPath(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("q"); got != "golang" {
			t.Errorf("form field q = %q, want \"golang\"", got)
		}
		if _, ok := r.PostForm["b"]; !ok {
			t.Error("form field b missing")
		}
		if _, ok := r.PostForm["kl"]; !ok {
			t.Error("form field kl missing")
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
			t.Errorf("User-Agent = %q, want browser-like", ua)
		}

		w.Write([]byte(resultsPage(
			resultBlock(redirectHref("https://go.dev/"), "The Go Programming Language", "Go is open source."),
		)))
	}))
	defer server.Close()

	throttle := &recordingThrottle{}
	svc := NewService(NewClient(WithEndpoint(server.URL)), throttle, nil)

	out, err := svc.Search(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	if !strings.Contains(out, "Found 1 search results:") {
		t.Errorf("output missing count header: %q", out)
	}
	if !strings.Contains(out, "https://go.dev/") {
		t.Errorf("output missing unwrapped URL: %q", out)
	}
	if throttle.calls.Load() != 1 {
		t.Errorf("limiter acquired %d times, want 1", throttle.calls.Load())
	}
	if hits.Load() != 1 {
		t.Errorf("backend hit %d times, want 1", hits.Load())
	}
}

func TestService_EmptyQuerySkipsNetwork(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	throttle := &recordingThrottle{}
	svc := NewService(NewClient(WithEndpoint(server.URL)), throttle, nil)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), query, 5)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", query, err)
		}
	}

	if hits.Load() != 0 {
		t.Errorf("backend hit %d times on invalid input, want 0", hits.Load())
	}
	if throttle.calls.Load() != 0 {
		t.Errorf("limiter acquired %d times on invalid input, want 0", throttle.calls.Load())
	}
}

func TestService_BackendErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc := NewService(NewClient(WithEndpoint(server.URL)), &recordingThrottle{}, nil)

	_, err := svc.Search(context.Background(), "golang", 5)
	if err == nil {
		t.Fatal("Search() returned nil error for a 403 backend")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error %q does not mention the status", err)
	}
}

func TestService_EmptyPageFormatsNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsPage()))
	}))
	defer server.Close()

	svc := NewService(NewClient(WithEndpoint(server.URL)), &recordingThrottle{}, nil)

	out, err := svc.Search(context.Background(), "gibberishquery", 5)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if out != NoResultsMessage {
		t.Errorf("Search() = %q, want the no-results message", out)
	}
}

func TestService_RateLimitCancellation(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	throttle := &recordingThrottle{err: context.Canceled}
	svc := NewService(NewClient(WithEndpoint(server.URL)), throttle, nil)

	_, err := svc.Search(context.Background(), "golang", 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Search() error = %v, want context.Canceled", err)
	}
	if hits.Load() != 0 {
		t.Errorf("backend hit %d times after cancelled wait, want 0", hits.Load())
	}
}
