package webcontent

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/buizmanager/duckduckgo-mcp-server/pkg/observability"
)

// RateLimitKey scopes this service's budget in the rate limiter.
const RateLimitKey = "fetch"

// Format selects the output rendering for fetched pages.
type Format string

const (
	// FormatText is the default plain-text extraction.
	FormatText Format = "text"
	// FormatMarkdown converts the page to Markdown instead of flat text.
	FormatMarkdown Format = "markdown"
)

const (
	// userAgent mirrors the search client: plenty of sites serve
	// different (or no) content to obvious non-browser agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// maxBodyBytes bounds how much of a page body is read.
	maxBodyBytes = 10 << 20 // 10 MB

	defaultTimeout = 30 * time.Second
)

// Throttle blocks until an operation under the given key is permitted.
// Satisfied by *ratelimit.Limiter.
type Throttle interface {
	Acquire(ctx context.Context, key string) error
}

// ErrEmptyURL is returned when a fetch is requested without a URL.
var ErrEmptyURL = fmt.Errorf("url must not be empty")

// Service orchestrates one fetch call: rate limiting, the outbound GET,
// and content extraction.
type Service struct {
	httpClient *http.Client
	limiter    Throttle
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithHTTPClient overrides the HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) ServiceOption {
	return func(s *Service) { s.httpClient = hc }
}

// NewService composes a fetch service. The default HTTP client follows
// redirects and applies a 30-second overall timeout.
func NewService(limiter Throttle, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    limiter,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch retrieves rawURL and returns its content in the requested format.
// Validation failures surface immediately, before any network call. All
// other failures are transport errors for the tool layer to render.
func (s *Service) Fetch(ctx context.Context, rawURL string, format Format) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrEmptyURL
	}
	if err := validateURL(rawURL); err != nil {
		return "", err
	}

	waitStart := time.Now()
	if err := s.limiter.Acquire(ctx, RateLimitKey); err != nil {
		observability.FetchesTotal.WithLabelValues("cancelled").Inc()
		return "", fmt.Errorf("waiting for rate limit: %w", err)
	}
	observability.RateLimitWaitSeconds.WithLabelValues(RateLimitKey).
		Observe(time.Since(waitStart).Seconds())

	s.logger.Debug("fetching page", "url", rawURL, "format", format)

	body, err := s.get(ctx, rawURL)
	if err != nil {
		observability.FetchesTotal.WithLabelValues("error").Inc()
		return "", err
	}

	var content string
	if format == FormatMarkdown {
		content, err = htmltomarkdown.ConvertString(body)
		if err != nil {
			// Conversion failure is a degradation, not a terminal
			// error: fall back to the plain-text pipeline.
			s.logger.Warn("markdown conversion failed, falling back to text", "url", rawURL, "error", err)
			content = ExtractText(body)
		} else {
			content = Truncate(strings.TrimSpace(content))
			if content == "" {
				content = EmptyContentSentinel
			}
		}
	} else {
		content = ExtractText(body)
	}

	observability.FetchesTotal.WithLabelValues("success").Inc()
	observability.ContentBytesExtracted.Observe(float64(len(content)))
	s.logger.Info("fetch completed", "url", rawURL, "chars", len(content))

	return content, nil
}

// validateURL requires an absolute http(s) URL.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: missing host", rawURL)
	}
	return nil
}

// get performs the outbound request and returns the page body.
func (s *Service) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating fetch request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetching %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading page body: %w", err)
	}

	return string(body), nil
}
