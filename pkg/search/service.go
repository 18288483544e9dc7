package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/buizmanager/duckduckgo-mcp-server/pkg/observability"
)

// RateLimitKey scopes this service's budget in the rate limiter.
const RateLimitKey = "search"

// Throttle blocks until an operation under the given key is permitted.
// Satisfied by *ratelimit.Limiter.
type Throttle interface {
	Acquire(ctx context.Context, key string) error
}

// ErrEmptyQuery is returned when a search is requested without a query.
// No network call is made in that case.
var ErrEmptyQuery = fmt.Errorf("query must not be empty")

// Service orchestrates one search call: rate limiting, the outbound
// request, parsing, and formatting.
type Service struct {
	client  *Client
	limiter Throttle
	logger  *slog.Logger
}

// NewService composes a search service from its collaborators.
func NewService(client *Client, limiter Throttle, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, limiter: limiter, logger: logger}
}

// Search runs a query and returns the formatted result block. maxResults is
// clamped to [1, 20] with a default of 10. All failures surface as errors;
// the tool layer converts them to error-flagged text for the protocol.
func (s *Service) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	maxResults = ClampMaxResults(maxResults)

	waitStart := time.Now()
	if err := s.limiter.Acquire(ctx, RateLimitKey); err != nil {
		observability.SearchesTotal.WithLabelValues("cancelled").Inc()
		return "", fmt.Errorf("waiting for rate limit: %w", err)
	}
	observability.RateLimitWaitSeconds.WithLabelValues(RateLimitKey).
		Observe(time.Since(waitStart).Seconds())

	s.logger.Debug("searching", "query", query, "max_results", maxResults)

	html, err := s.client.FetchResultsPage(ctx, query)
	if err != nil {
		observability.SearchesTotal.WithLabelValues("error").Inc()
		return "", err
	}

	results := ParseResults(html, maxResults)

	observability.SearchesTotal.WithLabelValues("success").Inc()
	observability.SearchResultsReturned.Observe(float64(len(results)))
	s.logger.Info("search completed", "query", query, "results", len(results))

	return FormatResults(results), nil
}
