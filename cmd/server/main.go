// Command server runs the DuckDuckGo MCP server.
//
// Configuration is layered: built-in defaults, an optional YAML file
// (see DDGMCP_CONFIG), then DDGMCP_* environment variables. A local .env
// file is loaded first when present.
//
//	DDGMCP_TRANSPORT       - "stdio" (default) or "http"
//	DDGMCP_PORT            - listen port for the http transport (default: 8080)
//	DDGMCP_SEARCH_RPM      - search budget per rolling minute (default: 30)
//	DDGMCP_FETCH_RPM       - fetch budget per rolling minute (default: 20)
//	DDGMCP_RATELIMIT_STORE - "memory" (default) or "sqlite"
//	DDGMCP_RATELIMIT_DB    - sqlite database path for the durable store
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buizmanager/duckduckgo-mcp-server/pkg/config"
	"github.com/buizmanager/duckduckgo-mcp-server/pkg/mcpserver"
	"github.com/buizmanager/duckduckgo-mcp-server/pkg/ratelimit"
	"github.com/buizmanager/duckduckgo-mcp-server/pkg/search"
	"github.com/buizmanager/duckduckgo-mcp-server/pkg/transport"
	"github.com/buizmanager/duckduckgo-mcp-server/pkg/webcontent"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; absent is fine.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	// In stdio mode stdout carries the protocol, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	var store ratelimit.Store
	if cfg.RateLimit.Store == "sqlite" {
		sqlStore, err := ratelimit.OpenSQLiteStore(cfg.RateLimit.DBPath)
		if err != nil {
			return fmt.Errorf("opening rate limit store: %w", err)
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info("durable rate limit store enabled", "path", cfg.RateLimit.DBPath)
	}

	searchLimiter := ratelimit.New(cfg.RateLimit.SearchPerMinute, limiterOpts(store)...)
	fetchLimiter := ratelimit.New(cfg.RateLimit.FetchPerMinute, limiterOpts(store)...)

	searchClient := search.NewClient(
		search.WithEndpoint(cfg.Search.Endpoint),
		search.WithHTTPClient(&http.Client{Timeout: cfg.Search.RequestTimeout}),
	)
	searchSvc := search.NewService(searchClient, searchLimiter, logger)
	fetchSvc := webcontent.NewService(fetchLimiter, logger,
		webcontent.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.RequestTimeout}))

	srv := mcpserver.New(searchSvc, fetchSvc, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Server.Transport {
	case "http":
		return runHTTP(ctx, srv, cfg, logger)
	default:
		logger.Info("server starting", "transport", "stdio",
			"search_rpm", cfg.RateLimit.SearchPerMinute,
			"fetch_rpm", cfg.RateLimit.FetchPerMinute,
		)
		return srv.Run(ctx)
	}
}

// limiterOpts builds the shared limiter options; store may be nil.
func limiterOpts(store ratelimit.Store) []ratelimit.Option {
	if store == nil {
		return nil
	}
	return []ratelimit.Option{ratelimit.WithStore(store)}
}

// runHTTP serves the MCP streamable endpoint plus health and metrics.
func runHTTP(ctx context.Context, srv *mcpserver.Server, cfg *config.Config, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", srv.HTTPHandler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	handler := transport.Chain(
		transport.Recovery(logger),
		transport.RequestID(),
		transport.Logging(logger),
	)(mux)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "transport", "http", "port", cfg.Server.Port)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
