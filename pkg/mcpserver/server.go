// Package mcpserver exposes the search and fetch services as MCP tools.
//
// Tool handlers never return operational failures as protocol errors:
// every validation or transport problem is rendered as an error-flagged
// text result, so the calling agent always receives a readable string.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/buizmanager/duckduckgo-mcp-server/pkg/search"
	"github.com/buizmanager/duckduckgo-mcp-server/pkg/webcontent"
)

// Searcher runs a web search and returns the formatted result block.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (string, error)
}

// Fetcher retrieves a webpage as bounded text or Markdown.
type Fetcher interface {
	Fetch(ctx context.Context, url string, format webcontent.Format) (string, error)
}

// SearchInput is the search tool's argument schema.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"The search query string"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Maximum number of results to return (default 10, max 20)"`
}

// FetchInput is the fetch_content tool's argument schema.
type FetchInput struct {
	URL    string `json:"url" jsonschema:"The webpage URL to fetch content from"`
	Format string `json:"format,omitempty" jsonschema:"Output format: text (default) or markdown"`
}

// Server wires the tool services into an MCP server.
type Server struct {
	mcp *mcp.Server
}

// New builds an MCP server named after this project with the search and
// fetch_content tools registered.
func New(searcher Searcher, fetcher Fetcher, version string) *Server {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: "duckduckgo-mcp-server", Version: version},
		nil,
	)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "search",
		Description: "Search the web using DuckDuckGo and return formatted results " +
			"with titles, URLs and summaries.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, struct{}, error) {
		out, err := searcher.Search(ctx, in.Query, in.MaxResults)
		if err != nil {
			return errorResult(searchErrorText(in, err)), struct{}{}, nil
		}
		return textResult(out), struct{}{}, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name: "fetch_content",
		Description: "Fetch a webpage and return its readable content as plain text " +
			"(or markdown), stripped of navigation and boilerplate.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in FetchInput) (*mcp.CallToolResult, struct{}, error) {
		out, err := fetcher.Fetch(ctx, in.URL, fetchFormat(in.Format))
		if err != nil {
			return errorResult(fetchErrorText(in, err)), struct{}{}, nil
		}
		return textResult(out), struct{}{}, nil
	})

	return &Server{mcp: srv}
}

// Run serves the MCP protocol over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns the streamable HTTP handler for the MCP endpoint.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}

// fetchFormat maps the tool argument to a content format, defaulting to text.
func fetchFormat(s string) webcontent.Format {
	if s == string(webcontent.FormatMarkdown) {
		return webcontent.FormatMarkdown
	}
	return webcontent.FormatText
}

// searchErrorText renders a search failure for the calling agent.
func searchErrorText(in SearchInput, err error) string {
	if errors.Is(err, search.ErrEmptyQuery) {
		return fmt.Sprintf("Error: a non-empty query is required, got %q", in.Query)
	}
	return fmt.Sprintf("Error: an error occurred while searching (%v)", err)
}

// fetchErrorText renders a fetch failure for the calling agent.
func fetchErrorText(in FetchInput, err error) string {
	if errors.Is(err, webcontent.ErrEmptyURL) {
		return fmt.Sprintf("Error: a non-empty url is required, got %q", in.URL)
	}
	return fmt.Sprintf("Error: could not access the webpage (%v)", err)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
