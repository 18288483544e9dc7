// Package config provides unified configuration for the DuckDuckGo MCP
// server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (DDGMCP_ prefix)
//  4. Validation
package config

import "time"

// Config holds all configuration for the server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Search        SearchConfig        `yaml:"search"`
	Fetch         FetchConfig         `yaml:"fetch"`
	RateLimit     RateLimitConfig     `yaml:"ratelimit"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds MCP transport settings.
type ServerConfig struct {
	// Transport is "stdio" or "http". Default: "stdio".
	Transport string `yaml:"transport"`
	// Port is the listen port for the http transport. Default: 8080.
	Port int `yaml:"port"`
	// ShutdownTimeout bounds graceful shutdown of the http transport.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// SearchConfig holds settings for the search tool.
type SearchConfig struct {
	// Endpoint is the DuckDuckGo HTML search URL. Overridable for tests
	// and proxies.
	Endpoint string `yaml:"endpoint"`
	// RequestTimeout bounds the outbound search request. Default: 30s.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// FetchConfig holds settings for the fetch_content tool.
type FetchConfig struct {
	// RequestTimeout bounds the outbound page fetch. Default: 30s.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// RateLimitConfig holds per-class request budgets over a rolling minute.
type RateLimitConfig struct {
	// SearchPerMinute caps search calls. Default: 30.
	SearchPerMinute int `yaml:"search_per_minute"`
	// FetchPerMinute caps fetch calls. Default: 20.
	FetchPerMinute int `yaml:"fetch_per_minute"`
	// Store is "memory" or "sqlite". The sqlite store persists consumed
	// budget across restarts. Default: "memory".
	Store string `yaml:"store"`
	// DBPath is the sqlite database location when store is "sqlite".
	DBPath string `yaml:"db_path"` // default: "ratelimit.db"
}

// ObservabilityConfig holds monitoring settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings. Metrics are
// only served by the http transport.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Transport:       "stdio",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Search: SearchConfig{
			Endpoint:       "https://html.duckduckgo.com/html",
			RequestTimeout: 30 * time.Second,
		},
		Fetch: FetchConfig{
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			SearchPerMinute: 30,
			FetchPerMinute:  20,
			Store:           "memory",
			DBPath:          "ratelimit.db",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
