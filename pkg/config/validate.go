package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	switch c.Server.Transport {
	case "stdio", "http":
		// valid
	default:
		errs = append(errs, fmt.Errorf("server.transport must be \"stdio\" or \"http\", got %q", c.Server.Transport))
	}

	if c.Server.Transport == "http" && c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	if c.Search.Endpoint == "" {
		errs = append(errs, fmt.Errorf("search.endpoint is required"))
	}

	if c.RateLimit.SearchPerMinute < 0 {
		errs = append(errs, fmt.Errorf("ratelimit.search_per_minute must be >= 0, got %d", c.RateLimit.SearchPerMinute))
	}
	if c.RateLimit.FetchPerMinute < 0 {
		errs = append(errs, fmt.Errorf("ratelimit.fetch_per_minute must be >= 0, got %d", c.RateLimit.FetchPerMinute))
	}

	switch c.RateLimit.Store {
	case "memory", "sqlite":
		// valid
	default:
		errs = append(errs, fmt.Errorf("ratelimit.store must be \"memory\" or \"sqlite\", got %q", c.RateLimit.Store))
	}

	if c.RateLimit.Store == "sqlite" && c.RateLimit.DBPath == "" {
		errs = append(errs, fmt.Errorf("ratelimit.db_path is required when ratelimit.store is \"sqlite\""))
	}

	return errors.Join(errs...)
}
