package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.TMDB.BaseURL != "" {
		if _, err := url.Parse(c.TMDB.BaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("tmdb.base_url: invalid URL: %v", err))
		}
	}
	if c.TMDB.CacheTTL.Duration < 0 {
		errs = append(errs, "tmdb.cache_ttl: must not be negative")
	}

	if c.Stats.TTL.Duration < 0 {
		errs = append(errs, "stats.ttl: must not be negative")
	}
	if c.Events.RetentionDays < 0 {
		errs = append(errs, "events.retention_days: must not be negative")
	}

	return errs
}
