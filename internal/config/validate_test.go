// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate_MinimalValid(t *testing.T) {
	cfg := &Config{}
	errs := cfg.Validate()
	assert.Empty(t, errs, "expected no errors for empty config")
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Port: 99999},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "server.port"), "expected port error, got %v", errs)
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{LogLevel: "verbose"},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "log_level"), "expected log_level error, got %v", errs)
}

func TestValidate_NegativeStatsTTL(t *testing.T) {
	cfg := &Config{
		Stats: StatsConfig{TTL: Duration{-time.Second}},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "stats.ttl"), "expected stats.ttl error, got %v", errs)
}

func TestValidate_NegativeCacheTTL(t *testing.T) {
	cfg := &Config{
		TMDB: TMDBConfig{CacheTTL: Duration{-time.Minute}},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "tmdb.cache_ttl"), "expected tmdb.cache_ttl error, got %v", errs)
}

func TestValidate_NegativeRetention(t *testing.T) {
	cfg := &Config{
		Events: EventsConfig{RetentionDays: -1},
	}
	errs := cfg.Validate()
	assert.True(t, containsError(errs, "events.retention_days"), "expected retention error, got %v", errs)
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
