package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseTestConfig is a helper that writes content to a temp file and loads it without validation.
func parseTestConfig(t *testing.T, content string) (*Config, error) {
	t.Helper()
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return LoadWithoutValidation(cfgPath)
}

func TestConfig_TMDBSection(t *testing.T) {
	content := `
[tmdb]
api_key = "test-key"
base_url = "https://api.example.org"
image_base_url = "https://images.example.org"
cache_ttl = "30m"
`
	cfg, err := parseTestConfig(t, content)
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.TMDB.APIKey)
	assert.Equal(t, "https://api.example.org", cfg.TMDB.BaseURL)
	assert.Equal(t, "https://images.example.org", cfg.TMDB.ImageBaseURL)
	assert.Equal(t, 30*time.Minute, cfg.TMDB.CacheTTL.Duration)
}

func TestConfig_StatsTTL(t *testing.T) {
	content := `
[stats]
ttl = "90s"
`
	cfg, err := parseTestConfig(t, content)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Stats.TTL.Duration)
}

func TestConfig_TMDBOmitted(t *testing.T) {
	// No [tmdb] section means enrichment is disabled, not an error.
	content := `
[server]
port = 9000
`
	cfg, err := parseTestConfig(t, content)
	require.NoError(t, err)

	assert.Empty(t, cfg.TMDB.APIKey)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestConfig_EventsRetention(t *testing.T) {
	content := `
[events]
retention_days = 30
`
	cfg, err := parseTestConfig(t, content)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Events.RetentionDays)
}
