// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	Stats    StatsConfig    `toml:"stats"`
	Events   EventsConfig   `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// TMDBConfig configures the metadata enricher. An empty api_key disables
// enrichment; adds then run on caller-supplied fields only.
type TMDBConfig struct {
	APIKey       string   `toml:"api_key"`
	BaseURL      string   `toml:"base_url"`
	ImageBaseURL string   `toml:"image_base_url"`
	CacheTTL     Duration `toml:"cache_ttl"`
}

type StatsConfig struct {
	TTL Duration `toml:"ttl"`
}

// Duration wraps time.Duration so TOML values like "90s" round-trip as
// strings.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type EventsConfig struct {
	RetentionDays int `toml:"retention_days"`
}

// Load reads, substitutes, validates, and applies defaults.
// Missing environment variables and validation failures are aggregated into
// a single ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadWithoutValidation reads and substitutes the config but skips
// validation and defaults. Used by tooling that needs to inspect a broken
// config.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8787
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/shelfwatch.db"
	}
	if c.Stats.TTL.Duration == 0 {
		c.Stats.TTL = Duration{time.Minute}
	}
	if c.Events.RetentionDays == 0 {
		c.Events.RetentionDays = 90
	}
}
