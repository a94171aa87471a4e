package config

import (
	"path/filepath"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	// 1. Write default config
	cfgPath := filepath.Join(tmp, "shelfwatch", "config.toml")
	if err := WriteDefault(cfgPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// 2. Set env vars (t.Setenv auto-restores on cleanup)
	t.Setenv("TMDB_API_KEY", "test-tmdb-key")

	// 3. Load the written config end to end
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// 4. Verify env substitution worked
	if cfg.TMDB.APIKey != "test-tmdb-key" {
		t.Errorf("expected tmdb key substituted, got %q", cfg.TMDB.APIKey)
	}

	// 5. Verify defaults applied
	if cfg.Server.Port != 8787 {
		t.Errorf("expected default port 8787, got %d", cfg.Server.Port)
	}
}
