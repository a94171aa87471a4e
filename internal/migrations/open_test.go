package migrations_test

import (
	"path/filepath"
	"testing"

	"shelfwatch/internal/migrations"
)

func TestOpen_AppliesSchemaAndPragmas(t *testing.T) {
	db, err := migrations.Open(filepath.Join(t.TempDir(), "shelfwatch.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	// Schema is in place.
	if _, err := db.Exec("INSERT INTO films (title, title_key, created_at, updated_at) VALUES ('Heat', 'heat', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)"); err != nil {
		t.Fatalf("insert into films: %v", err)
	}

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode wal, got %q", mode)
	}

	var timeout int
	if err := db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("query busy_timeout: %v", err)
	}
	if timeout != 10000 {
		t.Errorf("expected busy_timeout 10000, got %d", timeout)
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys on, got %d", fk)
	}
}

func TestOpen_Reentrant(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelfwatch.db")

	db, err := migrations.Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := db.Exec("INSERT INTO films (title, title_key, created_at, updated_at) VALUES ('Ran', 'ran', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Opening the same file again re-applies the schema without clobbering
	// existing rows.
	db, err = migrations.Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM films").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 film after reopen, got %d", n)
	}
}
