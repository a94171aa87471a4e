// internal/overlay/testutil_test.go
package overlay

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"shelfwatch/internal/catalog"
	"shelfwatch/internal/migrations"
)

const (
	testUserA = "user-a"
	testUserB = "user-b"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// seedFilm inserts a catalog film and returns its id.
func seedFilm(t *testing.T, db *sql.DB, title string, year *int) int64 {
	t.Helper()
	f := &catalog.Film{Title: title, Year: year}
	if err := catalog.NewStore(db).AddFilm(f); err != nil {
		t.Fatalf("seed film: %v", err)
	}
	return f.ID
}

// seedSeries inserts a catalog series with one season of two episodes and
// returns (seriesID, seasonID, episodeIDs).
func seedSeries(t *testing.T, db *sql.DB, title string) (int64, int64, []int64) {
	t.Helper()
	cs := catalog.NewStore(db)
	sr := &catalog.Series{Title: title}
	if err := cs.AddSeries(sr); err != nil {
		t.Fatalf("seed series: %v", err)
	}
	season, _, err := cs.FindOrCreateSeason(sr.ID, 1)
	if err != nil {
		t.Fatalf("seed season: %v", err)
	}
	var episodes []int64
	for n := 1; n <= 2; n++ {
		ep, _, err := cs.FindOrCreateEpisode(season.ID, n)
		if err != nil {
			t.Fatalf("seed episode: %v", err)
		}
		episodes = append(episodes, ep.ID)
	}
	return sr.ID, season.ID, episodes
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}
