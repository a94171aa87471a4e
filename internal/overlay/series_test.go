package overlay

import (
	"errors"
	"testing"
)

func TestStore_AddSeries_DuplicatePerUser(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	seriesID, _, _ := seedSeries(t, db, "Dark")

	if err := store.AddSeries(&Series{UserID: testUserA, SeriesID: seriesID}); err != nil {
		t.Fatalf("AddSeries: %v", err)
	}
	err := store.AddSeries(&Series{UserID: testUserA, SeriesID: seriesID})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if err := store.AddSeries(&Series{UserID: testUserB, SeriesID: seriesID}); err != nil {
		t.Errorf("second user should be able to add: %v", err)
	}
}

func TestStore_DeleteUnderSeries_Cascade(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	seriesID, seasonID, episodes := seedSeries(t, db, "Dark")

	sr := &Series{UserID: testUserA, SeriesID: seriesID}
	if err := store.AddSeries(sr); err != nil {
		t.Fatalf("AddSeries: %v", err)
	}
	if _, err := store.EnsureSeason(testUserA, seasonID); err != nil {
		t.Fatalf("EnsureSeason: %v", err)
	}
	for _, epID := range episodes {
		if _, err := store.EnsureEpisode(testUserA, epID); err != nil {
			t.Fatalf("EnsureEpisode: %v", err)
		}
	}
	// Second user's overlays on the same catalog rows.
	if err := store.AddSeries(&Series{UserID: testUserB, SeriesID: seriesID}); err != nil {
		t.Fatalf("AddSeries: %v", err)
	}
	if _, err := store.EnsureSeason(testUserB, seasonID); err != nil {
		t.Fatalf("EnsureSeason: %v", err)
	}

	// Cascade order: episodes, then seasons, then the series overlay itself.
	deletedEpisodes, err := store.DeleteEpisodesUnderSeries(testUserA, seriesID)
	if err != nil {
		t.Fatalf("DeleteEpisodesUnderSeries: %v", err)
	}
	if deletedEpisodes != int64(len(episodes)) {
		t.Errorf("deleted episodes = %d, want %d", deletedEpisodes, len(episodes))
	}
	deletedSeasons, err := store.DeleteSeasonsUnderSeries(testUserA, seriesID)
	if err != nil {
		t.Fatalf("DeleteSeasonsUnderSeries: %v", err)
	}
	if deletedSeasons != 1 {
		t.Errorf("deleted seasons = %d, want 1", deletedSeasons)
	}
	if err := store.DeleteSeries(sr.ID, testUserA); err != nil {
		t.Fatalf("DeleteSeries: %v", err)
	}

	// Second user's overlays and the catalog rows survive.
	if _, err := store.GetSeasonByCatalog(testUserB, seasonID); err != nil {
		t.Errorf("second user's season overlay should survive: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM episodes WHERE season_id = ?", seasonID).Scan(&n); err != nil {
		t.Fatalf("count episodes: %v", err)
	}
	if n != len(episodes) {
		t.Errorf("catalog episodes should survive, got %d", n)
	}
}

func TestStore_HasSeriesByTitleYear(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	seriesID, _, _ := seedSeries(t, db, "Dark")

	if err := store.AddSeries(&Series{UserID: testUserA, SeriesID: seriesID}); err != nil {
		t.Fatalf("AddSeries: %v", err)
	}

	// Seeded series has no year: matches any requested year.
	has, err := store.HasSeriesByTitleYear(testUserA, "dark", ptr(2017))
	if err != nil {
		t.Fatalf("HasSeriesByTitleYear: %v", err)
	}
	if !has {
		t.Error("unknown stored year should match any requested year")
	}

	has, _ = store.HasSeriesByTitleYear(testUserB, "dark", nil)
	if has {
		t.Error("other user should not match")
	}
}
