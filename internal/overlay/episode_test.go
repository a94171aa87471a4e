package overlay

import (
	"errors"
	"testing"
)

func TestStore_UpsertEpisodeWatched(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	_, _, episodes := seedSeries(t, db, "Dark")
	epID := episodes[0]

	// First call creates the overlay.
	if err := store.UpsertEpisodeWatched(testUserA, epID, true); err != nil {
		t.Fatalf("UpsertEpisodeWatched: %v", err)
	}
	entry, err := store.GetEpisodeByCatalog(testUserA, epID)
	if err != nil {
		t.Fatalf("GetEpisodeByCatalog: %v", err)
	}
	if !entry.Overlay.Watched {
		t.Error("upsert should set watched on create")
	}

	// Second call updates in place, idempotently.
	if err := store.UpsertEpisodeWatched(testUserA, epID, false); err != nil {
		t.Fatalf("UpsertEpisodeWatched: %v", err)
	}
	updated, err := store.GetEpisodeByCatalog(testUserA, epID)
	if err != nil {
		t.Fatalf("GetEpisodeByCatalog: %v", err)
	}
	if updated.Overlay.Watched {
		t.Error("upsert should update watched on conflict")
	}
	if updated.Overlay.ID != entry.Overlay.ID {
		t.Error("upsert should reuse the existing row")
	}
}

func TestStore_SetEpisodeWatched_SeasonUntouched(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	_, seasonID, episodes := seedSeries(t, db, "Dark")

	if _, err := store.EnsureSeason(testUserA, seasonID); err != nil {
		t.Fatalf("EnsureSeason: %v", err)
	}
	if _, err := store.EnsureEpisode(testUserA, episodes[0]); err != nil {
		t.Fatalf("EnsureEpisode: %v", err)
	}
	entry, err := store.GetEpisodeByCatalog(testUserA, episodes[0])
	if err != nil {
		t.Fatalf("GetEpisodeByCatalog: %v", err)
	}

	if _, err := store.SetEpisodeWatched(entry.Overlay.ID, testUserA, true); err != nil {
		t.Fatalf("SetEpisodeWatched: %v", err)
	}

	season, err := store.GetSeasonByCatalog(testUserA, seasonID)
	if err != nil {
		t.Fatalf("GetSeasonByCatalog: %v", err)
	}
	if season.Overlay.Watched {
		t.Error("episode watch must not touch the parent season flag")
	}
}

func TestStore_GetEpisode_OtherUser(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	_, _, episodes := seedSeries(t, db, "Dark")

	if _, err := store.EnsureEpisode(testUserA, episodes[0]); err != nil {
		t.Fatalf("EnsureEpisode: %v", err)
	}
	entry, err := store.GetEpisodeByCatalog(testUserA, episodes[0])
	if err != nil {
		t.Fatalf("GetEpisodeByCatalog: %v", err)
	}

	if _, err := store.GetEpisode(entry.Overlay.ID, testUserB); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's row should be invisible: got %v", err)
	}
}

func TestStore_DeleteEpisode_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	_, _, episodes := seedSeries(t, db, "Dark")

	if _, err := store.EnsureEpisode(testUserA, episodes[0]); err != nil {
		t.Fatalf("EnsureEpisode: %v", err)
	}
	entry, err := store.GetEpisodeByCatalog(testUserA, episodes[0])
	if err != nil {
		t.Fatalf("GetEpisodeByCatalog: %v", err)
	}

	if err := store.DeleteEpisode(entry.Overlay.ID, testUserA); err != nil {
		t.Fatalf("DeleteEpisode: %v", err)
	}
	if err := store.DeleteEpisode(entry.Overlay.ID, testUserA); err != nil {
		t.Errorf("second delete should be a no-op: %v", err)
	}
}
