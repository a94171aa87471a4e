package overlay

import (
	"fmt"
	"time"

	"shelfwatch/internal/catalog"
)

const seasonEntryColumns = `us.id, us.user_id, us.season_id, us.watched, us.created_at, us.updated_at,
	se.id, se.series_id, se.number`

func scanSeasonEntry(row interface{ Scan(...any) error }) (*SeasonEntry, error) {
	o := &Season{}
	c := &catalog.Season{}
	err := row.Scan(
		&o.ID, &o.UserID, &o.SeasonID, &o.Watched, &o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.SeriesID, &c.Number,
	)
	if err != nil {
		return nil, err
	}
	return &SeasonEntry{Overlay: o, Catalog: c}, nil
}

// EnsureSeason creates the user's overlay on a catalog season if it doesn't
// exist yet, defaulting to watched=false. Returns true if a row was created.
func (s *Store) EnsureSeason(userID string, seasonID int64) (bool, error) {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO user_seasons (user_id, season_id, watched, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT(user_id, season_id) DO NOTHING`,
		userID, seasonID, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("ensure user season: %w", mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// GetSeason retrieves a season overlay with its catalog row, scoped by user.
// Returns ErrNotFound if the row doesn't exist or belongs to another user.
func (s *Store) GetSeason(id int64, userID string) (*SeasonEntry, error) {
	entry, err := scanSeasonEntry(s.db.QueryRow(
		"SELECT "+seasonEntryColumns+" FROM user_seasons us JOIN seasons se ON us.season_id = se.id WHERE us.id = ? AND us.user_id = ?",
		id, userID))
	if err != nil {
		return nil, fmt.Errorf("get user season %d: %w", id, mapSQLiteError(err))
	}
	return entry, nil
}

// GetSeasonByCatalog retrieves the user's overlay on a catalog season.
// Returns ErrNotFound if the user has none.
func (s *Store) GetSeasonByCatalog(userID string, seasonID int64) (*SeasonEntry, error) {
	entry, err := scanSeasonEntry(s.db.QueryRow(
		"SELECT "+seasonEntryColumns+" FROM user_seasons us JOIN seasons se ON us.season_id = se.id WHERE us.season_id = ? AND us.user_id = ?",
		seasonID, userID))
	if err != nil {
		return nil, fmt.Errorf("get user season by catalog %d: %w", seasonID, mapSQLiteError(err))
	}
	return entry, nil
}

// ListSeasonsBySeries returns the user's season overlays under a catalog
// series, ordered by season number.
func (s *Store) ListSeasonsBySeries(userID string, seriesID int64) ([]*SeasonEntry, error) {
	rows, err := s.db.Query(
		"SELECT "+seasonEntryColumns+" FROM user_seasons us JOIN seasons se ON us.season_id = se.id WHERE se.series_id = ? AND us.user_id = ? ORDER BY se.number",
		seriesID, userID)
	if err != nil {
		return nil, fmt.Errorf("list user seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*SeasonEntry
	for rows.Next() {
		entry, err := scanSeasonEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user season: %w", err)
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user seasons: %w", err)
	}
	return results, nil
}

// SetSeasonWatched updates the watched flag of a season overlay, scoped by
// user. Returns ErrNotFound if the row doesn't exist or belongs to another
// user.
func (s *Store) SetSeasonWatched(id int64, userID string, watched bool) (*SeasonEntry, error) {
	result, err := s.db.Exec(
		"UPDATE user_seasons SET watched = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		watched, time.Now(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("set user season %d watched: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("set user season %d watched: %w", id, ErrNotFound)
	}
	return s.GetSeason(id, userID)
}

// DeleteSeason removes a season overlay, scoped by user.
// Idempotent - no error if the row does not exist.
func (s *Store) DeleteSeason(id int64, userID string) error {
	_, err := s.db.Exec("DELETE FROM user_seasons WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete user season %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteEpisodesUnderSeason removes the user's episode overlays beneath a
// catalog season. Returns the number of rows removed.
func (s *Store) DeleteEpisodesUnderSeason(userID string, seasonID int64) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM user_episodes WHERE user_id = ? AND episode_id IN (
			SELECT id FROM episodes WHERE season_id = ?
		)`, userID, seasonID)
	if err != nil {
		return 0, fmt.Errorf("delete user episodes under season %d: %w", seasonID, mapSQLiteError(err))
	}
	return result.RowsAffected()
}
