package overlay

import (
	"fmt"
	"time"

	"shelfwatch/internal/catalog"
)

const episodeEntryColumns = `ue.id, ue.user_id, ue.episode_id, ue.watched, ue.created_at, ue.updated_at,
	e.id, e.season_id, e.number, e.title, e.air_date, e.duration_min`

func scanEpisodeEntry(row interface{ Scan(...any) error }) (*EpisodeEntry, error) {
	o := &Episode{}
	c := &catalog.Episode{}
	err := row.Scan(
		&o.ID, &o.UserID, &o.EpisodeID, &o.Watched, &o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.SeasonID, &c.Number, &c.Title, &c.AirDate, &c.DurationMin,
	)
	if err != nil {
		return nil, err
	}
	return &EpisodeEntry{Overlay: o, Catalog: c}, nil
}

// EnsureEpisode creates the user's overlay on a catalog episode if it
// doesn't exist yet, defaulting to watched=false. Returns true if a row was
// created.
func (s *Store) EnsureEpisode(userID string, episodeID int64) (bool, error) {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO user_episodes (user_id, episode_id, watched, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT(user_id, episode_id) DO NOTHING`,
		userID, episodeID, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("ensure user episode: %w", mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// UpsertEpisodeWatched creates or updates the user's overlay on a catalog
// episode with the given watched state, as one atomic statement. This is the
// fan-out unit for season watch propagation: calls are idempotent and
// order-independent across episodes.
func (s *Store) UpsertEpisodeWatched(userID string, episodeID int64, watched bool) error {
	now := time.Now()
	_, err := s.db.Exec(`
		INSERT INTO user_episodes (user_id, episode_id, watched, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, episode_id) DO UPDATE SET watched = excluded.watched, updated_at = excluded.updated_at`,
		userID, episodeID, watched, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert user episode watched: %w", mapSQLiteError(err))
	}
	return nil
}

// GetEpisode retrieves an episode overlay with its catalog row, scoped by
// user. Returns ErrNotFound if the row doesn't exist or belongs to another
// user.
func (s *Store) GetEpisode(id int64, userID string) (*EpisodeEntry, error) {
	entry, err := scanEpisodeEntry(s.db.QueryRow(
		"SELECT "+episodeEntryColumns+" FROM user_episodes ue JOIN episodes e ON ue.episode_id = e.id WHERE ue.id = ? AND ue.user_id = ?",
		id, userID))
	if err != nil {
		return nil, fmt.Errorf("get user episode %d: %w", id, mapSQLiteError(err))
	}
	return entry, nil
}

// GetEpisodeByCatalog retrieves the user's overlay on a catalog episode.
// Returns ErrNotFound if the user has no overlay on it.
func (s *Store) GetEpisodeByCatalog(userID string, episodeID int64) (*EpisodeEntry, error) {
	entry, err := scanEpisodeEntry(s.db.QueryRow(
		"SELECT "+episodeEntryColumns+" FROM user_episodes ue JOIN episodes e ON ue.episode_id = e.id WHERE ue.episode_id = ? AND ue.user_id = ?",
		episodeID, userID))
	if err != nil {
		return nil, fmt.Errorf("get user episode by catalog %d: %w", episodeID, mapSQLiteError(err))
	}
	return entry, nil
}

// ListEpisodesBySeason returns the user's episode overlays under a catalog
// season, ordered by episode number.
func (s *Store) ListEpisodesBySeason(userID string, seasonID int64) ([]*EpisodeEntry, error) {
	rows, err := s.db.Query(
		"SELECT "+episodeEntryColumns+" FROM user_episodes ue JOIN episodes e ON ue.episode_id = e.id WHERE e.season_id = ? AND ue.user_id = ? ORDER BY e.number",
		seasonID, userID)
	if err != nil {
		return nil, fmt.Errorf("list user episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*EpisodeEntry
	for rows.Next() {
		entry, err := scanEpisodeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user episode: %w", err)
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user episodes: %w", err)
	}
	return results, nil
}

// SetEpisodeWatched updates the watched flag of a single episode overlay,
// scoped by user. The parent season's watched flag is deliberately left
// alone. Returns ErrNotFound if the row doesn't exist or belongs to another
// user.
func (s *Store) SetEpisodeWatched(id int64, userID string, watched bool) (*EpisodeEntry, error) {
	result, err := s.db.Exec(
		"UPDATE user_episodes SET watched = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		watched, time.Now(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("set user episode %d watched: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("set user episode %d watched: %w", id, ErrNotFound)
	}
	return s.GetEpisode(id, userID)
}

// DeleteEpisode removes an episode overlay, scoped by user.
// Idempotent - no error if the row does not exist.
func (s *Store) DeleteEpisode(id int64, userID string) error {
	_, err := s.db.Exec("DELETE FROM user_episodes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete user episode %d: %w", id, mapSQLiteError(err))
	}
	return nil
}
