package catalog

import (
	"fmt"
	"time"
)

// GetEpisode retrieves a catalog episode by ID.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisode(id int64) (*Episode, error) {
	e := &Episode{}
	err := s.db.QueryRow(
		"SELECT id, season_id, number, title, air_date, duration_min FROM episodes WHERE id = ?", id,
	).Scan(&e.ID, &e.SeasonID, &e.Number, &e.Title, &e.AirDate, &e.DurationMin)
	if err != nil {
		return nil, fmt.Errorf("get episode %d: %w", id, mapSQLiteError(err))
	}
	return e, nil
}

// ListEpisodes returns all catalog episodes of a season, ordered by number.
func (s *Store) ListEpisodes(seasonID int64) ([]*Episode, error) {
	rows, err := s.db.Query(
		"SELECT id, season_id, number, title, air_date, duration_min FROM episodes WHERE season_id = ? ORDER BY number",
		seasonID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e := &Episode{}
		if err := rows.Scan(&e.ID, &e.SeasonID, &e.Number, &e.Title, &e.AirDate, &e.DurationMin); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return results, nil
}

// FindOrCreateEpisode finds an existing episode or creates a new one, with
// the same atomic-insert race behavior as FindOrCreateSeason.
// Returns (episode, created, error) where created is true for a new row.
func (s *Store) FindOrCreateEpisode(seasonID int64, number int) (*Episode, bool, error) {
	e, err := s.getEpisodeByNumber(seasonID, number)
	if err != nil {
		return nil, false, err
	}
	if e != nil {
		return e, false, nil
	}

	result, err := s.db.Exec(`
		INSERT INTO episodes (season_id, number) VALUES (?, ?)
		ON CONFLICT(season_id, number) DO NOTHING`, seasonID, number)
	if err != nil {
		return nil, false, fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	e, err = s.getEpisodeByNumber(seasonID, number)
	if err != nil {
		return nil, false, err
	}
	if e == nil {
		return nil, false, fmt.Errorf("episode E%02d of season %d: %w", number, seasonID, ErrNotFound)
	}
	return e, inserted > 0, nil
}

// RefreshEpisode coalesce-updates episode metadata: empty or zero incoming
// fields never overwrite stored values. Returns the refreshed row.
func (s *Store) RefreshEpisode(id int64, title string, airDate *time.Time, durationMin int) (*Episode, error) {
	_, err := s.db.Exec(`
		UPDATE episodes SET
			title = CASE WHEN ? != '' THEN ? ELSE title END,
			air_date = COALESCE(?, air_date),
			duration_min = CASE WHEN ? > 0 THEN ? ELSE duration_min END
		WHERE id = ?`,
		title, title, airDate, durationMin, durationMin, id,
	)
	if err != nil {
		return nil, fmt.Errorf("refresh episode %d: %w", id, mapSQLiteError(err))
	}
	return s.GetEpisode(id)
}

func (s *Store) getEpisodeByNumber(seasonID int64, number int) (*Episode, error) {
	e := &Episode{}
	err := s.db.QueryRow(
		"SELECT id, season_id, number, title, air_date, duration_min FROM episodes WHERE season_id = ? AND number = ?",
		seasonID, number,
	).Scan(&e.ID, &e.SeasonID, &e.Number, &e.Title, &e.AirDate, &e.DurationMin)
	if err != nil {
		if mapSQLiteError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get episode by number: %w", err)
	}
	return e, nil
}
