package catalog

import (
	"fmt"
)

// GetSeason retrieves a catalog season by ID.
// Returns ErrNotFound if the season does not exist.
func (s *Store) GetSeason(id int64) (*Season, error) {
	se := &Season{}
	err := s.db.QueryRow("SELECT id, series_id, number FROM seasons WHERE id = ?", id).
		Scan(&se.ID, &se.SeriesID, &se.Number)
	if err != nil {
		return nil, fmt.Errorf("get season %d: %w", id, mapSQLiteError(err))
	}
	return se, nil
}

// ListSeasons returns all catalog seasons of a series, ordered by number.
func (s *Store) ListSeasons(seriesID int64) ([]*Season, error) {
	rows, err := s.db.Query(
		"SELECT id, series_id, number FROM seasons WHERE series_id = ? ORDER BY number", seriesID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Season
	for rows.Next() {
		se := &Season{}
		if err := rows.Scan(&se.ID, &se.SeriesID, &se.Number); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		results = append(results, se)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}
	return results, nil
}

// FindOrCreateSeason finds an existing season or creates a new one. The
// insert is a single atomic statement, so a concurrent create of the same
// (series, number) pair resolves to one row.
// Returns (season, created, error) where created is true for a new row.
func (s *Store) FindOrCreateSeason(seriesID int64, number int) (*Season, bool, error) {
	se, err := s.getSeasonByNumber(seriesID, number)
	if err != nil {
		return nil, false, err
	}
	if se != nil {
		return se, false, nil
	}

	result, err := s.db.Exec(`
		INSERT INTO seasons (series_id, number) VALUES (?, ?)
		ON CONFLICT(series_id, number) DO NOTHING`, seriesID, number)
	if err != nil {
		return nil, false, fmt.Errorf("insert season: %w", mapSQLiteError(err))
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	se, err = s.getSeasonByNumber(seriesID, number)
	if err != nil {
		return nil, false, err
	}
	if se == nil {
		return nil, false, fmt.Errorf("season S%02d of series %d: %w", number, seriesID, ErrNotFound)
	}
	return se, inserted > 0, nil
}

func (s *Store) getSeasonByNumber(seriesID int64, number int) (*Season, error) {
	se := &Season{}
	err := s.db.QueryRow(
		"SELECT id, series_id, number FROM seasons WHERE series_id = ? AND number = ?",
		seriesID, number,
	).Scan(&se.ID, &se.SeriesID, &se.Number)
	if err != nil {
		if mapSQLiteError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get season by number: %w", err)
	}
	return se, nil
}
