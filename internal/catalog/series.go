package catalog

import (
	"fmt"
	"time"
)

const seriesColumns = "id, tmdb_id, title, title_key, year, genres, director, actors, episode_length_min, poster_url, logo_url, created_at, updated_at"

func scanSeries(row interface{ Scan(...any) error }) (*Series, error) {
	sr := &Series{}
	err := row.Scan(&sr.ID, &sr.TMDBID, &sr.Title, &sr.TitleKey, &sr.Year, &sr.Genres, &sr.Director,
		&sr.Actors, &sr.EpisodeLengthMin, &sr.PosterURL, &sr.LogoURL, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return sr, nil
}

// AddSeries inserts a new catalog series. Sets ID, TitleKey, CreatedAt, and
// UpdatedAt on the struct. Returns ErrDuplicate if a row with the same
// tmdb_id already exists.
func (s *Store) AddSeries(sr *Series) error {
	now := time.Now()
	if sr.TitleKey == "" {
		sr.TitleKey = TitleKey(sr.Title)
	}
	result, err := s.db.Exec(`
		INSERT INTO series (tmdb_id, title, title_key, year, genres, director, actors, episode_length_min, poster_url, logo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sr.TMDBID, sr.Title, sr.TitleKey, sr.Year, sr.Genres, sr.Director, sr.Actors,
		sr.EpisodeLengthMin, sr.PosterURL, sr.LogoURL, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	sr.ID = id
	sr.CreatedAt = now
	sr.UpdatedAt = now
	return nil
}

// GetSeries retrieves a catalog series by ID.
// Returns ErrNotFound if the series does not exist.
func (s *Store) GetSeries(id int64) (*Series, error) {
	sr, err := scanSeries(s.db.QueryRow("SELECT "+seriesColumns+" FROM series WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, mapSQLiteError(err))
	}
	return sr, nil
}

// GetSeriesByTMDBID finds a catalog series by provider id.
// Returns nil, nil if not found.
func (s *Store) GetSeriesByTMDBID(tmdbID int64) (*Series, error) {
	sr, err := scanSeries(s.db.QueryRow("SELECT "+seriesColumns+" FROM series WHERE tmdb_id = ?", tmdbID))
	if err != nil {
		if mapSQLiteError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get series by tmdb id %d: %w", tmdbID, err)
	}
	return sr, nil
}

// FindSeriesByTitleYear finds a catalog series by normalized title and year,
// with the same wildcard-year semantics as FindFilmByTitleYear.
// Returns nil, nil if not found.
func (s *Store) FindSeriesByTitleYear(titleKey string, year *int) (*Series, error) {
	var sr *Series
	var err error
	if year == nil {
		sr, err = scanSeries(s.db.QueryRow(
			"SELECT "+seriesColumns+" FROM series WHERE title_key = ? ORDER BY id LIMIT 1", titleKey))
	} else {
		sr, err = scanSeries(s.db.QueryRow(
			"SELECT "+seriesColumns+` FROM series
			 WHERE title_key = ? AND (year = ? OR year IS NULL)
			 ORDER BY year IS NULL, id LIMIT 1`, titleKey, *year))
	}
	if err != nil {
		if mapSQLiteError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find series by title: %w", err)
	}
	return sr, nil
}
