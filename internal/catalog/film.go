package catalog

import (
	"fmt"
	"time"
)

const filmColumns = "id, tmdb_id, title, title_key, year, genres, director, actors, runtime_min, budget, revenue, poster_url, logo_url, created_at, updated_at"

func scanFilm(row interface{ Scan(...any) error }) (*Film, error) {
	f := &Film{}
	err := row.Scan(&f.ID, &f.TMDBID, &f.Title, &f.TitleKey, &f.Year, &f.Genres, &f.Director, &f.Actors,
		&f.RuntimeMin, &f.Budget, &f.Revenue, &f.PosterURL, &f.LogoURL, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// AddFilm inserts a new catalog film. Sets ID, TitleKey, CreatedAt, and
// UpdatedAt on the struct. Returns ErrDuplicate if a row with the same
// tmdb_id already exists.
func (s *Store) AddFilm(f *Film) error {
	now := time.Now()
	if f.TitleKey == "" {
		f.TitleKey = TitleKey(f.Title)
	}
	result, err := s.db.Exec(`
		INSERT INTO films (tmdb_id, title, title_key, year, genres, director, actors, runtime_min, budget, revenue, poster_url, logo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.TMDBID, f.Title, f.TitleKey, f.Year, f.Genres, f.Director, f.Actors,
		f.RuntimeMin, f.Budget, f.Revenue, f.PosterURL, f.LogoURL, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert film: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	f.ID = id
	f.CreatedAt = now
	f.UpdatedAt = now
	return nil
}

// GetFilm retrieves a catalog film by ID.
// Returns ErrNotFound if the film does not exist.
func (s *Store) GetFilm(id int64) (*Film, error) {
	f, err := scanFilm(s.db.QueryRow("SELECT "+filmColumns+" FROM films WHERE id = ?", id))
	if err != nil {
		return nil, fmt.Errorf("get film %d: %w", id, mapSQLiteError(err))
	}
	return f, nil
}

// GetFilmByTMDBID finds a catalog film by provider id.
// Returns nil, nil if not found.
func (s *Store) GetFilmByTMDBID(tmdbID int64) (*Film, error) {
	f, err := scanFilm(s.db.QueryRow("SELECT "+filmColumns+" FROM films WHERE tmdb_id = ?", tmdbID))
	if err != nil {
		if mapSQLiteError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get film by tmdb id %d: %w", tmdbID, err)
	}
	return f, nil
}

// FindFilmByTitleYear finds a catalog film by normalized title and year.
// A nil year matches any row with the title; a row with unknown year matches
// any requested year. Rows with an exact year match win over unknown-year
// rows. Returns nil, nil if not found.
func (s *Store) FindFilmByTitleYear(titleKey string, year *int) (*Film, error) {
	var f *Film
	var err error
	if year == nil {
		f, err = scanFilm(s.db.QueryRow(
			"SELECT "+filmColumns+" FROM films WHERE title_key = ? ORDER BY id LIMIT 1", titleKey))
	} else {
		f, err = scanFilm(s.db.QueryRow(
			"SELECT "+filmColumns+` FROM films
			 WHERE title_key = ? AND (year = ? OR year IS NULL)
			 ORDER BY year IS NULL, id LIMIT 1`, titleKey, *year))
	}
	if err != nil {
		if mapSQLiteError(err) == ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find film by title: %w", err)
	}
	return f, nil
}
