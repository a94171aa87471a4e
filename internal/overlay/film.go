package overlay

import (
	"fmt"
	"strings"
	"time"

	"shelfwatch/internal/catalog"
)

const filmEntryColumns = `uf.id, uf.user_id, uf.film_id, uf.rating, uf.opinion, uf.status, uf.created_at, uf.updated_at,
	f.id, f.tmdb_id, f.title, f.title_key, f.year, f.genres, f.director, f.actors, f.runtime_min, f.budget, f.revenue, f.poster_url, f.logo_url, f.created_at, f.updated_at`

func scanFilmEntry(row interface{ Scan(...any) error }) (*FilmEntry, error) {
	o := &Film{}
	c := &catalog.Film{}
	err := row.Scan(
		&o.ID, &o.UserID, &o.FilmID, &o.Rating, &o.Opinion, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.TMDBID, &c.Title, &c.TitleKey, &c.Year, &c.Genres, &c.Director, &c.Actors,
		&c.RuntimeMin, &c.Budget, &c.Revenue, &c.PosterURL, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &FilmEntry{Overlay: o, Catalog: c}, nil
}

// AddFilm inserts a new film overlay. Sets ID, CreatedAt, and UpdatedAt on
// the struct. Returns ErrDuplicate if the user already has an overlay on the
// same catalog film.
func (s *Store) AddFilm(f *Film) error {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO user_films (user_id, film_id, rating, opinion, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.UserID, f.FilmID, f.Rating, f.Opinion, f.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert user film: %w", mapSQLiteError(err))
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

// GetFilm retrieves a film overlay with its catalog row, scoped by user.
// Returns ErrNotFound if the row doesn't exist or belongs to another user.
func (s *Store) GetFilm(id int64, userID string) (*FilmEntry, error) {
	entry, err := scanFilmEntry(s.db.QueryRow(
		"SELECT "+filmEntryColumns+" FROM user_films uf JOIN films f ON uf.film_id = f.id WHERE uf.id = ? AND uf.user_id = ?",
		id, userID))
	if err != nil {
		return nil, fmt.Errorf("get user film %d: %w", id, mapSQLiteError(err))
	}
	return entry, nil
}

// ListFilms returns a user's film overlays matching the filter with
// pagination. Returns (results, totalCount, error).
func (s *Store) ListFilms(f FilmFilter) ([]*FilmEntry, int, error) {
	conditions := []string{"uf.user_id = ?"}
	args := []any{f.UserID}

	if f.Title != "" {
		conditions = append(conditions, "f.title LIKE ?")
		args = append(args, "%"+f.Title+"%")
	}
	if f.Status != nil {
		conditions = append(conditions, "uf.status = ?")
		args = append(args, *f.Status)
	}
	if f.MinRating != nil {
		conditions = append(conditions, "uf.rating >= ?")
		args = append(args, *f.MinRating)
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")
	joinClause := "FROM user_films uf JOIN films f ON uf.film_id = f.id "

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) "+joinClause+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count user films: %w", err)
	}

	query := "SELECT " + filmEntryColumns + " " + joinClause + whereClause + " ORDER BY uf.id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list user films: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*FilmEntry
	for rows.Next() {
		entry, err := scanFilmEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user film: %w", err)
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user films: %w", err)
	}
	return results, total, nil
}

// HasFilmByTitleYear reports whether the user already has a film overlay on
// a catalog row with this normalized title and year (wildcard-equal when
// either year is unknown).
func (s *Store) HasFilmByTitleYear(userID, titleKey string, year *int) (bool, error) {
	query := "SELECT COUNT(*) FROM user_films uf JOIN films f ON uf.film_id = f.id WHERE uf.user_id = ? AND f.title_key = ?"
	args := []any{userID, titleKey}
	if year != nil {
		query += " AND (f.year = ? OR f.year IS NULL)"
		args = append(args, *year)
	}

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check user film by title: %w", err)
	}
	return n > 0, nil
}

// UpdateFilm applies a patch to a film overlay, scoped by user.
// Returns ErrNotFound if the row doesn't exist or belongs to another user.
func (s *Store) UpdateFilm(id int64, userID string, p Patch) (*FilmEntry, error) {
	if err := s.patchOverlay("user_films", id, userID, p); err != nil {
		return nil, fmt.Errorf("update user film %d: %w", id, err)
	}
	return s.GetFilm(id, userID)
}

// DeleteFilm removes a film overlay, scoped by user. The shared catalog row
// is left untouched. Idempotent - no error if the row does not exist.
func (s *Store) DeleteFilm(id int64, userID string) error {
	_, err := s.db.Exec("DELETE FROM user_films WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete user film %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// patchOverlay applies the shared rating/opinion/status patch semantics to a
// film or series overlay table: absent fields keep the stored value, explicit
// nulls clear it.
func (s *Store) patchOverlay(table string, id int64, userID string, p Patch) error {
	setClauses := []string{"updated_at = ?"}
	args := []any{time.Now()}

	if p.Rating.Set {
		setClauses = append(setClauses, "rating = ?")
		args = append(args, p.Rating.Value)
	}
	if p.Opinion.Set {
		setClauses = append(setClauses, "opinion = ?")
		args = append(args, p.Opinion.Value)
	}
	if p.Status.Set {
		setClauses = append(setClauses, "status = ?")
		args = append(args, p.Status.Value)
	}

	args = append(args, id, userID)
	result, err := s.db.Exec(
		"UPDATE "+table+" SET "+strings.Join(setClauses, ", ")+" WHERE id = ? AND user_id = ?",
		args...,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
