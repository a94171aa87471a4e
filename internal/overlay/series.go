package overlay

import (
	"fmt"
	"strings"
	"time"

	"shelfwatch/internal/catalog"
)

const seriesEntryColumns = `us.id, us.user_id, us.series_id, us.rating, us.opinion, us.status, us.created_at, us.updated_at,
	s.id, s.tmdb_id, s.title, s.title_key, s.year, s.genres, s.director, s.actors, s.episode_length_min, s.poster_url, s.logo_url, s.created_at, s.updated_at`

func scanSeriesEntry(row interface{ Scan(...any) error }) (*SeriesEntry, error) {
	o := &Series{}
	c := &catalog.Series{}
	err := row.Scan(
		&o.ID, &o.UserID, &o.SeriesID, &o.Rating, &o.Opinion, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		&c.ID, &c.TMDBID, &c.Title, &c.TitleKey, &c.Year, &c.Genres, &c.Director, &c.Actors,
		&c.EpisodeLengthMin, &c.PosterURL, &c.LogoURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &SeriesEntry{Overlay: o, Catalog: c}, nil
}

// AddSeries inserts a new series overlay. Sets ID, CreatedAt, and UpdatedAt
// on the struct. Returns ErrDuplicate if the user already has an overlay on
// the same catalog series.
func (s *Store) AddSeries(sr *Series) error {
	now := time.Now()
	result, err := s.db.Exec(`
		INSERT INTO user_series (user_id, series_id, rating, opinion, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sr.UserID, sr.SeriesID, sr.Rating, sr.Opinion, sr.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert user series: %w", mapSQLiteError(err))
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

// GetSeries retrieves a series overlay with its catalog row, scoped by user.
// Returns ErrNotFound if the row doesn't exist or belongs to another user.
func (s *Store) GetSeries(id int64, userID string) (*SeriesEntry, error) {
	entry, err := scanSeriesEntry(s.db.QueryRow(
		"SELECT "+seriesEntryColumns+" FROM user_series us JOIN series s ON us.series_id = s.id WHERE us.id = ? AND us.user_id = ?",
		id, userID))
	if err != nil {
		return nil, fmt.Errorf("get user series %d: %w", id, mapSQLiteError(err))
	}
	return entry, nil
}

// ListSeries returns a user's series overlays matching the filter with
// pagination. Returns (results, totalCount, error).
func (s *Store) ListSeries(f SeriesFilter) ([]*SeriesEntry, int, error) {
	conditions := []string{"us.user_id = ?"}
	args := []any{f.UserID}

	if f.Title != "" {
		conditions = append(conditions, "s.title LIKE ?")
		args = append(args, "%"+f.Title+"%")
	}
	if f.Status != nil {
		conditions = append(conditions, "us.status = ?")
		args = append(args, *f.Status)
	}
	if f.MinRating != nil {
		conditions = append(conditions, "us.rating >= ?")
		args = append(args, *f.MinRating)
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")
	joinClause := "FROM user_series us JOIN series s ON us.series_id = s.id "

	var total int
	if err := s.db.QueryRow("SELECT COUNT(*) "+joinClause+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count user series: %w", err)
	}

	query := "SELECT " + seriesEntryColumns + " " + joinClause + whereClause + " ORDER BY us.id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list user series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*SeriesEntry
	for rows.Next() {
		entry, err := scanSeriesEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user series: %w", err)
		}
		results = append(results, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate user series: %w", err)
	}
	return results, total, nil
}

// HasSeriesByTitleYear reports whether the user already has a series overlay
// on a catalog row with this normalized title and year.
func (s *Store) HasSeriesByTitleYear(userID, titleKey string, year *int) (bool, error) {
	query := "SELECT COUNT(*) FROM user_series us JOIN series s ON us.series_id = s.id WHERE us.user_id = ? AND s.title_key = ?"
	args := []any{userID, titleKey}
	if year != nil {
		query += " AND (s.year = ? OR s.year IS NULL)"
		args = append(args, *year)
	}

	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check user series by title: %w", err)
	}
	return n > 0, nil
}

// UpdateSeries applies a patch to a series overlay, scoped by user.
// Returns ErrNotFound if the row doesn't exist or belongs to another user.
func (s *Store) UpdateSeries(id int64, userID string, p Patch) (*SeriesEntry, error) {
	if err := s.patchOverlay("user_series", id, userID, p); err != nil {
		return nil, fmt.Errorf("update user series %d: %w", id, err)
	}
	return s.GetSeries(id, userID)
}

// DeleteSeries removes a series overlay row, scoped by user. Descendant
// season/episode overlays are removed separately by the cascade helpers;
// catalog rows are never touched.
func (s *Store) DeleteSeries(id int64, userID string) error {
	_, err := s.db.Exec("DELETE FROM user_series WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("delete user series %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteEpisodesUnderSeries removes the user's episode overlays beneath
// every season of a catalog series. Returns the number of rows removed.
func (s *Store) DeleteEpisodesUnderSeries(userID string, seriesID int64) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM user_episodes WHERE user_id = ? AND episode_id IN (
			SELECT e.id FROM episodes e JOIN seasons se ON e.season_id = se.id WHERE se.series_id = ?
		)`, userID, seriesID)
	if err != nil {
		return 0, fmt.Errorf("delete user episodes under series %d: %w", seriesID, mapSQLiteError(err))
	}
	return result.RowsAffected()
}

// DeleteSeasonsUnderSeries removes the user's season overlays beneath a
// catalog series. Returns the number of rows removed.
func (s *Store) DeleteSeasonsUnderSeries(userID string, seriesID int64) (int64, error) {
	result, err := s.db.Exec(`
		DELETE FROM user_seasons WHERE user_id = ? AND season_id IN (
			SELECT id FROM seasons WHERE series_id = ?
		)`, userID, seriesID)
	if err != nil {
		return 0, fmt.Errorf("delete user seasons under series %d: %w", seriesID, mapSQLiteError(err))
	}
	return result.RowsAffected()
}
