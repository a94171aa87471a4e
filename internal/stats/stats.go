// Package stats computes per-user aggregate statistics over the overlay and
// catalog tables, fronted by a short-TTL cache.
package stats

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Summary is the compact aggregate shape used on dashboards.
type Summary struct {
	Films           int      `json:"films"`
	Series          int      `json:"series"`
	SeasonsWatched  int      `json:"seasons_watched"`
	EpisodesWatched int      `json:"episodes_watched"`
	MeanRating      *float64 `json:"mean_rating"` // nil when nothing is rated
	TotalWatchMin   int64    `json:"total_watch_min"`
}

// Detailed extends Summary with per-genre and per-status breakdowns.
type Detailed struct {
	Summary
	FilmWatchMin   int64         `json:"film_watch_min"`
	SeriesWatchMin int64         `json:"series_watch_min"`
	ByGenre        []GenreCount  `json:"by_genre"`
	ByStatus       []StatusCount `json:"by_status"`
}

// GenreCount is the number of tracked titles carrying a genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// StatusCount is the number of overlays carrying a status label.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Store runs the aggregation queries backing the cache.
type Store struct {
	db *sql.DB
}

// NewStore creates a new stats store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Summary computes the summary aggregate for a user.
func (s *Store) Summary(userID string) (*Summary, error) {
	sum := &Summary{}

	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM user_films WHERE user_id = ?),
			(SELECT COUNT(*) FROM user_series WHERE user_id = ?),
			(SELECT COUNT(*) FROM user_seasons WHERE user_id = ? AND watched = 1),
			(SELECT COUNT(*) FROM user_episodes WHERE user_id = ? AND watched = 1)`,
		userID, userID, userID, userID,
	).Scan(&sum.Films, &sum.Series, &sum.SeasonsWatched, &sum.EpisodesWatched)
	if err != nil {
		return nil, fmt.Errorf("count overlays: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT AVG(rating) FROM (
			SELECT rating FROM user_films WHERE user_id = ? AND rating IS NOT NULL
			UNION ALL
			SELECT rating FROM user_series WHERE user_id = ? AND rating IS NOT NULL
		)`, userID, userID,
	).Scan(&sum.MeanRating)
	if err != nil {
		return nil, fmt.Errorf("mean rating: %w", err)
	}

	filmMin, seriesMin, err := s.watchMinutes(userID)
	if err != nil {
		return nil, err
	}
	sum.TotalWatchMin = filmMin + seriesMin

	return sum, nil
}

// Detailed computes the detailed aggregate for a user.
func (s *Store) Detailed(userID string) (*Detailed, error) {
	sum, err := s.Summary(userID)
	if err != nil {
		return nil, err
	}

	d := &Detailed{Summary: *sum}
	d.FilmWatchMin, d.SeriesWatchMin, err = s.watchMinutes(userID)
	if err != nil {
		return nil, err
	}

	d.ByGenre, err = s.genreCounts(userID)
	if err != nil {
		return nil, err
	}
	d.ByStatus, err = s.statusCounts(userID)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// watchMinutes returns film and series watch time. Series time is
// episode_length * episode_count at the catalog level, not a sum of
// per-episode durations.
func (s *Store) watchMinutes(userID string) (filmMin, seriesMin int64, err error) {
	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(f.runtime_min), 0)
		FROM user_films uf JOIN films f ON uf.film_id = f.id
		WHERE uf.user_id = ?`, userID,
	).Scan(&filmMin)
	if err != nil {
		return 0, 0, fmt.Errorf("film watch minutes: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(s.episode_length_min * (
			SELECT COUNT(*) FROM episodes e JOIN seasons se ON e.season_id = se.id
			WHERE se.series_id = s.id
		)), 0)
		FROM user_series us JOIN series s ON us.series_id = s.id
		WHERE us.user_id = ?`, userID,
	).Scan(&seriesMin)
	if err != nil {
		return 0, 0, fmt.Errorf("series watch minutes: %w", err)
	}
	return filmMin, seriesMin, nil
}

// genreCounts splits the comma-separated catalog genre lists of the user's
// films and series and counts titles per genre.
func (s *Store) genreCounts(userID string) ([]GenreCount, error) {
	rows, err := s.db.Query(`
		SELECT f.genres FROM user_films uf JOIN films f ON uf.film_id = f.id WHERE uf.user_id = ?
		UNION ALL
		SELECT s.genres FROM user_series us JOIN series s ON us.series_id = s.id WHERE us.user_id = ?`,
		userID, userID)
	if err != nil {
		return nil, fmt.Errorf("genre counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var genres string
		if err := rows.Scan(&genres); err != nil {
			return nil, fmt.Errorf("scan genres: %w", err)
		}
		for _, g := range strings.Split(genres, ",") {
			g = strings.TrimSpace(g)
			if g != "" {
				counts[g]++
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}

	result := make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		result = append(result, GenreCount{Genre: g, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Genre < result[j].Genre
	})
	return result, nil
}

func (s *Store) statusCounts(userID string) ([]StatusCount, error) {
	rows, err := s.db.Query(`
		SELECT status, COUNT(*) FROM (
			SELECT status FROM user_films WHERE user_id = ? AND status IS NOT NULL
			UNION ALL
			SELECT status FROM user_series WHERE user_id = ? AND status IS NOT NULL
		)
		GROUP BY status ORDER BY COUNT(*) DESC, status`,
		userID, userID)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return result, nil
}
