// Package catalog manages the shared, deduplicated metadata rows for films,
// series, seasons, and episodes. Catalog rows are not owned by any user and
// are never deleted by overlay operations.
package catalog

import (
	"time"
)

// Film is a canonical film row shared by every user that tracks it.
type Film struct {
	ID         int64
	TMDBID     *int64 // nil when the external provider id is unknown
	Title      string
	TitleKey   string // normalized title used for dedup matching
	Year       *int   // nil = unknown
	Genres     string // comma-separated
	Director   string
	Actors     string // comma-separated
	RuntimeMin int
	Budget     int64
	Revenue    int64
	PosterURL  string
	LogoURL    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Series is a canonical series row shared by every user that tracks it.
type Series struct {
	ID               int64
	TMDBID           *int64
	Title            string
	TitleKey         string
	Year             *int
	Genres           string
	Director         string
	Actors           string
	EpisodeLengthMin int // typical episode length; series runtime is length * episode count
	PosterURL        string
	LogoURL          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Season belongs to exactly one series, unique per (series, number).
type Season struct {
	ID       int64
	SeriesID int64
	Number   int
}

// Episode belongs to exactly one season, unique per (season, number).
// Title, air date, and duration may be refreshed as better metadata arrives.
type Episode struct {
	ID          int64
	SeasonID    int64
	Number      int
	Title       string
	AirDate     *time.Time
	DurationMin int
}
