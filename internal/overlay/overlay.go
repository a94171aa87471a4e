// Package overlay manages per-user rows layered on top of catalog entities:
// rating, opinion, status for films and series, watched state for seasons and
// episodes. Every query is scoped by user id: a row is only visible to its
// owner, which is the sole authorization boundary of this subsystem.
package overlay

import (
	"time"

	"shelfwatch/internal/catalog"
)

// Film is one user's overlay on a catalog film.
type Film struct {
	ID        int64
	UserID    string
	FilmID    int64
	Rating    *int // 0-10, nil = unrated
	Opinion   *string
	Status    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Series is one user's overlay on a catalog series.
type Series struct {
	ID        int64
	UserID    string
	SeriesID  int64
	Rating    *int
	Opinion   *string
	Status    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Season is one user's overlay on a catalog season.
type Season struct {
	ID        int64
	UserID    string
	SeasonID  int64
	Watched   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Episode is one user's overlay on a catalog episode.
type Episode struct {
	ID        int64
	UserID    string
	EpisodeID int64
	Watched   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FilmEntry is an overlay row joined with its catalog film at read time.
type FilmEntry struct {
	Overlay *Film
	Catalog *catalog.Film
}

// SeriesEntry is an overlay row joined with its catalog series.
type SeriesEntry struct {
	Overlay *Series
	Catalog *catalog.Series
}

// SeasonEntry is an overlay row joined with its catalog season.
type SeasonEntry struct {
	Overlay *Season
	Catalog *catalog.Season
}

// EpisodeEntry is an overlay row joined with its catalog episode.
type EpisodeEntry struct {
	Overlay *Episode
	Catalog *catalog.Episode
}

// OptionalInt distinguishes an absent patch field (Set false) from an
// explicit null (Set true, Value nil).
type OptionalInt struct {
	Set   bool
	Value *int
}

// OptionalString distinguishes an absent patch field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// Patch updates the user-editable overlay fields. Absent fields keep the
// stored value; explicit nulls clear it. Catalog rows are never touched.
type Patch struct {
	Rating  OptionalInt
	Opinion OptionalString
	Status  OptionalString
}
