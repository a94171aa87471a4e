// Package enrich provides best-effort metadata enrichment from an external
// provider. Enrichment is never required for correctness: every method returns
// a zero-value result for "no match" and errors only on transport problems,
// and callers are expected to proceed with whatever data they have.
package enrich

import (
	"context"
	"time"
)

//go:generate mockgen -source=enrich.go -destination=mocks/mock_enricher.go -package=mocks

// Enricher fetches metadata from the external provider.
type Enricher interface {
	// SearchBestFilm returns the closest film match for a title, or a zero
	// Film if nothing matches well enough.
	SearchBestFilm(ctx context.Context, title string) (Film, error)

	// SearchBestSeries returns the closest series match for a title, or a
	// zero Series if nothing matches well enough.
	SearchBestSeries(ctx context.Context, title string) (Series, error)

	// FetchFilmByID fetches film details by provider id. Returns a zero Film
	// if the id is unknown to the provider.
	FetchFilmByID(ctx context.Context, tmdbID int64) (Film, error)

	// FetchSeriesByID fetches series details by provider id. Returns a zero
	// Series if the id is unknown to the provider.
	FetchSeriesByID(ctx context.Context, tmdbID int64) (Series, error)

	// FetchSeasonBreakdown returns the season/episode structure of a series.
	// The result may be partial: seasons or episodes without a number are
	// reported as-is and skipped by callers.
	FetchSeasonBreakdown(ctx context.Context, tmdbID int64) ([]Season, error)
}

// Film is enriched film metadata. A zero value means "no data".
type Film struct {
	TMDBID     int64
	Title      string
	Year       *int
	Genres     []string
	Director   string
	Cast       []string
	RuntimeMin int
	Budget     int64
	Revenue    int64
	PosterURL  string
	LogoURL    string
}

// Empty reports whether the provider returned no usable data.
func (f Film) Empty() bool { return f.TMDBID == 0 && f.Title == "" }

// Series is enriched series metadata. A zero value means "no data".
type Series struct {
	TMDBID           int64
	Title            string
	Year             *int
	Genres           []string
	Director         string
	Cast             []string
	EpisodeLengthMin int
	PosterURL        string
	LogoURL          string
}

// Empty reports whether the provider returned no usable data.
func (s Series) Empty() bool { return s.TMDBID == 0 && s.Title == "" }

// Season is one season in a series breakdown. Number is nil when the provider
// reported the season without a usable number.
type Season struct {
	Number   *int
	Episodes []Episode
}

// Episode is one episode in a season breakdown.
type Episode struct {
	Number      *int
	Title       string
	AirDate     *time.Time
	DurationMin int
}
