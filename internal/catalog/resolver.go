package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"shelfwatch/internal/enrich"
)

// posterIDPattern recognizes provider ids embedded in poster URL paths,
// e.g. ".../tmdb/603.jpg".
var posterIDPattern = regexp.MustCompile(`/tmdb/(\d+)\.[A-Za-z0-9]+$`)

// ProviderIDFromPosterURL extracts a provider id from a poster URL, or nil
// when the URL doesn't carry one.
func ProviderIDFromPosterURL(posterURL string) *int64 {
	m := posterIDPattern.FindStringSubmatch(posterURL)
	if m == nil {
		return nil
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// FilmInput carries the caller-supplied fields for catalog resolution.
// Explicit fields win over enriched ones when a new row is created.
type FilmInput struct {
	TMDBID     *int64
	Title      string
	Year       *int
	Genres     string
	Director   string
	Actors     string
	RuntimeMin int
	Budget     int64
	Revenue    int64
	PosterURL  string
	LogoURL    string
}

// SeriesInput carries the caller-supplied fields for catalog resolution.
type SeriesInput struct {
	TMDBID           *int64
	Title            string
	Year             *int
	Genres           string
	Director         string
	Actors           string
	EpisodeLengthMin int
	PosterURL        string
	LogoURL          string
}

// ResolveFilm finds or creates the canonical catalog film for the given
// input and enriched metadata, returning its id. Resolution order: provider
// id (explicit or poster-derived), then normalized title + year, then create.
// Dedup by title+year is best effort; a provider id match always wins.
func (s *Store) ResolveFilm(in FilmInput, meta enrich.Film) (int64, error) {
	if id := providerID(in.TMDBID, in.PosterURL); id != nil {
		existing, err := s.GetFilmByTMDBID(*id)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.ID, nil
		}
	}

	year := coalesceYear(in.Year, meta.Year)
	key := TitleKey(coalesceStr(in.Title, meta.Title))
	if key == "" {
		return 0, errors.New("resolve film: no title")
	}
	existing, err := s.FindFilmByTitleYear(key, year)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	f := &Film{
		TMDBID:     rowProviderID(in.TMDBID, in.PosterURL, meta.TMDBID),
		Title:      coalesceStr(in.Title, meta.Title),
		TitleKey:   key,
		Year:       year,
		Genres:     coalesceStr(in.Genres, joinList(meta.Genres)),
		Director:   coalesceStr(in.Director, meta.Director),
		Actors:     coalesceStr(in.Actors, joinList(meta.Cast)),
		RuntimeMin: coalesceInt(in.RuntimeMin, meta.RuntimeMin),
		Budget:     coalesceInt64(in.Budget, meta.Budget),
		Revenue:    coalesceInt64(in.Revenue, meta.Revenue),
		PosterURL:  coalesceStr(in.PosterURL, meta.PosterURL),
		LogoURL:    coalesceStr(in.LogoURL, meta.LogoURL),
	}
	err = s.AddFilm(f)
	if err == nil {
		return f.ID, nil
	}
	// A concurrent resolve may have created the row for the same provider id
	// between lookup and insert; fall back to the winner.
	if errors.Is(err, ErrDuplicate) && f.TMDBID != nil {
		existing, lookupErr := s.GetFilmByTMDBID(*f.TMDBID)
		if lookupErr == nil && existing != nil {
			return existing.ID, nil
		}
	}
	return 0, fmt.Errorf("resolve film: %w", err)
}

// ResolveSeries is the series analogue of ResolveFilm.
func (s *Store) ResolveSeries(in SeriesInput, meta enrich.Series) (int64, error) {
	if id := providerID(in.TMDBID, in.PosterURL); id != nil {
		existing, err := s.GetSeriesByTMDBID(*id)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return existing.ID, nil
		}
	}

	year := coalesceYear(in.Year, meta.Year)
	key := TitleKey(coalesceStr(in.Title, meta.Title))
	if key == "" {
		return 0, errors.New("resolve series: no title")
	}
	existing, err := s.FindSeriesByTitleYear(key, year)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	sr := &Series{
		TMDBID:           rowProviderID(in.TMDBID, in.PosterURL, meta.TMDBID),
		Title:            coalesceStr(in.Title, meta.Title),
		TitleKey:         key,
		Year:             year,
		Genres:           coalesceStr(in.Genres, joinList(meta.Genres)),
		Director:         coalesceStr(in.Director, meta.Director),
		Actors:           coalesceStr(in.Actors, joinList(meta.Cast)),
		EpisodeLengthMin: coalesceInt(in.EpisodeLengthMin, meta.EpisodeLengthMin),
		PosterURL:        coalesceStr(in.PosterURL, meta.PosterURL),
		LogoURL:          coalesceStr(in.LogoURL, meta.LogoURL),
	}
	err = s.AddSeries(sr)
	if err == nil {
		return sr.ID, nil
	}
	if errors.Is(err, ErrDuplicate) && sr.TMDBID != nil {
		existing, lookupErr := s.GetSeriesByTMDBID(*sr.TMDBID)
		if lookupErr == nil && existing != nil {
			return existing.ID, nil
		}
	}
	return 0, fmt.Errorf("resolve series: %w", err)
}

// providerID returns the caller-supplied provider id, or one derived from
// the poster URL. Enriched metadata is deliberately not consulted here: only
// caller-traceable ids may short-circuit resolution.
func providerID(explicit *int64, posterURL string) *int64 {
	if explicit != nil {
		return explicit
	}
	return ProviderIDFromPosterURL(posterURL)
}

// rowProviderID picks the provider id stored on a newly created row, where
// enriched metadata is an acceptable source.
func rowProviderID(explicit *int64, posterURL string, metaID int64) *int64 {
	if id := providerID(explicit, posterURL); id != nil {
		return id
	}
	if metaID != 0 {
		return &metaID
	}
	return nil
}

func coalesceStr(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func coalesceInt(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

func coalesceInt64(a, b int64) int64 {
	if a != 0 {
		return a
	}
	return b
}

func coalesceYear(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}
