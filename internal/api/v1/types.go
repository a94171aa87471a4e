// internal/api/v1/types.go
package v1

import (
	"encoding/json"
	"time"

	"shelfwatch/internal/overlay"
)

// filmResponse flattens a film overlay with its catalog row.
type filmResponse struct {
	ID         int64     `json:"id"`
	FilmID     int64     `json:"film_id"`
	TMDBID     *int64    `json:"tmdb_id,omitempty"`
	Title      string    `json:"title"`
	Year       *int      `json:"year,omitempty"`
	Genres     string    `json:"genres,omitempty"`
	Director   string    `json:"director,omitempty"`
	Actors     string    `json:"actors,omitempty"`
	RuntimeMin int       `json:"runtime_min,omitempty"`
	Budget     int64     `json:"budget,omitempty"`
	Revenue    int64     `json:"revenue,omitempty"`
	PosterURL  string    `json:"poster_url,omitempty"`
	LogoURL    string    `json:"logo_url,omitempty"`
	Rating     *int      `json:"rating"`
	Opinion    *string   `json:"opinion"`
	Status     *string   `json:"status"`
	AddedAt    time.Time `json:"added_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type listFilmsResponse struct {
	Items  []filmResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func filmToResponse(e *overlay.FilmEntry) filmResponse {
	return filmResponse{
		ID:         e.Overlay.ID,
		FilmID:     e.Catalog.ID,
		TMDBID:     e.Catalog.TMDBID,
		Title:      e.Catalog.Title,
		Year:       e.Catalog.Year,
		Genres:     e.Catalog.Genres,
		Director:   e.Catalog.Director,
		Actors:     e.Catalog.Actors,
		RuntimeMin: e.Catalog.RuntimeMin,
		Budget:     e.Catalog.Budget,
		Revenue:    e.Catalog.Revenue,
		PosterURL:  e.Catalog.PosterURL,
		LogoURL:    e.Catalog.LogoURL,
		Rating:     e.Overlay.Rating,
		Opinion:    e.Overlay.Opinion,
		Status:     e.Overlay.Status,
		AddedAt:    e.Overlay.CreatedAt,
		UpdatedAt:  e.Overlay.UpdatedAt,
	}
}

// seriesResponse flattens a series overlay with its catalog row.
type seriesResponse struct {
	ID               int64     `json:"id"`
	SeriesID         int64     `json:"series_id"`
	TMDBID           *int64    `json:"tmdb_id,omitempty"`
	Title            string    `json:"title"`
	Year             *int      `json:"year,omitempty"`
	Genres           string    `json:"genres,omitempty"`
	Director         string    `json:"director,omitempty"`
	Actors           string    `json:"actors,omitempty"`
	EpisodeLengthMin int       `json:"episode_length_min,omitempty"`
	PosterURL        string    `json:"poster_url,omitempty"`
	LogoURL          string    `json:"logo_url,omitempty"`
	Rating           *int      `json:"rating"`
	Opinion          *string   `json:"opinion"`
	Status           *string   `json:"status"`
	AddedAt          time.Time `json:"added_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type listSeriesResponse struct {
	Items  []seriesResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

func seriesToResponse(e *overlay.SeriesEntry) seriesResponse {
	return seriesResponse{
		ID:               e.Overlay.ID,
		SeriesID:         e.Catalog.ID,
		TMDBID:           e.Catalog.TMDBID,
		Title:            e.Catalog.Title,
		Year:             e.Catalog.Year,
		Genres:           e.Catalog.Genres,
		Director:         e.Catalog.Director,
		Actors:           e.Catalog.Actors,
		EpisodeLengthMin: e.Catalog.EpisodeLengthMin,
		PosterURL:        e.Catalog.PosterURL,
		LogoURL:          e.Catalog.LogoURL,
		Rating:           e.Overlay.Rating,
		Opinion:          e.Overlay.Opinion,
		Status:           e.Overlay.Status,
		AddedAt:          e.Overlay.CreatedAt,
		UpdatedAt:        e.Overlay.UpdatedAt,
	}
}

type seasonResponse struct {
	ID        int64     `json:"id"`
	SeasonID  int64     `json:"season_id"`
	Number    int       `json:"number"`
	Watched   bool      `json:"watched"`
	UpdatedAt time.Time `json:"updated_at"`
}

func seasonToResponse(e *overlay.SeasonEntry) seasonResponse {
	return seasonResponse{
		ID:        e.Overlay.ID,
		SeasonID:  e.Catalog.ID,
		Number:    e.Catalog.Number,
		Watched:   e.Overlay.Watched,
		UpdatedAt: e.Overlay.UpdatedAt,
	}
}

type episodeResponse struct {
	ID          int64      `json:"id"`
	EpisodeID   int64      `json:"episode_id"`
	Number      int        `json:"number"`
	Title       string     `json:"title,omitempty"`
	AirDate     *time.Time `json:"air_date,omitempty"`
	DurationMin int        `json:"duration_min,omitempty"`
	Watched     bool       `json:"watched"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func episodeToResponse(e *overlay.EpisodeEntry) episodeResponse {
	return episodeResponse{
		ID:          e.Overlay.ID,
		EpisodeID:   e.Catalog.ID,
		Number:      e.Catalog.Number,
		Title:       e.Catalog.Title,
		AirDate:     e.Catalog.AirDate,
		DurationMin: e.Catalog.DurationMin,
		Watched:     e.Overlay.Watched,
		UpdatedAt:   e.Overlay.UpdatedAt,
	}
}

// Requests

type addFilmRequest struct {
	TMDBID     *int64  `json:"tmdb_id"`
	Title      string  `json:"title"`
	Year       *int    `json:"year"`
	Genres     string  `json:"genres"`
	Director   string  `json:"director"`
	Actors     string  `json:"actors"`
	RuntimeMin int     `json:"runtime_min"`
	Budget     int64   `json:"budget"`
	Revenue    int64   `json:"revenue"`
	PosterURL  string  `json:"poster_url"`
	LogoURL    string  `json:"logo_url"`
	Rating     *int    `json:"rating"`
	Opinion    *string `json:"opinion"`
	Status     *string `json:"status"`
}

type addSeriesRequest struct {
	TMDBID           *int64  `json:"tmdb_id"`
	Title            string  `json:"title"`
	Year             *int    `json:"year"`
	Genres           string  `json:"genres"`
	Director         string  `json:"director"`
	Actors           string  `json:"actors"`
	EpisodeLengthMin int     `json:"episode_length_min"`
	PosterURL        string  `json:"poster_url"`
	LogoURL          string  `json:"logo_url"`
	Rating           *int    `json:"rating"`
	Opinion          *string `json:"opinion"`
	Status           *string `json:"status"`
}

type addSeasonRequest struct {
	Number int `json:"number"`
}

type addEpisodeRequest struct {
	Number int `json:"number"`
}

type watchedRequest struct {
	Watched bool `json:"watched"`
}

// optInt distinguishes an absent JSON field from an explicit null.
// UnmarshalJSON only runs when the key is present.
type optInt struct {
	set   bool
	value *int
}

func (o *optInt) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.value = nil
		return nil
	}
	return json.Unmarshal(b, &o.value)
}

type optString struct {
	set   bool
	value *string
}

func (o *optString) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.value = nil
		return nil
	}
	return json.Unmarshal(b, &o.value)
}

// patchRequest carries overlay field updates: absent keeps, null clears.
type patchRequest struct {
	Rating  optInt    `json:"rating"`
	Opinion optString `json:"opinion"`
	Status  optString `json:"status"`
}

func (p patchRequest) toPatch() overlay.Patch {
	return overlay.Patch{
		Rating:  overlay.OptionalInt{Set: p.Rating.set, Value: p.Rating.value},
		Opinion: overlay.OptionalString{Set: p.Opinion.set, Value: p.Opinion.value},
		Status:  overlay.OptionalString{Set: p.Status.set, Value: p.Status.value},
	}
}
