package tracker

import (
	"context"
	"errors"
	"fmt"

	"shelfwatch/internal/catalog"
	"shelfwatch/internal/enrich"
	"shelfwatch/internal/events"
	"shelfwatch/internal/overlay"
)

// FilmInput carries caller-supplied fields for adding a film. Catalog fields
// are optional; missing ones are filled from enrichment when available.
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

	Rating  *int
	Opinion *string
	Status  *string
}

// AddFilm adds a film to the user's library: enrich, check for a duplicate
// overlay, resolve the canonical catalog row, insert the overlay.
// Returns ErrDuplicate if the user already tracks this title.
func (t *Tracker) AddFilm(ctx context.Context, userID string, in FilmInput) (*overlay.FilmEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if in.Title == "" && in.TMDBID == nil {
		return nil, fmt.Errorf("%w: title or tmdb id required", ErrInvalidInput)
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	meta := t.enrichFilm(ctx, in)

	title := in.Title
	if title == "" {
		title = meta.Title
	}
	year := in.Year
	if year == nil {
		year = meta.Year
	}
	key := catalog.TitleKey(title)
	if key == "" {
		return nil, fmt.Errorf("%w: title required", ErrInvalidInput)
	}

	// Duplicate check runs on (title, year) because the catalog id isn't
	// resolved yet. The UNIQUE(user_id, film_id) constraint backstops races.
	exists, err := t.overlay.HasFilmByTitleYear(userID, key, year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	filmID, err := t.catalog.ResolveFilm(catalog.FilmInput{
		TMDBID:     in.TMDBID,
		Title:      in.Title,
		Year:       in.Year,
		Genres:     in.Genres,
		Director:   in.Director,
		Actors:     in.Actors,
		RuntimeMin: in.RuntimeMin,
		Budget:     in.Budget,
		Revenue:    in.Revenue,
		PosterURL:  in.PosterURL,
		LogoURL:    in.LogoURL,
	}, meta)
	if err != nil {
		return nil, err
	}

	o := &overlay.Film{
		UserID:  userID,
		FilmID:  filmID,
		Rating:  in.Rating,
		Opinion: in.Opinion,
		Status:  in.Status,
	}
	if err := t.overlay.AddFilm(o); err != nil {
		return nil, translateOverlayErr(err)
	}

	t.invalidate(userID)

	entry, err := t.overlay.GetFilm(o.ID, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}

	t.publish(ctx, &events.FilmAdded{
		BaseEvent: events.NewBaseEvent(events.TypeFilmAdded, events.EntityFilm, o.ID, userID),
		Title:     entry.Catalog.Title,
		Year:      entry.Catalog.Year,
	})
	t.log.Info("film added", "user", userID, "film_id", filmID, "title", entry.Catalog.Title)
	return entry, nil
}

// ListFilms returns the user's film overlays matching the filter, with the
// total count before pagination. Unauthenticated callers get an empty list.
func (t *Tracker) ListFilms(ctx context.Context, userID string, f overlay.FilmFilter) ([]*overlay.FilmEntry, int, error) {
	if userID == "" {
		return nil, 0, nil
	}
	f.UserID = userID
	return t.overlay.ListFilms(f)
}

// GetFilm returns one film overlay by id, scoped to the user.
func (t *Tracker) GetFilm(ctx context.Context, userID string, id int64) (*overlay.FilmEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	entry, err := t.overlay.GetFilm(id, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	return entry, nil
}

// UpdateFilm patches the user-editable overlay fields (rating, opinion,
// status). The catalog row is never touched.
func (t *Tracker) UpdateFilm(ctx context.Context, userID string, id int64, p overlay.Patch) (*overlay.FilmEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if p.Rating.Set {
		if err := validateRating(p.Rating.Value); err != nil {
			return nil, err
		}
	}
	entry, err := t.overlay.UpdateFilm(id, userID, p)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	t.invalidate(userID)
	return entry, nil
}

// DeleteFilm removes the user's film overlay. The shared catalog row stays.
func (t *Tracker) DeleteFilm(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	entry, err := t.overlay.GetFilm(id, userID)
	if err != nil {
		return translateOverlayErr(err)
	}
	if err := t.overlay.DeleteFilm(id, userID); err != nil {
		return err
	}
	t.invalidate(userID)
	t.publish(ctx, &events.OverlayRemoved{
		BaseEvent: events.NewBaseEvent(events.TypeOverlayRemoved, events.EntityFilm, id, userID),
		Title:     entry.Catalog.Title,
	})
	return nil
}

// enrichFilm fetches provider metadata for the input, preferring id lookups
// over title search. Failures degrade to empty metadata, never to an error.
func (t *Tracker) enrichFilm(ctx context.Context, in FilmInput) enrich.Film {
	if t.enricher == nil {
		return enrich.Film{}
	}
	id := in.TMDBID
	if id == nil {
		id = catalog.ProviderIDFromPosterURL(in.PosterURL)
	}

	var meta enrich.Film
	var err error
	switch {
	case id != nil:
		meta, err = t.enricher.FetchFilmByID(ctx, *id)
	case in.Title != "":
		meta, err = t.enricher.SearchBestFilm(ctx, in.Title)
	}
	if err != nil {
		t.log.Warn("film enrichment unavailable", "title", in.Title, "error", err)
		return enrich.Film{}
	}
	return meta
}

func validateRating(r *int) error {
	if r != nil && (*r < 0 || *r > 10) {
		return fmt.Errorf("%w: rating must be between 0 and 10", ErrInvalidInput)
	}
	return nil
}

// translateOverlayErr maps storage-level sentinels to domain-level ones.
// Anything else passes through as an internal failure.
func translateOverlayErr(err error) error {
	switch {
	case errors.Is(err, overlay.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, overlay.ErrDuplicate):
		return ErrDuplicate
	case errors.Is(err, overlay.ErrConstraint):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}
