package tracker

import (
	"context"
	"fmt"

	"shelfwatch/internal/catalog"
	"shelfwatch/internal/enrich"
	"shelfwatch/internal/events"
	"shelfwatch/internal/overlay"
)

// SeriesInput carries caller-supplied fields for adding a series.
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

	Rating  *int
	Opinion *string
	Status  *string
}

// AddSeries adds a series to the user's library and eagerly materializes its
// season/episode structure from enrichment. The series add succeeds even if
// materialization partially fails; the walk is best effort and logged.
func (t *Tracker) AddSeries(ctx context.Context, userID string, in SeriesInput) (*overlay.SeriesEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if in.Title == "" && in.TMDBID == nil {
		return nil, fmt.Errorf("%w: title or tmdb id required", ErrInvalidInput)
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	meta := t.enrichSeries(ctx, in)

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

	exists, err := t.overlay.HasSeriesByTitleYear(userID, key, year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	seriesID, err := t.catalog.ResolveSeries(catalog.SeriesInput{
		TMDBID:           in.TMDBID,
		Title:            in.Title,
		Year:             in.Year,
		Genres:           in.Genres,
		Director:         in.Director,
		Actors:           in.Actors,
		EpisodeLengthMin: in.EpisodeLengthMin,
		PosterURL:        in.PosterURL,
		LogoURL:          in.LogoURL,
	}, meta)
	if err != nil {
		return nil, err
	}

	o := &overlay.Series{
		UserID:   userID,
		SeriesID: seriesID,
		Rating:   in.Rating,
		Opinion:  in.Opinion,
		Status:   in.Status,
	}
	if err := t.overlay.AddSeries(o); err != nil {
		return nil, translateOverlayErr(err)
	}

	// The overlay row is committed; everything past this point is best-effort
	// structure materialization and must not fail the add.
	seasons, episodes := t.materializeSeries(ctx, userID, seriesID, meta.TMDBID)

	t.invalidate(userID)

	entry, err := t.overlay.GetSeries(o.ID, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}

	t.publish(ctx, &events.SeriesAdded{
		BaseEvent: events.NewBaseEvent(events.TypeSeriesAdded, events.EntitySeries, o.ID, userID),
		Title:     entry.Catalog.Title,
		Year:      entry.Catalog.Year,
		Seasons:   seasons,
		Episodes:  episodes,
	})
	t.log.Info("series added", "user", userID, "series_id", seriesID,
		"title", entry.Catalog.Title, "seasons", seasons, "episodes", episodes)
	return entry, nil
}

// ListSeries returns the user's series overlays matching the filter.
// Unauthenticated callers get an empty list.
func (t *Tracker) ListSeries(ctx context.Context, userID string, f overlay.SeriesFilter) ([]*overlay.SeriesEntry, int, error) {
	if userID == "" {
		return nil, 0, nil
	}
	f.UserID = userID
	return t.overlay.ListSeries(f)
}

// GetSeries returns one series overlay by id, scoped to the user.
func (t *Tracker) GetSeries(ctx context.Context, userID string, id int64) (*overlay.SeriesEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	entry, err := t.overlay.GetSeries(id, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	return entry, nil
}

// UpdateSeries patches the user-editable overlay fields.
func (t *Tracker) UpdateSeries(ctx context.Context, userID string, id int64, p overlay.Patch) (*overlay.SeriesEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if p.Rating.Set {
		if err := validateRating(p.Rating.Value); err != nil {
			return nil, err
		}
	}
	entry, err := t.overlay.UpdateSeries(id, userID, p)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	t.invalidate(userID)
	return entry, nil
}

// DeleteSeries removes the user's series overlay and cascades through their
// season and episode overlays underneath it, leaves first. Catalog rows are
// never deleted by this path.
func (t *Tracker) DeleteSeries(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	entry, err := t.overlay.GetSeries(id, userID)
	if err != nil {
		return translateOverlayErr(err)
	}
	seriesID := entry.Overlay.SeriesID

	if _, err := t.overlay.DeleteEpisodesUnderSeries(userID, seriesID); err != nil {
		return err
	}
	if _, err := t.overlay.DeleteSeasonsUnderSeries(userID, seriesID); err != nil {
		return err
	}
	if err := t.overlay.DeleteSeries(id, userID); err != nil {
		return err
	}

	t.invalidate(userID)
	t.publish(ctx, &events.OverlayRemoved{
		BaseEvent: events.NewBaseEvent(events.TypeOverlayRemoved, events.EntitySeries, id, userID),
		Title:     entry.Catalog.Title,
	})
	return nil
}

// materializeSeries walks the enriched season breakdown, find-or-creating
// catalog seasons/episodes and the user's overlays on them. Seasons and
// episodes without a number are skipped; per-item failures are logged and the
// walk continues. Returns the number of seasons and episodes reached.
func (t *Tracker) materializeSeries(ctx context.Context, userID string, seriesID int64, metaTMDBID int64) (int, int) {
	if t.enricher == nil {
		return 0, 0
	}

	tmdbID := metaTMDBID
	if tmdbID == 0 {
		row, err := t.catalog.GetSeries(seriesID)
		if err == nil && row.TMDBID != nil {
			tmdbID = *row.TMDBID
		}
	}
	if tmdbID == 0 {
		return 0, 0
	}

	breakdown, err := t.enricher.FetchSeasonBreakdown(ctx, tmdbID)
	if err != nil {
		t.log.Warn("season breakdown unavailable", "series_id", seriesID, "tmdb_id", tmdbID, "error", err)
		return 0, 0
	}

	var seasons, episodes int
	for _, sn := range breakdown {
		if sn.Number == nil {
			continue
		}
		season, _, err := t.catalog.FindOrCreateSeason(seriesID, *sn.Number)
		if err != nil {
			t.log.Warn("season materialization failed", "series_id", seriesID, "season", *sn.Number, "error", err)
			continue
		}
		if _, err := t.overlay.EnsureSeason(userID, season.ID); err != nil {
			t.log.Warn("season overlay failed", "user", userID, "season_id", season.ID, "error", err)
			continue
		}
		seasons++

		for _, en := range sn.Episodes {
			if en.Number == nil {
				continue
			}
			ep, err := t.materializeEpisode(season.ID, *en.Number, en)
			if err != nil {
				t.log.Warn("episode materialization failed", "season_id", season.ID, "episode", *en.Number, "error", err)
				continue
			}
			if _, err := t.overlay.EnsureEpisode(userID, ep.ID); err != nil {
				t.log.Warn("episode overlay failed", "user", userID, "episode_id", ep.ID, "error", err)
				continue
			}
			episodes++
		}
	}
	return seasons, episodes
}

func (t *Tracker) materializeEpisode(seasonID int64, number int, meta enrich.Episode) (*catalog.Episode, error) {
	ep, _, err := t.catalog.FindOrCreateEpisode(seasonID, number)
	if err != nil {
		return nil, err
	}
	if meta.Title != "" || meta.AirDate != nil || meta.DurationMin > 0 {
		return t.catalog.RefreshEpisode(ep.ID, meta.Title, meta.AirDate, meta.DurationMin)
	}
	return ep, nil
}

func (t *Tracker) enrichSeries(ctx context.Context, in SeriesInput) enrich.Series {
	if t.enricher == nil {
		return enrich.Series{}
	}
	id := in.TMDBID
	if id == nil {
		id = catalog.ProviderIDFromPosterURL(in.PosterURL)
	}

	var meta enrich.Series
	var err error
	switch {
	case id != nil:
		meta, err = t.enricher.FetchSeriesByID(ctx, *id)
	case in.Title != "":
		meta, err = t.enricher.SearchBestSeries(ctx, in.Title)
	}
	if err != nil {
		t.log.Warn("series enrichment unavailable", "title", in.Title, "error", err)
		return enrich.Series{}
	}
	return meta
}
