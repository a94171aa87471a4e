package tracker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"shelfwatch/internal/events"
	"shelfwatch/internal/overlay"
)

// ListSeasons returns the user's season overlays under one of their series
// overlays, ordered by season number.
func (t *Tracker) ListSeasons(ctx context.Context, userID string, userSeriesID int64) ([]*overlay.SeasonEntry, error) {
	if userID == "" {
		return nil, nil
	}
	series, err := t.overlay.GetSeries(userSeriesID, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	return t.overlay.ListSeasonsBySeries(userID, series.Overlay.SeriesID)
}

// AddSeason creates a season overlay under one of the user's series,
// find-or-creating the catalog season first. Returns ErrDuplicate if the
// user already tracks that season number.
func (t *Tracker) AddSeason(ctx context.Context, userID string, userSeriesID int64, number int) (*overlay.SeasonEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if number < 0 {
		return nil, fmt.Errorf("%w: season number must not be negative", ErrInvalidInput)
	}
	series, err := t.overlay.GetSeries(userSeriesID, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}

	season, _, err := t.catalog.FindOrCreateSeason(series.Overlay.SeriesID, number)
	if err != nil {
		return nil, err
	}
	created, err := t.overlay.EnsureSeason(userID, season.ID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	if !created {
		return nil, ErrDuplicate
	}

	t.invalidate(userID)
	entry, err := t.overlay.GetSeasonByCatalog(userID, season.ID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	return entry, nil
}

// MarkSeasonWatched sets the season overlay's watched flag, then fans the
// same state out to every episode under the catalog season as idempotent
// upserts. The season update commits before fan-out begins, so a failure
// partway leaves a resumable state: re-invoking completes the rest.
func (t *Tracker) MarkSeasonWatched(ctx context.Context, userID string, id int64, watched bool) (*overlay.SeasonEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	entry, err := t.overlay.SetSeasonWatched(id, userID, watched)
	if err != nil {
		return nil, translateOverlayErr(err)
	}

	eps, err := t.catalog.ListEpisodes(entry.Overlay.SeasonID)
	if err != nil {
		return nil, err
	}

	// Episode upserts are independent and order-free, so they run
	// concurrently.
	g := new(errgroup.Group)
	g.SetLimit(fanOutWorkers)
	for _, ep := range eps {
		episodeID := ep.ID
		g.Go(func() error {
			return t.overlay.UpsertEpisodeWatched(userID, episodeID, watched)
		})
	}
	fanOutErr := g.Wait()

	t.invalidate(userID)
	t.publish(ctx, &events.SeasonWatched{
		BaseEvent: events.NewBaseEvent(events.TypeSeasonWatched, events.EntitySeason, id, userID),
		Watched:   watched,
		Episodes:  len(eps),
	})
	if fanOutErr != nil {
		return nil, fmt.Errorf("season %d fan-out: %w", id, fanOutErr)
	}

	t.log.Info("season watched state set", "user", userID, "season", id, "watched", watched, "episodes", len(eps))
	return entry, nil
}

// DeleteSeason removes the user's season overlay and their episode overlays
// under it. Catalog rows stay.
func (t *Tracker) DeleteSeason(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	entry, err := t.overlay.GetSeason(id, userID)
	if err != nil {
		return translateOverlayErr(err)
	}

	if _, err := t.overlay.DeleteEpisodesUnderSeason(userID, entry.Overlay.SeasonID); err != nil {
		return err
	}
	if err := t.overlay.DeleteSeason(id, userID); err != nil {
		return err
	}

	t.invalidate(userID)
	t.publish(ctx, &events.OverlayRemoved{
		BaseEvent: events.NewBaseEvent(events.TypeOverlayRemoved, events.EntitySeason, id, userID),
	})
	return nil
}
