package tracker

import (
	"context"
	"fmt"

	"shelfwatch/internal/events"
	"shelfwatch/internal/overlay"
)

// ListEpisodes returns the user's episode overlays under one of their season
// overlays, ordered by episode number.
func (t *Tracker) ListEpisodes(ctx context.Context, userID string, userSeasonID int64) ([]*overlay.EpisodeEntry, error) {
	if userID == "" {
		return nil, nil
	}
	season, err := t.overlay.GetSeason(userSeasonID, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	return t.overlay.ListEpisodesBySeason(userID, season.Overlay.SeasonID)
}

// AddEpisode creates an episode overlay under one of the user's seasons,
// find-or-creating the catalog episode first.
func (t *Tracker) AddEpisode(ctx context.Context, userID string, userSeasonID int64, number int) (*overlay.EpisodeEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if number < 0 {
		return nil, fmt.Errorf("%w: episode number must not be negative", ErrInvalidInput)
	}
	season, err := t.overlay.GetSeason(userSeasonID, userID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}

	ep, _, err := t.catalog.FindOrCreateEpisode(season.Overlay.SeasonID, number)
	if err != nil {
		return nil, err
	}
	created, err := t.overlay.EnsureEpisode(userID, ep.ID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	if !created {
		return nil, ErrDuplicate
	}

	t.invalidate(userID)
	entry, err := t.overlay.GetEpisodeByCatalog(userID, ep.ID)
	if err != nil {
		return nil, translateOverlayErr(err)
	}
	return entry, nil
}

// MarkEpisodeWatched sets a single episode overlay's watched flag. The
// parent season's flag is not recomputed: season-to-episode propagation is
// one-way.
func (t *Tracker) MarkEpisodeWatched(ctx context.Context, userID string, id int64, watched bool) (*overlay.EpisodeEntry, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	entry, err := t.overlay.SetEpisodeWatched(id, userID, watched)
	if err != nil {
		return nil, translateOverlayErr(err)
	}

	t.invalidate(userID)
	t.publish(ctx, &events.EpisodeWatched{
		BaseEvent: events.NewBaseEvent(events.TypeEpisodeWatched, events.EntityEpisode, id, userID),
		Watched:   watched,
	})
	return entry, nil
}

// DeleteEpisode removes the user's episode overlay. The catalog row stays.
func (t *Tracker) DeleteEpisode(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if _, err := t.overlay.GetEpisode(id, userID); err != nil {
		return translateOverlayErr(err)
	}
	if err := t.overlay.DeleteEpisode(id, userID); err != nil {
		return err
	}

	t.invalidate(userID)
	t.publish(ctx, &events.OverlayRemoved{
		BaseEvent: events.NewBaseEvent(events.TypeOverlayRemoved, events.EntityEpisode, id, userID),
	})
	return nil
}
