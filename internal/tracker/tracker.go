// Package tracker implements the user-facing library operations: adding
// films and series against the shared catalog, per-user rating and status
// updates, season/episode watch tracking with season-to-episode fan-out,
// cascade deletes, and stats cache invalidation.
package tracker

import (
	"context"
	"database/sql"
	"log/slog"

	"shelfwatch/internal/catalog"
	"shelfwatch/internal/enrich"
	"shelfwatch/internal/events"
	"shelfwatch/internal/overlay"
	"shelfwatch/internal/stats"
)

// fanOutWorkers bounds concurrent episode upserts during season fan-out.
const fanOutWorkers = 4

// Tracker orchestrates catalog resolution, overlay mutations, and watch-state
// propagation. Every method takes the calling user's id; an empty id means
// unauthenticated.
type Tracker struct {
	catalog  *catalog.Store
	overlay  *overlay.Store
	enricher enrich.Enricher // nil disables enrichment
	stats    *stats.Cache    // nil disables caching
	bus      *events.Bus     // nil disables event publishing
	log      *slog.Logger
}

// New creates a tracker over the given database.
func New(db *sql.DB, enricher enrich.Enricher, statsCache *stats.Cache, bus *events.Bus, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		catalog:  catalog.NewStore(db),
		overlay:  overlay.NewStore(db),
		enricher: enricher,
		stats:    statsCache,
		bus:      bus,
		log:      log.With("component", "tracker"),
	}
}

func (t *Tracker) invalidate(userID string) {
	if t.stats != nil {
		t.stats.Invalidate(userID)
	}
}

func (t *Tracker) publish(ctx context.Context, e events.Event) {
	if t.bus == nil {
		return
	}
	if err := t.bus.Publish(ctx, e); err != nil {
		t.log.Warn("event publish failed", "type", e.EventType(), "error", err)
	}
}
