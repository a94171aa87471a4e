package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEvents_WritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	done := make(chan struct{})

	bus := NewBus(nil, nil)
	ch := bus.SubscribeAll(10)
	go func() {
		LogEvents(ch, slog.New(slog.NewTextHandler(&buf, nil)))
		close(done)
	}()

	require.NoError(t, bus.Publish(context.Background(),
		&FilmAdded{BaseEvent: NewBaseEvent(TypeFilmAdded, EntityFilm, 7, "alice"), Title: "Heat"}))
	require.NoError(t, bus.Publish(context.Background(),
		&SeasonWatched{BaseEvent: NewBaseEvent(TypeSeasonWatched, EntitySeason, 3, "bob"), Watched: true}))

	// Closing the bus closes the subscription, which ends the consumer.
	require.NoError(t, bus.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for consumer to stop")
	}

	out := buf.String()
	assert.Contains(t, out, "type="+TypeFilmAdded)
	assert.Contains(t, out, "entity_id=7")
	assert.Contains(t, out, "user=alice")
	assert.Contains(t, out, "type="+TypeSeasonWatched)
	assert.Contains(t, out, "user=bob")
}
