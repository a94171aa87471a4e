package events

import "log/slog"

// LogEvents consumes events from ch and writes one structured log line per
// event. It returns when ch is closed, so running it against a bus
// subscription ends when the bus shuts down.
func LogEvents(ch <-chan Event, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for e := range ch {
		logger.Info("activity",
			"type", e.EventType(),
			"entity", e.EntityType(),
			"entity_id", e.EntityID(),
			"user", e.UserID())
	}
}
