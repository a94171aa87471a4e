package v1

import (
	"net/http"
	"time"

	"shelfwatch/internal/tracker"
)

// activityEntry is one row of the user's activity feed.
type activityEntry struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Payload    string    `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// listActivity returns the user's recent library events, newest first.
func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeTrackerError(w, tracker.ErrUnauthenticated)
		return
	}
	if s.log == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Activity log not configured")
		return
	}

	limit := queryInt(r, "limit", 50)
	events, err := s.log.Recent(uid, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}

	resp := make([]activityEntry, len(events))
	for i, e := range events {
		resp[i] = activityEntry{
			ID:         e.ID,
			Type:       e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
