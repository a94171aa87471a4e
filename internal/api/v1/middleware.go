package v1

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "user_id"

// withUser extracts the caller identity from the X-User-ID header and puts
// it on the request context. A missing header passes through as an empty id,
// which downstream treats as unauthenticated; a malformed one is rejected
// here so garbage never reaches the core.
func (s *Server) withUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		if raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "INVALID_USER", "X-User-ID must be a UUID")
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, id.String()))
		}
		next(w, r)
	}
}

// userID returns the authenticated user id, or "" for anonymous requests.
func userID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
