// Package v1 implements the REST API over the tracker core.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shelfwatch/internal/events"
	"shelfwatch/internal/overlay"
	"shelfwatch/internal/stats"
	"shelfwatch/internal/tracker"
)

// Server is the v1 API server.
type Server struct {
	tracker *tracker.Tracker
	stats   *stats.Cache
	log     *events.EventLog // nil disables the activity endpoint
	version string
}

// New creates a new v1 API server.
func New(t *tracker.Tracker, statsCache *stats.Cache, eventLog *events.EventLog, version string) *Server {
	return &Server{tracker: t, stats: statsCache, log: eventLog, version: version}
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Films
	mux.HandleFunc("GET /api/v1/films", s.withUser(s.listFilms))
	mux.HandleFunc("POST /api/v1/films", s.withUser(s.addFilm))
	mux.HandleFunc("GET /api/v1/films/{id}", s.withUser(s.getFilm))
	mux.HandleFunc("PATCH /api/v1/films/{id}", s.withUser(s.updateFilm))
	mux.HandleFunc("DELETE /api/v1/films/{id}", s.withUser(s.deleteFilm))

	// Series
	mux.HandleFunc("GET /api/v1/series", s.withUser(s.listSeries))
	mux.HandleFunc("POST /api/v1/series", s.withUser(s.addSeries))
	mux.HandleFunc("GET /api/v1/series/{id}", s.withUser(s.getSeries))
	mux.HandleFunc("PATCH /api/v1/series/{id}", s.withUser(s.updateSeries))
	mux.HandleFunc("DELETE /api/v1/series/{id}", s.withUser(s.deleteSeries))

	// Seasons
	mux.HandleFunc("GET /api/v1/series/{id}/seasons", s.withUser(s.listSeasons))
	mux.HandleFunc("POST /api/v1/series/{id}/seasons", s.withUser(s.addSeason))
	mux.HandleFunc("PUT /api/v1/seasons/{id}/watched", s.withUser(s.markSeasonWatched))
	mux.HandleFunc("DELETE /api/v1/seasons/{id}", s.withUser(s.deleteSeason))

	// Episodes
	mux.HandleFunc("GET /api/v1/seasons/{id}/episodes", s.withUser(s.listEpisodes))
	mux.HandleFunc("POST /api/v1/seasons/{id}/episodes", s.withUser(s.addEpisode))
	mux.HandleFunc("PUT /api/v1/episodes/{id}/watched", s.withUser(s.markEpisodeWatched))
	mux.HandleFunc("DELETE /api/v1/episodes/{id}", s.withUser(s.deleteEpisode))

	// Stats
	mux.HandleFunc("GET /api/v1/stats/summary", s.withUser(s.statsSummary))
	mux.HandleFunc("GET /api/v1/stats/detailed", s.withUser(s.statsDetailed))

	// Activity
	mux.HandleFunc("GET /api/v1/activity", s.withUser(s.listActivity))

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeTrackerError maps core sentinels to HTTP statuses. Rows owned by
// other users come back as ErrNotFound, so no 403 ever leaks existence.
func writeTrackerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "X-User-ID header required")
	case errors.Is(err, tracker.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, tracker.ErrDuplicate):
		writeError(w, http.StatusConflict, "DUPLICATE", "Already in your library")
	case errors.Is(err, tracker.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
	}
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

// Film handlers

func (s *Server) listFilms(w http.ResponseWriter, r *http.Request) {
	filter := overlay.FilmFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
		Status: queryString(r, "status"),
	}
	if title := queryString(r, "title"); title != nil {
		filter.Title = *title
	}
	if min := queryString(r, "min_rating"); min != nil {
		if v, err := strconv.Atoi(*min); err == nil {
			filter.MinRating = &v
		}
	}

	items, total, err := s.tracker.ListFilms(r.Context(), userID(r), filter)
	if err != nil {
		writeTrackerError(w, err)
		return
	}

	resp := listFilmsResponse{
		Items:  make([]filmResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, e := range items {
		resp.Items[i] = filmToResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	entry, err := s.tracker.GetFilm(r.Context(), userID(r), id)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToResponse(entry))
}

func (s *Server) addFilm(w http.ResponseWriter, r *http.Request) {
	var req addFilmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.AddFilm(r.Context(), userID(r), tracker.FilmInput{
		TMDBID:     req.TMDBID,
		Title:      req.Title,
		Year:       req.Year,
		Genres:     req.Genres,
		Director:   req.Director,
		Actors:     req.Actors,
		RuntimeMin: req.RuntimeMin,
		Budget:     req.Budget,
		Revenue:    req.Revenue,
		PosterURL:  req.PosterURL,
		LogoURL:    req.LogoURL,
		Rating:     req.Rating,
		Opinion:    req.Opinion,
		Status:     req.Status,
	})
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, filmToResponse(entry))
}

func (s *Server) updateFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.UpdateFilm(r.Context(), userID(r), id, req.toPatch())
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, filmToResponse(entry))
}

func (s *Server) deleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.tracker.DeleteFilm(r.Context(), userID(r), id); err != nil {
		writeTrackerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Series handlers

func (s *Server) listSeries(w http.ResponseWriter, r *http.Request) {
	filter := overlay.SeriesFilter{
		Limit:  queryInt(r, "limit", 50),
		Offset: queryInt(r, "offset", 0),
		Status: queryString(r, "status"),
	}
	if title := queryString(r, "title"); title != nil {
		filter.Title = *title
	}
	if min := queryString(r, "min_rating"); min != nil {
		if v, err := strconv.Atoi(*min); err == nil {
			filter.MinRating = &v
		}
	}

	items, total, err := s.tracker.ListSeries(r.Context(), userID(r), filter)
	if err != nil {
		writeTrackerError(w, err)
		return
	}

	resp := listSeriesResponse{
		Items:  make([]seriesResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, e := range items {
		resp.Items[i] = seriesToResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	entry, err := s.tracker.GetSeries(r.Context(), userID(r), id)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seriesToResponse(entry))
}

func (s *Server) addSeries(w http.ResponseWriter, r *http.Request) {
	var req addSeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.AddSeries(r.Context(), userID(r), tracker.SeriesInput{
		TMDBID:           req.TMDBID,
		Title:            req.Title,
		Year:             req.Year,
		Genres:           req.Genres,
		Director:         req.Director,
		Actors:           req.Actors,
		EpisodeLengthMin: req.EpisodeLengthMin,
		PosterURL:        req.PosterURL,
		LogoURL:          req.LogoURL,
		Rating:           req.Rating,
		Opinion:          req.Opinion,
		Status:           req.Status,
	})
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seriesToResponse(entry))
}

func (s *Server) updateSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.UpdateSeries(r.Context(), userID(r), id, req.toPatch())
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seriesToResponse(entry))
}

func (s *Server) deleteSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.tracker.DeleteSeries(r.Context(), userID(r), id); err != nil {
		writeTrackerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Season handlers

func (s *Server) listSeasons(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	items, err := s.tracker.ListSeasons(r.Context(), userID(r), id)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	resp := make([]seasonResponse, len(items))
	for i, e := range items {
		resp[i] = seasonToResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addSeason(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req addSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.AddSeason(r.Context(), userID(r), id, req.Number)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, seasonToResponse(entry))
}

func (s *Server) markSeasonWatched(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req watchedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.MarkSeasonWatched(r.Context(), userID(r), id, req.Watched)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, seasonToResponse(entry))
}

func (s *Server) deleteSeason(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.tracker.DeleteSeason(r.Context(), userID(r), id); err != nil {
		writeTrackerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Episode handlers

func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	items, err := s.tracker.ListEpisodes(r.Context(), userID(r), id)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	resp := make([]episodeResponse, len(items))
	for i, e := range items {
		resp[i] = episodeToResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req addEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.AddEpisode(r.Context(), userID(r), id, req.Number)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, episodeToResponse(entry))
}

func (s *Server) markEpisodeWatched(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req watchedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entry, err := s.tracker.MarkEpisodeWatched(r.Context(), userID(r), id, req.Watched)
	if err != nil {
		writeTrackerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, episodeToResponse(entry))
}

func (s *Server) deleteEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.tracker.DeleteEpisode(r.Context(), userID(r), id); err != nil {
		writeTrackerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handlers

func (s *Server) statsSummary(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeTrackerError(w, tracker.ErrUnauthenticated)
		return
	}
	summary, err := s.stats.Summary(uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) statsDetailed(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeTrackerError(w, tracker.ErrUnauthenticated)
		return
	}
	detailed, err := s.stats.Detailed(uid)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, detailed)
}

// System handlers

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}
