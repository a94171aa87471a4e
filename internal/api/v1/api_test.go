package v1

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"shelfwatch/internal/events"
	"shelfwatch/internal/migrations"
	"shelfwatch/internal/stats"
	"shelfwatch/internal/tracker"
)

const (
	userAlice = "4f8a2c1e-0000-4000-8000-000000000001"
	userBob   = "4f8a2c1e-0000-4000-8000-000000000002"
)

func newTestServer(t *testing.T) *http.ServeMux {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger)
	t.Cleanup(func() { bus.Close() })

	cache := stats.NewCache(stats.NewStore(db), time.Minute)
	tr := tracker.New(db, nil, cache, bus, logger)

	mux := http.NewServeMux()
	New(tr, cache, eventLog, "test").RegisterRoutes(mux)
	return mux
}

func doRequest(t *testing.T, mux *http.ServeMux, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestAPI_AddAndGetFilm(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "POST", "/api/v1/films", userAlice, map[string]any{
		"title":  "Heat",
		"year":   1995,
		"rating": 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[filmResponse](t, rec)
	assert.Equal(t, "Heat", created.Title)
	require.NotNil(t, created.Rating)
	assert.Equal(t, 8, *created.Rating)

	rec = doRequest(t, mux, "GET", "/api/v1/films/"+itoa(created.ID), userAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[filmResponse](t, rec)
	assert.Equal(t, created.ID, got.ID)
}

func TestAPI_DuplicateFilm(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "POST", "/api/v1/films", userAlice, map[string]any{"title": "Heat", "year": 1995})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, mux, "POST", "/api/v1/films", userAlice, map[string]any{"title": "Heat", "year": 1995})
	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "DUPLICATE", resp.Code)
}

func TestAPI_Unauthenticated(t *testing.T) {
	mux := newTestServer(t)

	// Mutations without a user are rejected.
	rec := doRequest(t, mux, "POST", "/api/v1/films", "", map[string]any{"title": "Heat"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Lists without a user return empty, not an error.
	rec = doRequest(t, mux, "GET", "/api/v1/films", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[listFilmsResponse](t, rec)
	assert.Empty(t, list.Items)
	assert.Zero(t, list.Total)
}

func TestAPI_InvalidUserHeader(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "GET", "/api/v1/films", "not-a-uuid", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decode[errorResponse](t, rec)
	assert.Equal(t, "INVALID_USER", resp.Code)
}

func TestAPI_OtherUsersRowsInvisible(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "POST", "/api/v1/films", userAlice, map[string]any{"title": "Heat", "year": 1995})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[filmResponse](t, rec)

	// Bob gets an opaque 404, not a 403.
	rec = doRequest(t, mux, "GET", "/api/v1/films/"+itoa(created.ID), userBob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, mux, "DELETE", "/api/v1/films/"+itoa(created.ID), userBob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_PatchFilm(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "POST", "/api/v1/films", userAlice, map[string]any{
		"title":   "Ran",
		"rating":  9,
		"opinion": "stunning",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[filmResponse](t, rec)

	// Absent fields keep their values; explicit null clears.
	req := httptest.NewRequest("PATCH", "/api/v1/films/"+itoa(created.ID),
		bytes.NewReader([]byte(`{"rating": null, "status": "watched"}`)))
	req.Header.Set("X-User-ID", userAlice)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code, rec2.Body.String())

	var updated filmResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &updated))
	assert.Nil(t, updated.Rating)
	require.NotNil(t, updated.Opinion)
	assert.Equal(t, "stunning", *updated.Opinion)
	require.NotNil(t, updated.Status)
	assert.Equal(t, "watched", *updated.Status)
}

func TestAPI_SeriesSeasonsEpisodes(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "POST", "/api/v1/series", userAlice, map[string]any{"title": "Dark", "year": 2017})
	require.Equal(t, http.StatusCreated, rec.Code)
	series := decode[seriesResponse](t, rec)

	// No enricher configured: no seasons materialized, add one by hand.
	rec = doRequest(t, mux, "POST", "/api/v1/series/"+itoa(series.ID)+"/seasons", userAlice, map[string]any{"number": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	season := decode[seasonResponse](t, rec)
	assert.Equal(t, 1, season.Number)
	assert.False(t, season.Watched)

	rec = doRequest(t, mux, "POST", "/api/v1/seasons/"+itoa(season.ID)+"/episodes", userAlice, map[string]any{"number": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	episode := decode[episodeResponse](t, rec)

	rec = doRequest(t, mux, "PUT", "/api/v1/seasons/"+itoa(season.ID)+"/watched", userAlice, map[string]any{"watched": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[seasonResponse](t, rec).Watched)

	// Fan-out reached the episode.
	rec = doRequest(t, mux, "GET", "/api/v1/seasons/"+itoa(season.ID)+"/episodes", userAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	eps := decode[[]episodeResponse](t, rec)
	require.Len(t, eps, 1)
	assert.Equal(t, episode.ID, eps[0].ID)
	assert.True(t, eps[0].Watched)
}

func TestAPI_StatsSummary(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "GET", "/api/v1/stats/summary", userAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	doRequest(t, mux, "POST", "/api/v1/films", userAlice, map[string]any{"title": "Heat", "rating": 8})

	rec = doRequest(t, mux, "GET", "/api/v1/stats/summary", userAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[stats.Summary](t, rec)
	assert.Equal(t, 1, summary.Films)

	// Stats require a caller.
	rec = doRequest(t, mux, "GET", "/api/v1/stats/summary", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Activity(t *testing.T) {
	mux := newTestServer(t)

	doRequest(t, mux, "POST", "/api/v1/films", userAlice, map[string]any{"title": "Heat"})
	doRequest(t, mux, "POST", "/api/v1/films", userBob, map[string]any{"title": "Ran"})

	rec := doRequest(t, mux, "GET", "/api/v1/activity", userAlice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[[]activityEntry](t, rec)
	require.Len(t, feed, 1)
	assert.Equal(t, events.TypeFilmAdded, feed[0].Type)
}

func TestAPI_Status(t *testing.T) {
	mux := newTestServer(t)

	rec := doRequest(t, mux, "GET", "/api/v1/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "test", resp["version"])
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
