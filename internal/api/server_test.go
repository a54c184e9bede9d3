package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jeepster74/MPone/internal/domain"
	"github.com/Jeepster74/MPone/internal/observability"
	"github.com/Jeepster74/MPone/internal/store"
)

type testEnv struct {
	server *Server
	clock  *clockwork.FakeClock
}

func newTestEnv(t *testing.T, records []domain.VenueRecord) *testEnv {
	t.Helper()
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.csv")
	if records != nil {
		require.NoError(t, store.WriteRecords(storePath, records))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	sessions := NewSessionManager(map[string]string{"alex": string(hash)}, time.Hour, clock)

	srv := NewServer(":0", storePath,
		store.NewShapeCache(filepath.Join(dir, "shapes.geojson")),
		store.NewWishlist(filepath.Join(dir, "wishlist.json")),
		sessions,
		[]string{"https://dash.example"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(),
	)
	return &testEnv{server: srv, clock: clock}
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/login",
		`{"username":"alex","password":"hunter2"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, r)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, []domain.VenueRecord{{TrackID: 1, Name: "Venue"}})

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/readyz", "", nil).Code)
}

func TestReady_MissingStoreStillReady(t *testing.T) {
	env := newTestEnv(t, nil)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/readyz", "", nil).Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("valid credentials set a cookie", func(t *testing.T) {
		cookie := env.login(t)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login",
			`{"username":"alex","password":"wrong"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/login",
			`{"username":"mallory","password":"hunter2"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTracks_RequiresSession(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/tracks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTracks(t *testing.T) {
	r := domain.VenueRecord{
		TrackID:             1,
		Name:                "Karting des Fagnes",
		Country:             "Belgium",
		City:                domain.SomeText("Mariembourg"),
		Latitude:            domain.SomeNumber(50.0959),
		Longitude:           domain.SomeNumber(4.532),
		TrackLengthM:        domain.SomeNumber(1366),
		WebsiteTrackLengthM: domain.FailedNumber(),
		ReviewVelocity12M:   domain.FailedNumber(),
		DataQualityScore:    88,
	}
	env := newTestEnv(t, []domain.VenueRecord{r})
	cookie := env.login(t)

	rec := env.do(t, http.MethodGet, "/api/tracks", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var tracks []TrackDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)

	got := tracks[0]
	assert.Equal(t, "Karting des Fagnes", got.Name)
	assert.Equal(t, 88, got.DataQualityScore)

	// Failed cells surface as null, never as sentinels.
	assert.Nil(t, got.WebsiteTrackLengthM)
	assert.Nil(t, got.ReviewVelocity12M)

	// Geometry backfills the consolidated length when the site said nothing.
	require.NotNil(t, got.ConsolidatedTrackLengthM)
	assert.Equal(t, 1366.0, *got.ConsolidatedTrackLengthM)
}

func TestTracks_WebsiteLengthWins(t *testing.T) {
	r := domain.VenueRecord{
		TrackID:             1,
		Name:                "Venue",
		Country:             "Belgium",
		TrackLengthM:        domain.SomeNumber(900),
		WebsiteTrackLengthM: domain.SomeNumber(1100),
	}
	env := newTestEnv(t, []domain.VenueRecord{r})
	cookie := env.login(t)

	var tracks []TrackDTO
	rec := env.do(t, http.MethodGet, "/api/tracks", "", cookie)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	require.NotNil(t, tracks[0].ConsolidatedTrackLengthM)
	assert.Equal(t, 1100.0, *tracks[0].ConsolidatedTrackLengthM)
}

func TestTracks_MissingStoreIsEmptyDataset(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.login(t)

	rec := env.do(t, http.MethodGet, "/api/tracks", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestShapes_EmptyWithoutFile(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.login(t)

	rec := env.do(t, http.MethodGet, "/api/tracks/shapes", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var fc store.FeatureCollection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Empty(t, fc.Features)
}

func TestWishlistFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/wishlist",
		`{"track_id":42,"action":"add"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/wishlist", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"track_ids":[42]}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/wishlist",
		`{"track_id":42,"action":"remove"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"track_ids":[]}`, rec.Body.String())

	t.Run("unknown action is a client error", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/wishlist",
			`{"track_id":42,"action":"toggle"}`, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/tracks", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionExpiry(t *testing.T) {
	env := newTestEnv(t, nil)
	cookie := env.login(t)

	env.clock.Advance(2 * time.Hour)

	rec := env.do(t, http.MethodGet, "/api/tracks", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://dash.example")
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Equal(t, "https://dash.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
