package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/arcade-be/internal/cache"
	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage/memory"
)

type spyCatalog struct {
	mu          sync.Mutex
	games       []models.PublicGame
	cached      bool
	sets        int
	invalidated int
}

func (s *spyCatalog) Get(context.Context) ([]models.PublicGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cached {
		return nil, cache.ErrMiss
	}
	return s.games, nil
}

func (s *spyCatalog) Set(_ context.Context, games []models.PublicGame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games, s.cached = games, true
	s.sets++
	return nil
}

func (s *spyCatalog) Invalidate(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games, s.cached = nil, false
	s.invalidated++
	return nil
}

func (s *spyCatalog) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gamesRouter(h *GamesHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/games", h.ListPublic)
	r.Get("/admin/games", h.List)
	r.Post("/admin/games", h.Create)
	r.Get("/admin/games/{id}", h.Get)
	r.Put("/admin/games/{id}", h.Update)
	r.Put("/admin/games/{id}/toggle", h.Toggle)
	r.Delete("/admin/games/{id}", h.Delete)
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListPublicReadsThroughCache(t *testing.T) {
	store := memory.New()
	spy := &spyCatalog{}
	router := gamesRouter(NewGamesHandler(store, spy, discardLogger()))

	_, err := store.CreateGame(context.Background(), models.Game{Slug: "snake", Title: "Snake", IsActive: true})
	require.NoError(t, err)

	rec := serve(t, router, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, spy.sets)

	// A second read is served from the cache without another Set.
	rec = serve(t, router, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, spy.sets)

	var games []models.PublicGame
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "snake", games[0].Slug)
}

func TestToggleInvalidatesCatalog(t *testing.T) {
	store := memory.New()
	spy := &spyCatalog{}
	router := gamesRouter(NewGamesHandler(store, spy, discardLogger()))

	game, err := store.CreateGame(context.Background(), models.Game{Slug: "snake", Title: "Snake", IsActive: true})
	require.NoError(t, err)

	rec := serve(t, router, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, router, http.MethodPut, "/admin/games/"+game.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, spy.invalidated)

	rec = serve(t, router, http.MethodGet, "/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestFailedWritesLeaveCacheAlone(t *testing.T) {
	spy := &spyCatalog{}
	router := gamesRouter(NewGamesHandler(memory.New(), spy, discardLogger()))

	rec := serve(t, router, http.MethodPut, "/admin/games/0123456789abcdef01234567/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Game not found")
	assert.Zero(t, spy.invalidated)
}

func TestGameErrorMapping(t *testing.T) {
	store := memory.New()
	router := gamesRouter(NewGamesHandler(store, nil, discardLogger()))
	other, err := store.CreateGame(context.Background(), models.Game{Slug: "tetris", Title: "Tetris", IsActive: true})
	require.NoError(t, err)
	target, err := store.CreateGame(context.Background(), models.Game{Slug: "snake", Title: "Snake", IsActive: true})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		msg    string
	}{
		{"malformed body", http.MethodPost, "/admin/games", "{", http.StatusBadRequest, "Invalid request body"},
		{"missing title", http.MethodPost, "/admin/games", `{"id":"x"}`, http.StatusBadRequest, "Game id and title are required"},
		{"duplicate id", http.MethodPost, "/admin/games", `{"id":"tetris","title":"T"}`, http.StatusBadRequest, "Game ID already exists"},
		{"update onto taken id", http.MethodPut, "/admin/games/" + target.ID, `{"id":"` + other.Slug + `","title":"S"}`, http.StatusBadRequest, "Game ID already exists"},
		{"update unknown", http.MethodPut, "/admin/games/0123456789abcdef01234567", `{"id":"y","title":"Y"}`, http.StatusNotFound, "Game not found"},
		{"get unknown", http.MethodGet, "/admin/games/0123456789abcdef01234567", "", http.StatusNotFound, "Game not found"},
		{"get existing", http.MethodGet, "/admin/games/" + other.ID, "", http.StatusOK, `"id":"tetris"`},
		{"invalid id", http.MethodDelete, "/admin/games/nope", "", http.StatusBadRequest, "Invalid id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}
}

func TestCreateRespectsExplicitInactive(t *testing.T) {
	router := gamesRouter(NewGamesHandler(memory.New(), nil, discardLogger()))

	rec := serve(t, router, http.MethodPost, "/admin/games", `{"id":"pacman","title":"Pac-Man","isActive":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var game models.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &game))
	assert.False(t, game.IsActive)
	assert.Equal(t, []string{}, game.Badges)
}
