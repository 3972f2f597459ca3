package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/arcade-be/internal/cache"
	"github.com/hongminglow/arcade-be/internal/http/respond"
	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/models/dto"
	"github.com/hongminglow/arcade-be/internal/storage"
)

// GamesHandler serves the public catalog and the admin game CRUD.
type GamesHandler struct {
	store  storage.GameStore
	cache  cache.Catalog
	logger *slog.Logger
}

// NewGamesHandler constructs the handler. A nil catalog disables caching.
func NewGamesHandler(store storage.GameStore, catalog cache.Catalog, logger *slog.Logger) *GamesHandler {
	if catalog == nil {
		catalog = cache.Noop{}
	}
	return &GamesHandler{store: store, cache: catalog, logger: logger}
}

// ListPublic returns the active games in their public projection.
func (h *GamesHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if cached, err := h.cache.Get(ctx); err == nil {
		respond.JSON(w, http.StatusOK, cached)
		return
	} else if !errors.Is(err, cache.ErrMiss) {
		h.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
	}

	games, err := h.store.ListGames(ctx, true)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]models.PublicGame, 0, len(games))
	for _, g := range games {
		out = append(out, g.Public())
	}
	if err := h.cache.Set(ctx, out); err != nil {
		h.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
	}
	respond.JSON(w, http.StatusOK, out)
}

// List returns every game, active or not.
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.store.ListGames(r.Context(), false)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, games)
}

// Get returns one game by database id.
func (h *GamesHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.store.FindGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, game)
}

// Create adds a game; the business id must be unique.
func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	game, ok := decodeGame(w, r)
	if !ok {
		return
	}
	created, err := h.store.CreateGame(r.Context(), game)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.invalidate(r)
	h.logger.InfoContext(r.Context(), "game created", "game_id", created.Slug, "id", created.ID)
	respond.JSON(w, http.StatusCreated, created)
}

// Update replaces the mutable fields of the game with the given database id.
func (h *GamesHandler) Update(w http.ResponseWriter, r *http.Request) {
	game, ok := decodeGame(w, r)
	if !ok {
		return
	}
	updated, err := h.store.UpdateGame(r.Context(), chi.URLParam(r, "id"), game)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.invalidate(r)
	respond.JSON(w, http.StatusOK, updated)
}

// Toggle flips the game's visibility in the public catalog.
func (h *GamesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	toggled, err := h.store.ToggleGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.invalidate(r)
	h.logger.InfoContext(r.Context(), "game toggled", "id", toggled.ID, "active", toggled.IsActive)
	respond.JSON(w, http.StatusOK, toggled)
}

// Delete removes a game by database id.
func (h *GamesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	h.invalidate(r)
	respond.Message(w, http.StatusOK, "Game deleted")
}

func (h *GamesHandler) invalidate(r *http.Request) {
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "catalog cache invalidation failed", "error", err)
	}
}

func (h *GamesHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusBadRequest, "Game ID already exists")
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, storage.ErrInvalidID):
		respond.Error(w, http.StatusBadRequest, "Invalid id")
	default:
		h.logger.ErrorContext(r.Context(), "game store", "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeGame(w http.ResponseWriter, r *http.Request) (models.Game, bool) {
	var req dto.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return models.Game{}, false
	}
	game := req.Model()
	if game.Slug == "" || game.Title == "" {
		respond.Error(w, http.StatusBadRequest, "Game id and title are required")
		return models.Game{}, false
	}
	return game, true
}
