package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/arcade-be/internal/http/respond"
	"github.com/hongminglow/arcade-be/internal/models/dto"
	"github.com/hongminglow/arcade-be/internal/storage"
)

const (
	recentUsersLimit = 10
	newUserWindow    = 7 * 24 * time.Hour
)

// AdminHandler serves dashboard stats and user management.
type AdminHandler struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(store storage.Store, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: store, logger: logger, now: time.Now}
}

// Stats returns aggregate counts plus the most recently created users.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		stats dto.StatsResponse
		err   error
	)
	if stats.TotalUsers, err = h.store.CountUsers(ctx, time.Time{}); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats.NewUsersLastWeek, err = h.store.CountUsers(ctx, h.now().Add(-newUserWindow)); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats.TotalGames, err = h.store.CountGames(ctx, false); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats.ActiveGames, err = h.store.CountGames(ctx, true); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stats.RecentUsers, err = h.store.RecentUsers(ctx, recentUsersLimit); err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

// ListUsers returns every user without credentials.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// DeleteUser removes a regular user. Admin accounts cannot be deleted here;
// the store enforces that in the same operation as the delete.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.store.DeleteUser(r.Context(), id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, storage.ErrInvalidID):
		respond.Error(w, http.StatusBadRequest, "Invalid id")
		return
	case errors.Is(err, storage.ErrProtected):
		respond.Error(w, http.StatusForbidden, "Cannot delete admin user")
		return
	case err != nil:
		h.logger.ErrorContext(r.Context(), "delete user", "user_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.InfoContext(r.Context(), "user deleted", "user_id", id)
	respond.Message(w, http.StatusOK, "User deleted")
}
