package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/arcade-be/internal/auth"
	"github.com/hongminglow/arcade-be/internal/http/respond"
	"github.com/hongminglow/arcade-be/internal/middleware"
	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/models/dto"
	"github.com/hongminglow/arcade-be/internal/storage"
)

var passwordTooLongMessage = fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordBytes)

// AuthHandler owns the signup, login and current-user endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, logger: logger, now: time.Now}
}

// Signup creates a regular user and returns a token for it.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		respond.Error(w, http.StatusBadRequest, passwordTooLongMessage)
		return
	}
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.ErrorContext(r.Context(), "create user", "username", req.Username, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.issue(w, r, http.StatusCreated, created)
}

// Login checks credentials, records the login and returns a token.
// Unknown users and wrong passwords get the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	user, err := h.store.FindByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.logger.ErrorContext(r.Context(), "login: fetch user", "username", req.Username, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respond.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	now := h.now().UTC()
	if err := h.store.TouchLastLogin(r.Context(), user.ID, now); err != nil {
		h.logger.ErrorContext(r.Context(), "login: update last login", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	user.LastLogin = &now

	h.issue(w, r, http.StatusOK, user)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Access token required")
		return
	}
	respond.JSON(w, http.StatusOK, dto.Summarize(user))
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "generate token", "user_id", user.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, status, dto.AuthResponse{Token: token, User: dto.Summarize(user)})
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (dto.CredentialsRequest, bool) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Username and password are required")
		return req, false
	}
	return req, true
}
