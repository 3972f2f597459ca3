package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/arcade-be/internal/auth"
	"github.com/hongminglow/arcade-be/internal/http/respond"
	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

const userKey contextKey = "user"

// Authenticate verifies the bearer token and reloads the user it names on
// every request, so deleted users and role changes take effect immediately.
func Authenticate(tokens *auth.TokenManager, users storage.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Access token required")
				return
			}
			userID, err := tokens.Parse(raw)
			if err != nil {
				respond.Error(w, http.StatusForbidden, "Invalid or expired token")
				return
			}
			user, err := users.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidID) {
					respond.Error(w, http.StatusForbidden, "User not found")
					return
				}
				slog.ErrorContext(r.Context(), "authenticate: load user", "user_id", userID, "error", err)
				respond.Error(w, http.StatusInternalServerError, err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects authenticated users whose role is not admin. It must
// run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			respond.Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the user attached by Authenticate.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
