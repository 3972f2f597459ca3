package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

// EnsureAdmin creates an admin account when the store has none. It reports
// whether an account was created.
func EnsureAdmin(ctx context.Context, users storage.UserStore, username, password string, logger *slog.Logger) (bool, error) {
	hasAdmin, err := users.HasAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("check for admin: %w", err)
	}
	if hasAdmin {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	_, err = users.CreateUser(ctx, models.User{Username: username, PasswordHash: hash, Role: models.RoleAdmin})
	if errors.Is(err, storage.ErrAlreadyExists) {
		// A regular user already holds the name; do not promote it silently.
		return false, fmt.Errorf("bootstrap admin %q: username taken by a non-admin account", username)
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	logger.Warn("created bootstrap admin account; change its password", "username", username)
	return true, nil
}
