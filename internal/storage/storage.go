package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/arcade-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrProtected indicates a record the operation is not allowed to touch.
var ErrProtected = errors.New("record is protected")

// ErrInvalidID indicates an identifier the backend cannot parse.
var ErrInvalidID = errors.New("invalid id")

// ErrInvalidRole indicates a user whose role is neither user nor admin.
var ErrInvalidRole = errors.New("invalid role")

// NormalizeRole defaults an empty role to user and rejects unknown ones.
// Backends call it before inserting a user.
func NormalizeRole(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if !user.Role.Valid() {
		return fmt.Errorf("%w %q", ErrInvalidRole, user.Role)
	}
	return nil
}

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	ListUsers(ctx context.Context) ([]models.User, error)
	RecentUsers(ctx context.Context, limit int) ([]models.User, error)
	// CountUsers counts users created at or after since; a zero since counts all.
	CountUsers(ctx context.Context, since time.Time) (int64, error)
	HasAdmin(ctx context.Context) (bool, error)
	// DeleteUser removes a non-admin user in one step; admins yield ErrProtected.
	DeleteUser(ctx context.Context, id string) error
}

// GameStore captures catalog persistence operations. Lists are newest first.
type GameStore interface {
	ListGames(ctx context.Context, activeOnly bool) ([]models.Game, error)
	FindGame(ctx context.Context, id string) (models.Game, error)
	CreateGame(ctx context.Context, game models.Game) (models.Game, error)
	// UpdateGame replaces every mutable field of the game with the given id.
	UpdateGame(ctx context.Context, id string, game models.Game) (models.Game, error)
	// ToggleGame flips IsActive atomically and returns the updated game.
	ToggleGame(ctx context.Context, id string) (models.Game, error)
	DeleteGame(ctx context.Context, id string) error
	CountGames(ctx context.Context, activeOnly bool) (int64, error)
}

// Store is a complete backend.
type Store interface {
	UserStore
	GameStore
	Ping(ctx context.Context) error
	Close() error
}
