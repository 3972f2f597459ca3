// Package storagetest checks the behaviour every storage backend must share.
// The memory store runs it on every test run; the Mongo and Postgres stores
// run it against a live database when RUN_AUTH_INTEGRATION=true.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

// suffix keeps names unique when the suite runs against a shared database.
func suffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// RunGames covers create, duplicate ids, toggling, the active filter, update
// and delete.
func RunGames(t *testing.T, s storage.GameStore) {
	t.Helper()
	ctx := context.Background()
	sfx := suffix()

	snake, err := s.CreateGame(ctx, models.Game{Slug: "snake-" + sfx, Title: "Snake", IsActive: true})
	require.NoError(t, err)
	assert.NotEmpty(t, snake.ID)
	assert.Equal(t, models.DefaultRating, snake.Rating)
	assert.Equal(t, models.DefaultPlays, snake.Plays)
	assert.Equal(t, []string{}, snake.Badges)
	assert.False(t, snake.CreatedAt.IsZero())

	pacman, err := s.CreateGame(ctx, models.Game{Slug: "pacman-" + sfx, Title: "Pac-Man", Badges: []string{"classic"}})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.DeleteGame(context.Background(), snake.ID)
		_ = s.DeleteGame(context.Background(), pacman.ID)
	})

	t.Run("duplicate business id", func(t *testing.T) {
		_, err := s.CreateGame(ctx, models.Game{Slug: snake.Slug, Title: "Snake again", IsActive: true})
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		all, err := s.ListGames(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, 1, countSlug(all, snake.Slug))
	})

	t.Run("find", func(t *testing.T) {
		got, err := s.FindGame(ctx, pacman.ID)
		require.NoError(t, err)
		assert.Equal(t, pacman.Slug, got.Slug)
		assert.Equal(t, []string{"classic"}, got.Badges)
		assert.False(t, got.IsActive)
	})

	t.Run("toggle twice restores state", func(t *testing.T) {
		once, err := s.ToggleGame(ctx, snake.ID)
		require.NoError(t, err)
		assert.False(t, once.IsActive)

		twice, err := s.ToggleGame(ctx, snake.ID)
		require.NoError(t, err)
		assert.Equal(t, snake.IsActive, twice.IsActive)
	})

	t.Run("active filter", func(t *testing.T) {
		active, err := s.ListGames(ctx, true)
		require.NoError(t, err)
		for _, g := range active {
			assert.True(t, g.IsActive, "inactive game %q listed", g.Slug)
		}
		assert.Equal(t, 1, countSlug(active, snake.Slug))
		assert.Zero(t, countSlug(active, pacman.Slug))

		total, err := s.CountGames(ctx, false)
		require.NoError(t, err)
		activeCount, err := s.CountGames(ctx, true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total-activeCount, int64(1))
	})

	t.Run("update", func(t *testing.T) {
		_, err := s.UpdateGame(ctx, pacman.ID, models.Game{Slug: snake.Slug, Title: "Clash"})
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		updated, err := s.UpdateGame(ctx, pacman.ID, models.Game{Slug: pacman.Slug, Title: "Pac-Man CE", Rating: "4.8", IsActive: true})
		require.NoError(t, err)
		assert.Equal(t, "Pac-Man CE", updated.Title)
		assert.Equal(t, "4.8", updated.Rating)
		assert.True(t, updated.IsActive)
		assert.WithinDuration(t, pacman.CreatedAt, updated.CreatedAt, time.Millisecond)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteGame(ctx, snake.ID))
		require.ErrorIs(t, s.DeleteGame(ctx, snake.ID), storage.ErrNotFound)

		_, err := s.FindGame(ctx, snake.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.ToggleGame(ctx, snake.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.UpdateGame(ctx, snake.ID, models.Game{Slug: snake.Slug, Title: "Snake"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := s.ToggleGame(ctx, "not-an-id")
		assert.ErrorIs(t, err, storage.ErrInvalidID)
		assert.ErrorIs(t, s.DeleteGame(ctx, "not-an-id"), storage.ErrInvalidID)
	})
}

// RunUsers covers unique usernames, role validation, last login and the
// admin delete guard. purge removes an admin the store itself refuses to delete.
func RunUsers(t *testing.T, s storage.UserStore, purge func(id string)) {
	t.Helper()
	ctx := context.Background()
	sfx := suffix()

	alice, err := s.CreateUser(ctx, models.User{Username: "alice-" + sfx, PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, alice.Role)
	assert.False(t, alice.CreatedAt.IsZero())

	admin, err := s.CreateUser(ctx, models.User{Username: "root-" + sfx, PasswordHash: "h", Role: models.RoleAdmin})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.DeleteUser(context.Background(), alice.ID)
		purge(admin.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.CreateUser(ctx, models.User{Username: alice.Username, PasswordHash: "other"})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := s.CreateUser(ctx, models.User{Username: "owner-" + sfx, PasswordHash: "h", Role: "owner"})
		assert.ErrorIs(t, err, storage.ErrInvalidRole)
		_, err = s.FindByUsername(ctx, "owner-"+sfx)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("last login", func(t *testing.T) {
		at := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, s.TouchLastLogin(ctx, alice.ID, at))
		got, err := s.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLogin)
		assert.WithinDuration(t, at, *got.LastLogin, time.Millisecond)
	})

	t.Run("has admin", func(t *testing.T) {
		ok, err := s.HasAdmin(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("admin cannot be deleted", func(t *testing.T) {
		require.ErrorIs(t, s.DeleteUser(ctx, admin.ID), storage.ErrProtected)
		_, err := s.FindByID(ctx, admin.ID)
		assert.NoError(t, err)
	})

	t.Run("delete regular user", func(t *testing.T) {
		require.NoError(t, s.DeleteUser(ctx, alice.ID))
		assert.ErrorIs(t, s.DeleteUser(ctx, alice.ID), storage.ErrNotFound)
		_, err := s.FindByID(ctx, alice.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func countSlug(games []models.Game, slug string) int {
	n := 0
	for _, g := range games {
		if g.Slug == slug {
			n++
		}
	}
	return n
}
