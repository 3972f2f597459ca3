package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store is a threadsafe in-process backend for tests and local runs.
// Identifiers are ObjectID hex strings so clients see the same shape as Mongo.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.User
	games map[string]models.Game
	now   func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users: make(map[string]models.User),
		games: make(map[string]models.Game),
		now:   time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op; the maps live as long as the Store.
func (s *Store) Close() error { return nil }

func parseID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return storage.ErrInvalidID
	}
	return nil
}

// CreateUser inserts a user, rejecting a taken username.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	if err := storage.NormalizeRole(&user); err != nil {
		return models.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	user.ID = primitive.NewObjectID().Hex()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = user
	return user, nil
}

// FindByUsername fetches a user by exact username.
func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// FindByID fetches a user by id.
func (s *Store) FindByID(_ context.Context, id string) (models.User, error) {
	if err := parseID(id); err != nil {
		return models.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return u, nil
}

// TouchLastLogin records a successful login.
func (s *Store) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	if err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedUsers(), nil
}

// RecentUsers returns the limit most recently created users.
func (s *Store) RecentUsers(_ context.Context, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := s.sortedUsers()
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// CountUsers counts users created at or after since.
func (s *Store) CountUsers(_ context.Context, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, u := range s.users {
		if since.IsZero() || !u.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// HasAdmin reports whether any admin account exists.
func (s *Store) HasAdmin(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.IsAdmin() {
			return true, nil
		}
	}
	return false, nil
}

// DeleteUser removes a non-admin user.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	if u.IsAdmin() {
		return storage.ErrProtected
	}
	delete(s.users, id)
	return nil
}

// sortedUsers must be called with s.mu held.
func (s *Store) sortedUsers() []models.User {
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ListGames returns games newest first, optionally only the active ones.
func (s *Store) ListGames(_ context.Context, activeOnly bool) ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		if activeOnly && !g.IsActive {
			continue
		}
		out = append(out, cloneGame(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FindGame fetches a game by id.
func (s *Store) FindGame(_ context.Context, id string) (models.Game, error) {
	if err := parseID(id); err != nil {
		return models.Game{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return models.Game{}, storage.ErrNotFound
	}
	return cloneGame(g), nil
}

// CreateGame inserts a game, rejecting a taken business id.
func (s *Store) CreateGame(_ context.Context, game models.Game) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slugTaken(game.Slug, "") {
		return models.Game{}, storage.ErrAlreadyExists
	}
	game.ID = primitive.NewObjectID().Hex()
	game.ApplyDefaults()
	if game.CreatedAt.IsZero() {
		game.CreatedAt = s.now()
	}
	s.games[game.ID] = cloneGame(game)
	return game, nil
}

// UpdateGame replaces the mutable fields of a game.
func (s *Store) UpdateGame(_ context.Context, id string, game models.Game) (models.Game, error) {
	if err := parseID(id); err != nil {
		return models.Game{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.games[id]
	if !ok {
		return models.Game{}, storage.ErrNotFound
	}
	if s.slugTaken(game.Slug, id) {
		return models.Game{}, storage.ErrAlreadyExists
	}
	game.ID = id
	game.CreatedAt = existing.CreatedAt
	game.ApplyDefaults()
	s.games[id] = cloneGame(game)
	return game, nil
}

// ToggleGame flips IsActive under the write lock.
func (s *Store) ToggleGame(_ context.Context, id string) (models.Game, error) {
	if err := parseID(id); err != nil {
		return models.Game{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return models.Game{}, storage.ErrNotFound
	}
	g.IsActive = !g.IsActive
	s.games[id] = g
	return cloneGame(g), nil
}

// DeleteGame removes a game by id.
func (s *Store) DeleteGame(_ context.Context, id string) error {
	if err := parseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.games, id)
	return nil
}

// CountGames counts all games or only active ones.
func (s *Store) CountGames(_ context.Context, activeOnly bool) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, g := range s.games {
		if !activeOnly || g.IsActive {
			n++
		}
	}
	return n, nil
}

// slugTaken must be called with s.mu held. ignoreID excludes the game being updated.
func (s *Store) slugTaken(slug, ignoreID string) bool {
	for id, g := range s.games {
		if id != ignoreID && g.Slug == slug {
			return true
		}
	}
	return false
}

func cloneGame(g models.Game) models.Game {
	if g.Badges != nil {
		g.Badges = append([]string(nil), g.Badges...)
	}
	return g
}
