package cache

import (
	"context"
	"errors"

	"github.com/hongminglow/arcade-be/internal/models"
)

// ErrMiss is returned by Get when nothing is cached.
var ErrMiss = errors.New("cache miss")

// Catalog caches the public game list. Admin writes call Invalidate so a
// deactivated game never outlives the write that hid it.
type Catalog interface {
	Get(ctx context.Context) ([]models.PublicGame, error)
	Set(ctx context.Context, games []models.PublicGame) error
	Invalidate(ctx context.Context) error
	Close() error
}

// Noop is the Catalog used when no cache is configured; it always misses.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context) ([]models.PublicGame, error) { return nil, ErrMiss }

// Set discards the catalog.
func (Noop) Set(context.Context, []models.PublicGame) error { return nil }

// Invalidate does nothing.
func (Noop) Invalidate(context.Context) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
