package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hongminglow/arcade-be/internal/models"
)

const catalogKey = "arcade:catalog:active"

// Redis stores the catalog as one JSON value with a TTL.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis parses url (redis://...) and verifies the server responds.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Get returns the cached catalog or ErrMiss.
func (r *Redis) Get(ctx context.Context) ([]models.PublicGame, error) {
	raw, err := r.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var games []models.PublicGame
	if err := json.Unmarshal(raw, &games); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		return nil, ErrMiss
	}
	return games, nil
}

// Set stores the catalog for the configured TTL.
func (r *Redis) Set(ctx context.Context, games []models.PublicGame) error {
	raw, err := json.Marshal(games)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, catalogKey, raw, r.ttl).Err()
}

// Invalidate drops the cached catalog.
func (r *Redis) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, catalogKey).Err()
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
