package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/arcade-be/internal/models"
)

func TestNoopAlwaysMisses(t *testing.T) {
	var c Catalog = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, []models.PublicGame{{Slug: "snake"}}))
	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Invalidate(ctx))
	assert.NoError(t, c.Close())
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "://not a url", 0)
	assert.Error(t, err)
}
