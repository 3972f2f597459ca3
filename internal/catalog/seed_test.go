package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage/memory"
)

func TestDefaultCatalog(t *testing.T) {
	games, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, games)

	seen := map[string]bool{}
	for _, g := range games {
		assert.False(t, seen[g.Slug], "duplicate id %s", g.Slug)
		seen[g.Slug] = true
		assert.True(t, g.IsActive)
		assert.NotEmpty(t, g.Rating)
	}
	assert.True(t, seen["2048"])
	assert.True(t, seen["snake"])
}

func TestParseAppliesDefaults(t *testing.T) {
	games, err := Parse(strings.NewReader("- id: chess\n  title: Chess\n  inactive: true\n"))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, models.DefaultRating, games[0].Rating)
	assert.Equal(t, models.DefaultPlays, games[0].Plays)
	assert.Equal(t, []string{}, games[0].Badges)
	assert.False(t, games[0].IsActive)
}

func TestParseRejectsMissingTitle(t *testing.T) {
	_, err := Parse(strings.NewReader("- id: chess\n"))
	assert.Error(t, err)
}

func TestSeedSkipsExisting(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	games, err := Default()
	require.NoError(t, err)

	first, err := Seed(ctx, store, games)
	require.NoError(t, err)
	assert.Len(t, first.Created, len(games))
	assert.Empty(t, first.Skipped)

	second, err := Seed(ctx, store, games)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, len(games))

	n, err := store.CountGames(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, len(games), n)
}
