package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

//go:embed default_games.yaml
var defaultGames []byte

type entry struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Image       string   `yaml:"image"`
	Link        string   `yaml:"link"`
	Rating      string   `yaml:"rating"`
	Plays       string   `yaml:"plays"`
	Badges      []string `yaml:"badges"`
	Inactive    bool     `yaml:"inactive"`
}

// Result summarises a seeding run.
type Result struct {
	Created []string
	Skipped []string
}

// Default returns the portal's built-in game list.
func Default() ([]models.Game, error) {
	return Parse(bytes.NewReader(defaultGames))
}

// Parse reads a YAML list of games.
func Parse(r io.Reader) ([]models.Game, error) {
	var entries []entry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	games := make([]models.Game, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("catalog entry %d: id and title are required", i)
		}
		g := models.Game{
			Slug:        strings.TrimSpace(e.ID),
			Title:       strings.TrimSpace(e.Title),
			Description: e.Description,
			Category:    e.Category,
			Image:       e.Image,
			Link:        e.Link,
			Rating:      e.Rating,
			Plays:       e.Plays,
			Badges:      e.Badges,
			IsActive:    !e.Inactive,
		}
		g.ApplyDefaults()
		games = append(games, g)
	}
	return games, nil
}

// Seed inserts games, skipping business ids that already exist.
func Seed(ctx context.Context, store storage.GameStore, games []models.Game) (Result, error) {
	var res Result
	for _, g := range games {
		_, err := store.CreateGame(ctx, g)
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			res.Skipped = append(res.Skipped, g.Slug)
		case err != nil:
			return res, fmt.Errorf("seed %q: %w", g.Slug, err)
		default:
			res.Created = append(res.Created, g.Slug)
		}
	}
	return res, nil
}
