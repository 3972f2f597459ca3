package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
	"github.com/jackc/pgx/v5"
)

const gameColumns = `id, slug, title, description, category, image, link, rating, plays, badges, is_active, created_at`

// ListGames returns games newest first, optionally only the active ones.
func (s *Store) ListGames(ctx context.Context, activeOnly bool) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()
	out := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// FindGame fetches a game by primary key.
func (s *Store) FindGame(ctx context.Context, id string) (models.Game, error) {
	n, err := parseID(id)
	if err != nil {
		return models.Game{}, err
	}
	return scanGame(s.pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, n))
}

// CreateGame inserts a game; the unique slug constraint rejects duplicates.
func (s *Store) CreateGame(ctx context.Context, game models.Game) (models.Game, error) {
	game.ApplyDefaults()
	query := `
		INSERT INTO games (slug, title, description, category, image, link, rating, plays, badges, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + gameColumns
	row := s.pool.QueryRow(ctx, query, game.Slug, game.Title, game.Description, game.Category,
		game.Image, game.Link, game.Rating, game.Plays, game.Badges, game.IsActive)
	created, err := scanGame(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Game{}, storage.ErrAlreadyExists
		}
		return models.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return created, nil
}

// UpdateGame replaces the mutable columns of a game.
func (s *Store) UpdateGame(ctx context.Context, id string, game models.Game) (models.Game, error) {
	n, err := parseID(id)
	if err != nil {
		return models.Game{}, err
	}
	game.ApplyDefaults()
	query := `
		UPDATE games SET slug = $2, title = $3, description = $4, category = $5, image = $6,
			link = $7, rating = $8, plays = $9, badges = $10, is_active = $11
		WHERE id = $1
		RETURNING ` + gameColumns
	row := s.pool.QueryRow(ctx, query, n, game.Slug, game.Title, game.Description, game.Category,
		game.Image, game.Link, game.Rating, game.Plays, game.Badges, game.IsActive)
	updated, err := scanGame(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Game{}, storage.ErrAlreadyExists
		}
		return models.Game{}, err
	}
	return updated, nil
}

// ToggleGame flips is_active in one statement.
func (s *Store) ToggleGame(ctx context.Context, id string) (models.Game, error) {
	n, err := parseID(id)
	if err != nil {
		return models.Game{}, err
	}
	row := s.pool.QueryRow(ctx, `UPDATE games SET is_active = NOT is_active WHERE id = $1 RETURNING `+gameColumns, n)
	return scanGame(row)
}

// DeleteGame removes a game row.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	n, err := parseID(id)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM games WHERE id = $1`, n)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountGames counts all games or only active ones.
func (s *Store) CountGames(ctx context.Context, activeOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM games`
	if activeOnly {
		query += ` WHERE is_active`
	}
	var n int64
	if err := s.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}

func scanGame(row pgx.Row) (models.Game, error) {
	var (
		g  models.Game
		id int64
	)
	err := row.Scan(&id, &g.Slug, &g.Title, &g.Description, &g.Category, &g.Image, &g.Link,
		&g.Rating, &g.Plays, &g.Badges, &g.IsActive, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Game{}, storage.ErrNotFound
		}
		return models.Game{}, err
	}
	g.ID = formatID(id)
	g.ApplyDefaults()
	return g, nil
}
