package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hongminglow/arcade-be/internal/models"
	"github.com/hongminglow/arcade-be/internal/storage"
)

type gameDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Slug        string             `bson:"id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Link        string             `bson:"link"`
	Rating      string             `bson:"rating"`
	Plays       string             `bson:"plays"`
	Badges      []string           `bson:"badges"`
	IsActive    bool               `bson:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func newGameDoc(g models.Game) gameDoc {
	g.ApplyDefaults()
	return gameDoc{
		Slug:        g.Slug,
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Image:       g.Image,
		Link:        g.Link,
		Rating:      g.Rating,
		Plays:       g.Plays,
		Badges:      g.Badges,
		IsActive:    g.IsActive,
	}
}

func (d gameDoc) model() models.Game {
	g := models.Game{
		ID:          d.ID.Hex(),
		Slug:        d.Slug,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Image:       d.Image,
		Link:        d.Link,
		Rating:      d.Rating,
		Plays:       d.Plays,
		Badges:      d.Badges,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
	}
	g.ApplyDefaults()
	return g
}

// ListGames returns games newest first, optionally only the active ones.
func (s *Store) ListGames(ctx context.Context, activeOnly bool) ([]models.Game, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	cur, err := s.games.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	var docs []gameDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode games: %w", err)
	}
	out := make([]models.Game, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// FindGame fetches a game by database id.
func (s *Store) FindGame(ctx context.Context, id string) (models.Game, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Game{}, err
	}
	var doc gameDoc
	err = s.games.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Game{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Game{}, fmt.Errorf("find game: %w", err)
	}
	return doc.model(), nil
}

// CreateGame inserts a game; the unique index on id rejects duplicates.
func (s *Store) CreateGame(ctx context.Context, game models.Game) (models.Game, error) {
	doc := newGameDoc(game)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()
	if _, err := s.games.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Game{}, storage.ErrAlreadyExists
		}
		return models.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return doc.model(), nil
}

// UpdateGame replaces the mutable fields of a game and returns the new state.
func (s *Store) UpdateGame(ctx context.Context, id string, game models.Game) (models.Game, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Game{}, err
	}
	doc := newGameDoc(game)
	update := bson.M{"$set": bson.M{
		"id":          doc.Slug,
		"title":       doc.Title,
		"description": doc.Description,
		"category":    doc.Category,
		"image":       doc.Image,
		"link":        doc.Link,
		"rating":      doc.Rating,
		"plays":       doc.Plays,
		"badges":      doc.Badges,
		"isActive":    doc.IsActive,
	}}
	return s.findAndUpdate(ctx, oid, update)
}

// ToggleGame flips isActive in a single server-side update.
func (s *Store) ToggleGame(ctx context.Context, id string) (models.Game, error) {
	oid, err := objectID(id)
	if err != nil {
		return models.Game{}, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"isActive": bson.M{"$not": bson.A{"$isActive"}}}}},
	}
	return s.findAndUpdate(ctx, oid, pipeline)
}

func (s *Store) findAndUpdate(ctx context.Context, oid primitive.ObjectID, update any) (models.Game, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc gameDoc
	err := s.games.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.Game{}, storage.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return models.Game{}, storage.ErrAlreadyExists
	case err != nil:
		return models.Game{}, fmt.Errorf("update game: %w", err)
	}
	return doc.model(), nil
}

// DeleteGame removes a game by database id.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.games.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountGames counts all games or only active ones.
func (s *Store) CountGames(ctx context.Context, activeOnly bool) (int64, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	n, err := s.games.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}
