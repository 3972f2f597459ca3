package models

import "time"

const (
	DefaultRating = "4.0"
	DefaultPlays  = "0"
)

// Game is a catalog entry. ID is the database identity; Slug is the
// business key exposed to clients as "id".
type Game struct {
	ID          string    `json:"_id"`
	Slug        string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Link        string    `json:"link"`
	Rating      string    `json:"rating"`
	Plays       string    `json:"plays"`
	Badges      []string  `json:"badges"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ApplyDefaults fills the fields that have schema defaults.
func (g *Game) ApplyDefaults() {
	if g.Rating == "" {
		g.Rating = DefaultRating
	}
	if g.Plays == "" {
		g.Plays = DefaultPlays
	}
	if g.Badges == nil {
		g.Badges = []string{}
	}
}

// PublicGame is the fixed projection served by the public catalog.
type PublicGame struct {
	Slug        string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	Rating      string   `json:"rating"`
	Plays       string   `json:"plays"`
	Badges      []string `json:"badges"`
}

// Public projects g onto the public catalog shape.
func (g Game) Public() PublicGame {
	badges := g.Badges
	if badges == nil {
		badges = []string{}
	}
	return PublicGame{
		Slug:        g.Slug,
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Image:       g.Image,
		Link:        g.Link,
		Rating:      g.Rating,
		Plays:       g.Plays,
		Badges:      badges,
	}
}
