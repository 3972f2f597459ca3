package dto

import (
	"strings"

	"github.com/hongminglow/arcade-be/internal/models"
)

// GameRequest is the admin payload for create and update. IsActive is a
// pointer so an omitted field keeps the schema default on create.
type GameRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
	Rating      string   `json:"rating"`
	Plays       string   `json:"plays"`
	Badges      []string `json:"badges"`
	IsActive    *bool    `json:"isActive"`
}

// Model converts the request into a game with defaults applied.
func (r GameRequest) Model() models.Game {
	g := models.Game{
		Slug:        strings.TrimSpace(r.ID),
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		Link:        r.Link,
		Rating:      r.Rating,
		Plays:       r.Plays,
		Badges:      r.Badges,
		IsActive:    true,
	}
	if r.IsActive != nil {
		g.IsActive = *r.IsActive
	}
	g.ApplyDefaults()
	return g
}
