package dto

import (
	"time"

	"github.com/hongminglow/arcade-be/internal/models"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserSummary struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	LastLogin *time.Time  `json:"lastLogin,omitempty"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// Summarize trims a user down to what the client stores after login.
func Summarize(u models.User) UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Role: u.Role, LastLogin: u.LastLogin}
}
