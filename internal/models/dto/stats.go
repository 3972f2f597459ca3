package dto

import "github.com/hongminglow/arcade-be/internal/models"

type StatsResponse struct {
	TotalUsers       int64         `json:"totalUsers"`
	TotalGames       int64         `json:"totalGames"`
	ActiveGames      int64         `json:"activeGames"`
	NewUsersLastWeek int64         `json:"newUsersLastWeek"`
	RecentUsers      []models.User `json:"recentUsers"`
}
