package dto

import (
	"time"

	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
)

type LeagueResponse struct {
	ID         uuid.UUID               `json:"id"`
	WeekNumber int                     `json:"week_number"`
	Year       int                     `json:"year"`
	StartDate  time.Time               `json:"start_date"`
	EndDate    time.Time               `json:"end_date"`
	Standings  []entity.LeagueStanding `json:"standings"`
	MyRank     *int                    `json:"my_rank"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

type LeaderboardQuery struct {
	Limit int `form:"limit,default=100" binding:"min=1,max=100"`
}

type LeaderboardEntry struct {
	Position     int     `json:"position"`
	Username     string  `json:"username"`
	ClassName    *string `json:"class_name,omitempty"`
	Points       int     `json:"points"`
	Level        int     `json:"level"`
	WordsLearned int     `json:"words_learned"`
	ProfileStar  bool    `json:"profile_star"`
}
