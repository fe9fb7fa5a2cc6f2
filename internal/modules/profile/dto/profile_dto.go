package dto

import (
	"time"

	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
	gamification "leximind.com/api/internal/modules/gamification/service"
)

// ProfileResponse is the signed in user's own profile.
type ProfileResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	ClassName    *string   `json:"class_name,omitempty"`
	gamification.LevelProgress
	Points        int                      `json:"points"`
	WordsLearned  int                      `json:"words_learned"`
	GamesPlayed   int                      `json:"games_played"`
	Streak        int                      `json:"streak"`
	LeagueRank    *int                     `json:"league_rank"`
	ProfileStar   bool                     `json:"profile_star"`
	Achievements  []entity.UserAchievement `json:"achievements"`
	SeasonHistory []entity.SeasonStanding  `json:"season_history"`
	CreatedAt     time.Time                `json:"created_at"`
}

// PublicProfileResponse is what other users see.
type PublicProfileResponse struct {
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	ClassName    *string   `json:"class_name,omitempty"`
	Level        int       `json:"level"`
	Points       int       `json:"points"`
	WordsLearned int       `json:"words_learned"`
	ProfileStar  bool      `json:"profile_star"`
	Badges       int       `json:"badges"`
	CreatedAt    time.Time `json:"created_at"`
}

type UsernameRequest struct {
	Username string `uri:"username" binding:"required,min=3,max=50"`
}
