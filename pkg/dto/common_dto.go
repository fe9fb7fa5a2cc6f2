package dto

import (
	"io"
)

// IDRequest binds a uuid path parameter named id.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type PaginationQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

func (p PaginationQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}

// UploadFile is a multipart file handed from a handler to a service.
type UploadFile struct {
	Reader   io.Reader
	FileName string
	Size     int64
}

// UserSummary is the public projection of an account, never carrying the hash.
type UserSummary struct {
	ID               string  `json:"id"`
	Username         string  `json:"username"`
	Role             string  `json:"role"`
	ClassName        *string `json:"class_name"`
	Points           int     `json:"points"`
	XP               int     `json:"xp"`
	Level            int     `json:"level"`
	WordsLearned     int     `json:"words_learned"`
	GamesPlayed      int     `json:"games_played"`
	Streak           int     `json:"streak"`
	DailyWordsTarget int     `json:"daily_words_target"`
	DailyProgress    int     `json:"daily_words_progress"`
	LeagueRank       *int    `json:"league_rank"`
	ProfileStar      bool    `json:"profile_star"`
	LastLoginDate    *string `json:"last_login_date"`
	CreatedAt        string  `json:"created_at"`
}
