package dto

import (
	"time"

	"leximind.com/api/internal/entity"
	commonDto "leximind.com/api/pkg/dto"
)

type LoginInput struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

type AuthResponse struct {
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresIn   int64                 `json:"expires_in"`
	User        commonDto.UserSummary `json:"user"`
}

// ToSummary projects a user without its password hash.
func ToSummary(u *entity.User) commonDto.UserSummary {
	s := commonDto.UserSummary{
		ID:               u.ID.String(),
		Username:         u.Username,
		Role:             u.Role.Name,
		ClassName:        u.ClassName,
		Points:           u.Points,
		XP:               u.XP,
		Level:            u.Level,
		WordsLearned:     u.WordsLearned,
		GamesPlayed:      u.GamesPlayed,
		Streak:           u.Streak,
		DailyWordsTarget: u.DailyWordsTarget,
		DailyProgress:    u.DailyWordsProgress,
		LeagueRank:       u.LeagueRank,
		ProfileStar:      u.ProfileStar,
		CreatedAt:        u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLoginDate != nil {
		d := u.LastLoginDate.Format(time.DateOnly)
		s.LastLoginDate = &d
	}
	return s
}

func ToSummaries(users []*entity.User) []commonDto.UserSummary {
	out := make([]commonDto.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, ToSummary(u))
	}
	return out
}
