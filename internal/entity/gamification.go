package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Achievement requirement types.
const (
	RequirementWordsLearned = "words_learned"
	RequirementGamesPlayed  = "games_played"
	RequirementScore        = "score"
	RequirementStreak       = "streak"
	RequirementLeagueRank   = "league_rank"
)

type Achievement struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code             string    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Description      string    `gorm:"type:text" json:"description"`
	Icon             string    `gorm:"size:10" json:"icon"`
	RequirementType  string    `gorm:"size:30;not null" json:"requirement_type"`
	RequirementValue int       `gorm:"not null" json:"requirement_value"`
	Rarity           string    `gorm:"size:20;not null;default:common" json:"rarity"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

// UserAchievement is unique per (user_id, achievement_id); inserts that
// collide are dropped so concurrent passes never double award.
type UserAchievement struct {
	ID            uint         `gorm:"primaryKey" json:"-"`
	UserID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:1" json:"user_id"`
	AchievementID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement,priority:2" json:"achievement_id"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE" json:"achievement,omitempty"`
	EarnedAt      time.Time    `gorm:"not null" json:"earned_at"`
}
