package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SeasonActive    = "active"
	SeasonCompleted = "completed"
)

type Season struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	SeasonNumber int              `gorm:"not null;uniqueIndex" json:"season_number"`
	Year         int              `gorm:"not null" json:"year"`
	StartDate    time.Time        `gorm:"not null" json:"start_date"`
	EndDate      time.Time        `gorm:"not null" json:"end_date"`
	Status       string           `gorm:"size:20;not null;index" json:"status"`
	FinalizedAt  *time.Time       `json:"finalized_at,omitempty"`
	Standings    []SeasonStanding `gorm:"constraint:OnDelete:CASCADE" json:"final_standings,omitempty"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Season) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}

// SeasonStanding is written once when a season is finalized. The same row is
// the frozen final standing and the participant's season history entry.
type SeasonStanding struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	SeasonID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_season_user,priority:1" json:"-"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_season_user,priority:2;index" json:"user_id"`
	Username     string    `gorm:"size:50;not null" json:"username"`
	SeasonNumber int       `gorm:"not null" json:"season_number"`
	Year         int       `gorm:"not null" json:"year"`
	TotalPoints  int       `gorm:"not null" json:"total_points"`
	Rank         int       `gorm:"not null" json:"rank"`
	Badge        string    `gorm:"size:10" json:"badge,omitempty"`
	XPBonus      int       `gorm:"not null;default:0" json:"xp_bonus"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
