package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// League is the weekly competition keyed by ISO week and ISO year.
type League struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	WeekNumber int              `gorm:"not null;uniqueIndex:idx_league_week,priority:1" json:"week_number"`
	Year       int              `gorm:"not null;uniqueIndex:idx_league_week,priority:2" json:"year"`
	StartDate  time.Time        `gorm:"not null" json:"start_date"`
	EndDate    time.Time        `gorm:"not null" json:"end_date"`
	Standings  []LeagueStanding `gorm:"constraint:OnDelete:CASCADE" json:"standings"`
	UpdatedAt  time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedAt  time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (l *League) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID, err = uuid.NewV7()
	}
	return
}

// LeagueStanding is a snapshot row; replaced wholesale on every recompute.
type LeagueStanding struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	LeagueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_league_user,priority:1" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_league_user,priority:2" json:"user_id"`
	Username string    `gorm:"size:50;not null" json:"username"`
	Points   int       `gorm:"not null" json:"points"`
	Rank     int       `gorm:"not null" json:"rank"`
}
