package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// UserWordProgress is the spaced repetition state for one (user, word) pair.
type UserWordProgress struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_word,priority:1;index:idx_progress_due,priority:1" json:"user_id"`
	WordID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_word,priority:2" json:"word_id"`
	Word         *Word      `gorm:"constraint:OnDelete:CASCADE" json:"word,omitempty"`
	EaseFactor   float64    `gorm:"not null;default:2.5" json:"ease_factor"`
	Interval     int        `gorm:"column:interval_days;not null;default:1" json:"interval"`
	Repetition   int        `gorm:"not null;default:0" json:"repetition"`
	NextReview   time.Time  `gorm:"type:date;not null;index:idx_progress_due,priority:2" json:"next_review"`
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
	LastResult   string     `gorm:"size:10" json:"last_result,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (p *UserWordProgress) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
