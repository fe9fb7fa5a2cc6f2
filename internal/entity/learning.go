package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserWordError counts wrong answers per word, grouped by category for plans.
type UserWordError struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_word_error,priority:1" json:"user_id"`
	WordID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_word_error,priority:2" json:"word_id"`
	Category    string    `gorm:"size:100;not null;default:general" json:"category"`
	Count       int       `gorm:"not null;default:0" json:"count"`
	LastErrorAt time.Time `gorm:"not null" json:"last_error_at"`
}

type PersonalizedPlan struct {
	UserID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"user_id"`
	WeakCategories []string    `gorm:"serializer:json;type:text" json:"weak_categories"`
	WordIDs        []uuid.UUID `gorm:"serializer:json;type:text" json:"word_ids"`
	GeneratedAt    time.Time   `gorm:"not null" json:"generated_at"`
}

type PronunciationAttempt struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WordID    uuid.UUID `gorm:"type:uuid;not null" json:"word_id"`
	English   string    `gorm:"size:100;not null" json:"word"`
	Score     int       `gorm:"not null" json:"score"`
	Feedback  string    `gorm:"size:50;not null" json:"feedback"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *PronunciationAttempt) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
