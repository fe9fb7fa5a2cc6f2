package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizQuestion is a four option multiple choice item; Correct indexes Options.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

type Quiz struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedBy uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	WordIDs   []uuid.UUID    `gorm:"serializer:json;type:text" json:"word_ids"`
	Questions []QuizQuestion `gorm:"serializer:json;type:text" json:"questions"`
	Fallback  bool           `gorm:"not null;default:false" json:"fallback"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == uuid.Nil {
		q.ID, err = uuid.NewV7()
	}
	return
}

// StoryMilestone is the reward story unlocked every 50 learned words.
type StoryMilestone struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_story_milestone,priority:1" json:"user_id"`
	Milestone        int         `gorm:"not null;uniqueIndex:idx_story_milestone,priority:2" json:"milestone"`
	Story            string      `gorm:"type:text;not null" json:"story"`
	HighlightedWords []uuid.UUID `gorm:"serializer:json;type:text" json:"highlighted_words"`
	Fallback         bool        `gorm:"not null;default:false" json:"fallback"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (s *StoryMilestone) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}
