package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GameFlashcard = "flashcard"
	GameMatching  = "matching"
	GameSpeed     = "speed"
	GameSentence  = "sentence"
	GameStory     = "story"
	GameWordMatch = "word_match"
)

// GameScore is append only; one row per completed student game.
type GameScore struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_score_user_date,priority:1" json:"user_id"`
	GameType       string    `gorm:"size:30;not null;index" json:"game_type"`
	Score          int       `gorm:"not null" json:"score"`
	CorrectAnswers int       `gorm:"not null" json:"correct_answers"`
	WrongAnswers   int       `gorm:"not null" json:"wrong_answers"`
	Completed      bool      `gorm:"not null" json:"completed"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_score_user_date,priority:2" json:"created_at"`
}

func (g *GameScore) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID, err = uuid.NewV7()
	}
	return
}

// WordMatchPair is one prompt/target pair of a word match round.
type WordMatchPair struct {
	WordID  uuid.UUID `json:"word_id"`
	English string    `json:"english"`
	Target  string    `json:"target"`
}

type WordMatchGame struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	MatchType   string          `gorm:"size:20;not null" json:"match_type"`
	Difficulty  string          `gorm:"size:20;not null" json:"difficulty"`
	Pairs       []WordMatchPair `gorm:"serializer:json;type:text" json:"pairs"`
	Score       int             `json:"score"`
	TimeTaken   int             `json:"time_taken"`
	Completed   bool            `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (g *WordMatchGame) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID, err = uuid.NewV7()
	}
	return
}
