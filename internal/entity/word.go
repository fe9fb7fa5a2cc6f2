package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WordStatusPending  = "pending"
	WordStatusApproved = "approved"
	WordStatusRejected = "rejected"
)

type ExampleSentence struct {
	Sentence    string `json:"sentence"`
	Translation string `json:"translation"`
}

type Word struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	English          string            `gorm:"size:100;not null;index" json:"english"`
	Translation      string            `gorm:"size:200;not null" json:"translation"`
	Difficulty       int               `gorm:"not null;default:1" json:"difficulty"`
	Category         string            `gorm:"size:100;index" json:"category"`
	ExampleSentences []ExampleSentence `gorm:"serializer:json;type:text" json:"example_sentences"`
	ImageURL         *string           `gorm:"type:text" json:"image_url,omitempty"`
	Status           string            `gorm:"size:20;not null;default:approved;index" json:"status"`
	CreatedBy        *uuid.UUID        `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (w *Word) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID, err = uuid.NewV7()
	}
	return
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// WordPack is a curated set of words for a level or theme.
type WordPack struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Level       string     `gorm:"size:30" json:"level"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	Words       []Word     `gorm:"many2many:word_pack_words;constraint:OnDelete:CASCADE" json:"words,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (p *WordPack) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
