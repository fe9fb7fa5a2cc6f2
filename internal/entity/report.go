package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentReport is the per student summary shown on teacher dashboards and
// frozen into TeacherReport rows.
type StudentReport struct {
	StudentID        uuid.UUID      `json:"student_id"`
	Username         string         `json:"username"`
	ClassName        *string        `json:"class_name"`
	Level            int            `json:"level"`
	XP               int            `json:"xp"`
	Points           int            `json:"points"`
	TotalWords       int            `json:"total_words_learned"`
	WeeklyWords      int            `json:"weekly_words_learned"`
	Streak           int            `json:"streak"`
	GamesPlayed      int            `json:"games_played"`
	LastLoginDate    *time.Time     `json:"last_login"`
	WeakCategories   []CategoryStat `json:"most_errors"`
	PronunciationAvg float64        `json:"pronunciation_avg"`
}

type CategoryStat struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TeacherReport struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID     `gorm:"type:uuid;not null;index" json:"teacher_id"`
	StudentID uuid.UUID     `gorm:"type:uuid;not null;index" json:"student_id"`
	Data      StudentReport `gorm:"serializer:json;type:text" json:"data"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (r *TeacherReport) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
