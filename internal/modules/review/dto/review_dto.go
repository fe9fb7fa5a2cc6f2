package dto

import (
	"time"

	"leximind.com/api/internal/entity"
)

type DueQuery struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=50"`
}

// Source values of a due queue.
const (
	SourceDue    = "due"
	SourceRandom = "random"
)

// DueItem is one card of the review queue. Progress is nil for words never
// reviewed.
type DueItem struct {
	Word     entity.Word              `json:"word"`
	Progress *entity.UserWordProgress `json:"progress"`
}

type DueResponse struct {
	Items  []DueItem `json:"items"`
	Source string    `json:"source"`
	Count  int       `json:"count"`
}

type ReviewRequest struct {
	WordID string `json:"word_id" binding:"required,uuid"`
	Rating string `json:"rating" binding:"required,oneof=again hard good easy"`
}

type ReviewResponse struct {
	WordID     string    `json:"word_id"`
	Rating     string    `json:"rating"`
	EaseFactor float64   `json:"ease_factor"`
	Interval   int       `json:"interval"`
	Repetition int       `json:"repetition"`
	NextReview time.Time `json:"next_review"`
}

type StatsResponse struct {
	Tracked  int64 `json:"tracked"`
	DueToday int64 `json:"due_today"`
	Mastered int64 `json:"mastered"`
}
