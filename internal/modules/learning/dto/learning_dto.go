package dto

import "leximind.com/api/internal/entity"

type PlanResponse struct {
	WeakCategories []string      `json:"weak_categories"`
	StudyWords     []entity.Word `json:"study_words"`
	StudyCount     int           `json:"study_count"`
	Message        string        `json:"message"`
}

type TrackErrorRequest struct {
	WordID   string `json:"word_id" binding:"required,uuid"`
	Category string `json:"category" binding:"omitempty,max=100"`
}

type TrackErrorResponse struct {
	Message string                `json:"message"`
	Errors  []entity.CategoryStat `json:"errors"`
}

type PronunciationRequest struct {
	WordID string `json:"word_id" binding:"required,uuid"`
	Score  *int   `json:"score" binding:"required,min=0,max=100"`
}

type PronunciationResponse struct {
	Score    int    `json:"score"`
	Word     string `json:"word"`
	Feedback string `json:"feedback"`
}
