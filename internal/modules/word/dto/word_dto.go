package dto

import (
	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
)

// Actor is the authenticated caller of a catalog operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

type CreateWordRequest struct {
	English          string                   `json:"english" binding:"required,max=100"`
	Translation      string                   `json:"translation" binding:"required,max=200"`
	Difficulty       int                      `json:"difficulty" binding:"omitempty,min=1,max=5"`
	Category         string                   `json:"category" binding:"max=100"`
	ExampleSentences []entity.ExampleSentence `json:"example_sentences"`
}

type WordFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Category string `form:"category"`
	Search   string `form:"search"`
	Limit    int    `form:"limit,default=100" binding:"min=1,max=500"`
}

type SearchQuery struct {
	Q     string `form:"q" binding:"required"`
	Limit int    `form:"limit,default=20" binding:"min=1,max=50"`
}

type BulkUploadRequest struct {
	Words                []CreateWordRequest `json:"words" binding:"required,min=1,dive"`
	AutoGenerateExamples bool                `json:"auto_generate_examples"`
}

type BulkUploadResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

type ImportResponse struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type CreatePackRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Level       string   `json:"level" binding:"max=30"`
	WordIDs     []string `json:"word_ids" binding:"dive,uuid"`
}
