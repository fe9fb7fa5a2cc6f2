package dto

import (
	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
)

type ExamplesRequest struct {
	Word        string `json:"word" binding:"required,max=100"`
	Translation string `json:"translation" binding:"max=200"`
	Level       string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Count       int    `json:"count" binding:"omitempty,min=1,max=5"`
}

type ExamplesResponse struct {
	Examples []entity.ExampleSentence `json:"examples"`
	Fallback bool                     `json:"fallback"`
}

type StoryRequest struct {
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	Topic      string `json:"topic" binding:"max=200"`
}

type StoryResponse struct {
	Story      string   `json:"story"`
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	WordsUsed  []string `json:"words_used"`
	Fallback   bool     `json:"fallback"`
}

type QuestionsRequest struct {
	WordIDs []string `json:"word_ids" binding:"required,min=1,max=20,dive,uuid"`
}

type QuestionsResponse struct {
	QuizID    uuid.UUID             `json:"quiz_id"`
	Questions []entity.QuizQuestion `json:"questions"`
	WordsUsed []string              `json:"words_used"`
	Fallback  bool                  `json:"fallback"`
}

type TextToWordsRequest struct {
	Text       string `json:"text" binding:"required,max=10000"`
	AutoCreate bool   `json:"auto_create"`
}

type ExtractedWord struct {
	English     string `json:"english"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
}

type TextToWordsResponse struct {
	WordsExtracted []ExtractedWord `json:"words_extracted"`
	CreatedCount   int             `json:"created_count"`
	Fallback       bool            `json:"fallback"`
}

type StoryUnlockResponse struct {
	WordsLearned       int   `json:"words_learned"`
	UnlockedMilestones []int `json:"unlocked_milestones"`
	NextMilestone      *int  `json:"next_milestone"`
	CanUnlock          bool  `json:"can_unlock"`
}

type MilestoneStoryRequest struct {
	WordsLearnedCount int `json:"words_learned_count" binding:"required,min=1"`
}

type MilestoneStoryResponse struct {
	Story            string      `json:"story"`
	HighlightedWords []uuid.UUID `json:"highlighted_words"`
	Milestone        int         `json:"milestone"`
	Fallback         bool        `json:"fallback"`
}
