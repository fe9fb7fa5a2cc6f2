package dto

import (
	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
	gamification "leximind.com/api/internal/modules/gamification/service"
)

type SubmitScoreRequest struct {
	GameType       string `json:"game_type" binding:"required,oneof=flashcard matching speed sentence story word_match"`
	Score          int    `json:"score" binding:"min=0"`
	CorrectAnswers int    `json:"correct_answers" binding:"min=0"`
	WrongAnswers   int    `json:"wrong_answers" binding:"min=0"`
	Completed      bool   `json:"completed"`
}

// SubmitScoreResponse carries a nil Score for staff accounts.
type SubmitScoreResponse struct {
	Message string            `json:"message"`
	Score   *entity.GameScore `json:"score"`
	gamification.ScoreOutcome
	NewAchievements []entity.Achievement `json:"new_achievements"`
}

type WordMatchStartRequest struct {
	MatchType  string `json:"match_type" binding:"required,oneof=meaning sentence"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type WordMatchWord struct {
	Word   string    `json:"word"`
	WordID uuid.UUID `json:"word_id"`
}

type WordMatchStartResponse struct {
	GameID    uuid.UUID       `json:"game_id"`
	Words     []WordMatchWord `json:"words"`
	Targets   []string        `json:"targets"`
	MatchType string          `json:"match_type"`
}

type WordMatchCompleteRequest struct {
	GameID    string `json:"game_id" binding:"required,uuid"`
	Score     int    `json:"score" binding:"min=0"`
	TimeTaken int    `json:"time_taken" binding:"min=0"`
}

type WordMatchCompleteResponse struct {
	Message string `json:"message"`
	gamification.WordMatchOutcome
	NewAchievements []entity.Achievement `json:"new_achievements"`
}
