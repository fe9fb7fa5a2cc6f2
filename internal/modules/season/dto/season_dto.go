package dto

import (
	"time"

	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
)

type SeasonResponse struct {
	ID             uuid.UUID  `json:"id"`
	SeasonNumber   int        `json:"season_number"`
	Year           int        `json:"year"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	FinalizedAt    *time.Time `json:"finalized_at,omitempty"`
	WeeksElapsed   int        `json:"weeks_elapsed"`
	WeeksRemaining int        `json:"weeks_remaining"`
}

type StandingsResponse struct {
	SeasonNumber int                     `json:"season_number"`
	Status       string                  `json:"status"`
	Standings    []entity.SeasonStanding `json:"standings"`
}

type HistoryResponse struct {
	SeasonHistory []entity.SeasonStanding `json:"season_history"`
	ProfileStar   bool                    `json:"profile_star"`
}

type FinalizeResponse struct {
	Message        string                  `json:"message"`
	Finalized      int                     `json:"finalized_season"`
	FinalStandings []entity.SeasonStanding `json:"final_standings"`
	Next           SeasonResponse          `json:"next_season"`
}
