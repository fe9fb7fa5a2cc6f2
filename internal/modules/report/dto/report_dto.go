package dto

import (
	"time"

	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/report/repository"
)

type StudentIDRequest struct {
	StudentID string `uri:"student_id" binding:"required,uuid"`
}

type StatisticsResponse struct {
	TotalStudents int64                      `json:"total_students"`
	TotalWords    int64                      `json:"total_words"`
	TotalGames    int64                      `json:"total_games"`
	GameStats     []repository.GameTypeCount `json:"game_stats"`
}

type ReportsResponse struct {
	WeekStart time.Time              `json:"week_start"`
	WeekEnd   time.Time              `json:"week_end"`
	Reports   []entity.StudentReport `json:"reports"`
}

type GeneratedReportResponse struct {
	ReportID   uuid.UUID            `json:"report_id"`
	Message    string               `json:"message"`
	WeekStart  time.Time            `json:"week_start"`
	WeekEnd    time.Time            `json:"week_end"`
	ReportData entity.StudentReport `json:"report_data"`
}

type ClassWinnersResponse struct {
	Season  int                     `json:"season"`
	Winners []entity.SeasonStanding `json:"winners"`
	Message string                  `json:"message"`
}
