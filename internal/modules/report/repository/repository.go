package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
)

type GameTypeCount struct {
	GameType string `json:"game_type"`
	Count    int64  `json:"count"`
}

type ReportRepository interface {
	CountGames(ctx context.Context) (int64, error)
	GameTypeCounts(ctx context.Context) ([]GameTypeCount, error)
	// CorrectAnswersBetween sums correct answers per user for scores created
	// in [from, to].
	CorrectAnswersBetween(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error)
	CreateReport(ctx context.Context, report *entity.TeacherReport) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CountGames(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.GameScore{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reportRepository) GameTypeCounts(ctx context.Context) ([]GameTypeCount, error) {
	var rows []GameTypeCount
	if err := r.db.WithContext(ctx).
		Model(&entity.GameScore{}).
		Select("game_type, COUNT(*) AS count").
		Group("game_type").
		Order("count desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepository) CorrectAnswersBetween(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error) {
	var rows []struct {
		UserID uuid.UUID
		Total  int
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.GameScore{}).
		Select("user_id, SUM(correct_answers) AS total").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.Total
	}
	return out, nil
}

func (r *reportRepository) CreateReport(ctx context.Context, report *entity.TeacherReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}
