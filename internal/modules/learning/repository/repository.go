package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leximind.com/api/internal/entity"
)

type LearningRepository interface {
	// IncrementError adds one wrong answer to the (user, word) counter.
	IncrementError(ctx context.Context, userID, wordID uuid.UUID, category string, at time.Time) error
	// TopCategories sums error counts per category, highest first. A limit
	// of zero returns every category.
	TopCategories(ctx context.Context, userID uuid.UUID, limit int) ([]entity.CategoryStat, error)
	UpsertPlan(ctx context.Context, plan *entity.PersonalizedPlan) error
	CreateAttempt(ctx context.Context, attempt *entity.PronunciationAttempt) error
	FindAttempts(ctx context.Context, userID uuid.UUID, limit int) ([]entity.PronunciationAttempt, error)
	AverageScore(ctx context.Context, userID uuid.UUID) (float64, error)
}

type learningRepository struct {
	db *gorm.DB
}

func NewLearningRepository(db *gorm.DB) LearningRepository {
	return &learningRepository{db: db}
}

func (r *learningRepository) IncrementError(ctx context.Context, userID, wordID uuid.UUID, category string, at time.Time) error {
	row := &entity.UserWordError{
		UserID:      userID,
		WordID:      wordID,
		Category:    category,
		Count:       1,
		LastErrorAt: at,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":         gorm.Expr("user_word_errors.count + 1"),
				"category":      category,
				"last_error_at": at,
			}),
		}).
		Create(row).Error
}

func (r *learningRepository) TopCategories(ctx context.Context, userID uuid.UUID, limit int) ([]entity.CategoryStat, error) {
	var stats []entity.CategoryStat
	query := r.db.WithContext(ctx).
		Model(&entity.UserWordError{}).
		Select("category, SUM(count) AS count").
		Where("user_id = ?", userID).
		Group("category").
		Order("count desc").
		Order("category asc")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *learningRepository) UpsertPlan(ctx context.Context, plan *entity.PersonalizedPlan) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"weak_categories", "word_ids", "generated_at"}),
		}).
		Create(plan).Error
}

func (r *learningRepository) CreateAttempt(ctx context.Context, attempt *entity.PronunciationAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *learningRepository) FindAttempts(ctx context.Context, userID uuid.UUID, limit int) ([]entity.PronunciationAttempt, error) {
	var attempts []entity.PronunciationAttempt
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *learningRepository) AverageScore(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&entity.PronunciationAttempt{}).
		Select("AVG(score)").
		Where("user_id = ?", userID).
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
