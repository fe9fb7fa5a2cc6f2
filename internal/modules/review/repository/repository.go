package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leximind.com/api/internal/entity"
)

type ReviewStats struct {
	Tracked  int64
	Due      int64
	Mastered int64
}

type ReviewRepository interface {
	Find(ctx context.Context, userID, wordID uuid.UUID) (*entity.UserWordProgress, error)
	// FindDue returns progress rows scheduled on or before day, oldest first.
	FindDue(ctx context.Context, userID uuid.UUID, day time.Time, limit int) ([]entity.UserWordProgress, error)
	// Untracked returns approved words the user has never reviewed.
	Untracked(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Word, error)
	Upsert(ctx context.Context, progress *entity.UserWordProgress) error
	Stats(ctx context.Context, userID uuid.UUID, day time.Time, masteredInterval int) (ReviewStats, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Find(ctx context.Context, userID, wordID uuid.UUID) (*entity.UserWordProgress, error) {
	var p entity.UserWordProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND word_id = ?", userID, wordID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *reviewRepository) FindDue(ctx context.Context, userID uuid.UUID, day time.Time, limit int) ([]entity.UserWordProgress, error) {
	var rows []entity.UserWordProgress
	if err := r.db.WithContext(ctx).
		Preload("Word").
		Where("user_id = ? AND next_review <= ?", userID, day).
		Order("next_review asc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reviewRepository) Untracked(ctx context.Context, userID uuid.UUID, limit int) ([]entity.Word, error) {
	tracked := r.db.Model(&entity.UserWordProgress{}).Select("word_id").Where("user_id = ?", userID)

	var words []entity.Word
	if err := r.db.WithContext(ctx).
		Where("status = ?", entity.WordStatusApproved).
		Where("id NOT IN (?)", tracked).
		Order("difficulty asc").
		Order("created_at asc").
		Limit(limit).
		Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (r *reviewRepository) Upsert(ctx context.Context, p *entity.UserWordProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"ease_factor", "interval_days", "repetition", "next_review", "last_reviewed", "last_result",
			}),
		}).
		Create(p).Error
}

func (r *reviewRepository) Stats(ctx context.Context, userID uuid.UUID, day time.Time, masteredInterval int) (ReviewStats, error) {
	var stats ReviewStats
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&entity.UserWordProgress{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&stats.Tracked).Error; err != nil {
		return stats, err
	}
	if err := base().Where("next_review <= ?", day).Count(&stats.Due).Error; err != nil {
		return stats, err
	}
	if err := base().Where("interval_days >= ?", masteredInterval).Count(&stats.Mastered).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
