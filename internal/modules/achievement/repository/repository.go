package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leximind.com/api/internal/entity"
)

type AchievementRepository interface {
	FindAll(ctx context.Context) ([]entity.Achievement, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error)
	EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	// Award inserts the earn record and reports false when it already existed.
	Award(ctx context.Context, earned *entity.UserAchievement) (bool, error)
	// EnsureCatalog inserts achievements whose code is not stored yet.
	EnsureCatalog(ctx context.Context, catalog []entity.Achievement) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) FindAll(ctx context.Context) ([]entity.Achievement, error) {
	var achievements []entity.Achievement
	if err := r.db.WithContext(ctx).
		Order("requirement_type asc").
		Order("requirement_value asc").
		Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error) {
	var earned []entity.UserAchievement
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at desc").
		Find(&earned).Error; err != nil {
		return nil, err
	}
	return earned, nil
}

func (r *achievementRepository) EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entity.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error; err != nil {
		return nil, err
	}

	earned := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

func (r *achievementRepository) Award(ctx context.Context, earned *entity.UserAchievement) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(earned)
	return res.RowsAffected > 0, res.Error
}

func (r *achievementRepository) EnsureCatalog(ctx context.Context, catalog []entity.Achievement) error {
	if len(catalog) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&catalog).Error
}
