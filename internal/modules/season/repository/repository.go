package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
)

type SeasonRepository interface {
	FindActive(ctx context.Context) (*entity.Season, error)
	LastNumber(ctx context.Context) (int, error)
	Create(ctx context.Context, season *entity.Season) error
	// Complete flips an active season to completed and stores its final
	// standings. It reports false when the season was no longer active.
	Complete(ctx context.Context, seasonID uuid.UUID, at time.Time, standings []entity.SeasonStanding) (bool, error)
	FindStandings(ctx context.Context, seasonID uuid.UUID) ([]entity.SeasonStanding, error)
	FindHistory(ctx context.Context, userID uuid.UUID) ([]entity.SeasonStanding, error)
}

type seasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) SeasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) FindActive(ctx context.Context) (*entity.Season, error) {
	var season entity.Season
	if err := r.db.WithContext(ctx).
		Where("status = ?", entity.SeasonActive).
		Order("season_number desc").
		First(&season).Error; err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) LastNumber(ctx context.Context) (int, error) {
	var last *int
	if err := r.db.WithContext(ctx).
		Model(&entity.Season{}).
		Select("MAX(season_number)").
		Scan(&last).Error; err != nil {
		return 0, err
	}
	if last == nil {
		return 0, nil
	}
	return *last, nil
}

func (r *seasonRepository) Create(ctx context.Context, season *entity.Season) error {
	return r.db.WithContext(ctx).Omit("Standings").Create(season).Error
}

func (r *seasonRepository) Complete(ctx context.Context, seasonID uuid.UUID, at time.Time, standings []entity.SeasonStanding) (bool, error) {
	completed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Season{}).
			Where("id = ? AND status = ?", seasonID, entity.SeasonActive).
			Updates(map[string]interface{}{
				"status":       entity.SeasonCompleted,
				"finalized_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		completed = true
		if len(standings) == 0 {
			return nil
		}
		for i := range standings {
			standings[i].SeasonID = seasonID
		}
		return tx.CreateInBatches(standings, 200).Error
	})
	return completed, err
}

func (r *seasonRepository) FindStandings(ctx context.Context, seasonID uuid.UUID) ([]entity.SeasonStanding, error) {
	var rows []entity.SeasonStanding
	if err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("rank asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *seasonRepository) FindHistory(ctx context.Context, userID uuid.UUID) ([]entity.SeasonStanding, error) {
	var rows []entity.SeasonStanding
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("season_number desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
