package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
)

type GameRepository interface {
	CreateScore(ctx context.Context, score *entity.GameScore) error
	FindScoresByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.GameScore, error)
	CreateWordMatch(ctx context.Context, game *entity.WordMatchGame) error
	FindWordMatch(ctx context.Context, id, userID uuid.UUID) (*entity.WordMatchGame, error)
	// CompleteWordMatch closes an open round and reports false when it was
	// already closed.
	CompleteWordMatch(ctx context.Context, game *entity.WordMatchGame) (bool, error)
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) CreateScore(ctx context.Context, score *entity.GameScore) error {
	return r.db.WithContext(ctx).Create(score).Error
}

func (r *gameRepository) FindScoresByUser(ctx context.Context, userID uuid.UUID, limit int) ([]entity.GameScore, error) {
	var scores []entity.GameScore
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *gameRepository) CreateWordMatch(ctx context.Context, game *entity.WordMatchGame) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *gameRepository) FindWordMatch(ctx context.Context, id, userID uuid.UUID) (*entity.WordMatchGame, error) {
	var game entity.WordMatchGame
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *gameRepository) CompleteWordMatch(ctx context.Context, game *entity.WordMatchGame) (bool, error) {
	completedAt := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&entity.WordMatchGame{}).
		Where("id = ? AND completed = ?", game.ID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"score":        game.Score,
			"time_taken":   game.TimeTaken,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	game.Completed = true
	game.CompletedAt = &completedAt
	return true, nil
}
