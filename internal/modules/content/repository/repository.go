package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
)

type ContentRepository interface {
	CreateQuiz(ctx context.Context, quiz *entity.Quiz) error
	FindStory(ctx context.Context, userID uuid.UUID, milestone int) (*entity.StoryMilestone, error)
	ListStories(ctx context.Context, userID uuid.UUID) ([]entity.StoryMilestone, error)
	CreateStory(ctx context.Context, story *entity.StoryMilestone) error
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreateQuiz(ctx context.Context, quiz *entity.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *contentRepository) FindStory(ctx context.Context, userID uuid.UUID, milestone int) (*entity.StoryMilestone, error) {
	var story entity.StoryMilestone
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND milestone = ?", userID, milestone).
		First(&story).Error; err != nil {
		return nil, err
	}
	return &story, nil
}

func (r *contentRepository) ListStories(ctx context.Context, userID uuid.UUID) ([]entity.StoryMilestone, error) {
	var stories []entity.StoryMilestone
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("milestone asc").
		Find(&stories).Error; err != nil {
		return nil, err
	}
	return stories, nil
}

func (r *contentRepository) CreateStory(ctx context.Context, story *entity.StoryMilestone) error {
	return r.db.WithContext(ctx).Create(story).Error
}
