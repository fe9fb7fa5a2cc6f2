package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
)

type PackRepository interface {
	Create(ctx context.Context, pack *entity.WordPack) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.WordPack, error)
	FindAll(ctx context.Context) ([]entity.WordPack, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type packRepository struct {
	db *gorm.DB
}

func NewPackRepository(db *gorm.DB) PackRepository {
	return &packRepository{db: db}
}

func (r *packRepository) Create(ctx context.Context, pack *entity.WordPack) error {
	return r.db.WithContext(ctx).Create(pack).Error
}

func (r *packRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.WordPack, error) {
	var pack entity.WordPack
	if err := r.db.WithContext(ctx).Preload("Words").First(&pack, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *packRepository) FindAll(ctx context.Context) ([]entity.WordPack, error) {
	var packs []entity.WordPack
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&packs).Error; err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *packRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pack := entity.WordPack{ID: id}
		if err := tx.Model(&pack).Association("Words").Clear(); err != nil {
			return err
		}
		return tx.Delete(&pack).Error
	})
}
