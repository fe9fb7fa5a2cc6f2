package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindAll(ctx context.Context, filter string) ([]*entity.Category, error)
	// CountWords returns approved word counts keyed by category name.
	CountWords(ctx context.Context) (map[string]int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, filter string) ([]*entity.Category, error) {
	var categories []*entity.Category
	query := r.db.WithContext(ctx).Order("name ASC")

	if filter != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter+"%")
	}

	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) CountWords(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Category string
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Word{}).
		Select("category, COUNT(*) AS total").
		Where("status = ?", entity.WordStatusApproved).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Total
	}
	return counts, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}
