package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
)

type WordFilter struct {
	Status   string
	Category string
	Search   string
	Limit    int
}

// RandomQuery selects approved words in random order.
type RandomQuery struct {
	Categories []string
	Difficulty int
	Exclude    []uuid.UUID
	Limit      int
}

type WordRepository interface {
	Create(ctx context.Context, word *entity.Word) error
	CreateMany(ctx context.Context, words []*entity.Word) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Word, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Word, error)
	FindByEnglish(ctx context.Context, english string) (*entity.Word, error)
	// ExistingEnglish returns the lowercased english values already stored.
	ExistingEnglish(ctx context.Context, english []string) (map[string]struct{}, error)
	FindAll(ctx context.Context, filter WordFilter) ([]entity.Word, error)
	Random(ctx context.Context, q RandomQuery) ([]entity.Word, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateImage(ctx context.Context, id uuid.UUID, url string) error
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type wordRepository struct {
	db *gorm.DB
}

func NewWordRepository(db *gorm.DB) WordRepository {
	return &wordRepository{db: db}
}

func (r *wordRepository) Create(ctx context.Context, word *entity.Word) error {
	return r.db.WithContext(ctx).Create(word).Error
}

func (r *wordRepository) CreateMany(ctx context.Context, words []*entity.Word) error {
	if len(words) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(words, 100).Error
}

func (r *wordRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Word, error) {
	var word entity.Word
	if err := r.db.WithContext(ctx).First(&word, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *wordRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Word, error) {
	var words []entity.Word
	if len(ids) == 0 {
		return words, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (r *wordRepository) FindByEnglish(ctx context.Context, english string) (*entity.Word, error) {
	var word entity.Word
	if err := r.db.WithContext(ctx).
		Where("LOWER(english) = ?", strings.ToLower(strings.TrimSpace(english))).
		First(&word).Error; err != nil {
		return nil, err
	}
	return &word, nil
}

func (r *wordRepository) ExistingEnglish(ctx context.Context, english []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(english) == 0 {
		return existing, nil
	}

	lowered := make([]string, len(english))
	for i, e := range english {
		lowered[i] = strings.ToLower(strings.TrimSpace(e))
	}

	var found []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Word{}).
		Where("LOWER(english) IN ?", lowered).
		Pluck("LOWER(english)", &found).Error; err != nil {
		return nil, err
	}

	for _, e := range found {
		existing[e] = struct{}{}
	}
	return existing, nil
}

func (r *wordRepository) FindAll(ctx context.Context, filter WordFilter) ([]entity.Word, error) {
	var words []entity.Word
	query := r.db.WithContext(ctx).Order("created_at desc")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(english) LIKE ? OR LOWER(translation) LIKE ?", pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (r *wordRepository) Random(ctx context.Context, q RandomQuery) ([]entity.Word, error) {
	var words []entity.Word
	query := r.db.WithContext(ctx).
		Where("status = ?", entity.WordStatusApproved).
		Order("RANDOM()")

	if len(q.Categories) > 0 {
		query = query.Where("category IN ?", q.Categories)
	}
	if q.Difficulty > 0 {
		query = query.Where("difficulty = ?", q.Difficulty)
	}
	if len(q.Exclude) > 0 {
		query = query.Where("id NOT IN ?", q.Exclude)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

func (r *wordRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&entity.Word{}).Where("id = ?", id).Update("status", status).Error
}

func (r *wordRepository) UpdateImage(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).Model(&entity.Word{}).Where("id = ?", id).Update("image_url", url).Error
}

func (r *wordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Word{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *wordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Word{}, "id = ?", id).Error
}
