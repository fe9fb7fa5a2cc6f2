package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/category/dto"
	"leximind.com/api/internal/modules/category/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

type CategoryService interface {
	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
	log  *logger.Logger
}

func NewCategoryService(repo repository.CategoryRepository, log *logger.Logger) CategoryService {
	return &categoryService{repo: repo, log: log}
}

// Slugify lowercases name and joins its alphanumeric runs with hyphens.
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func (s *categoryService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	slug := Slugify(req.Name)
	if slug == "" {
		return nil, apperror.BadRequest("category name must contain letters or digits")
	}

	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, apperror.Conflict("category " + req.Name + " already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &entity.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.Info("category created", "slug", slug)
	return &dto.CategoryResponse{ID: category.ID, Name: category.Name, Slug: category.Slug, Description: category.Description}, nil
}

func (s *categoryService) GetAllCategories(ctx context.Context, filter dto.CategoryFilter) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindAll(ctx, filter.Search)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountWords(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		res = append(res, dto.CategoryResponse{
			ID:          cat.ID,
			Name:        cat.Name,
			Slug:        cat.Slug,
			Description: cat.Description,
			WordCount:   counts[cat.Name],
		})
	}
	return res, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("category not found")
		}
		return err
	}

	return s.repo.Delete(ctx, id)
}
