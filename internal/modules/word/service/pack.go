package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/word/dto"
	"leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
)

type PackService interface {
	CreatePack(ctx context.Context, actor dto.Actor, req dto.CreatePackRequest) (*entity.WordPack, error)
	GetPacks(ctx context.Context) ([]entity.WordPack, error)
	GetPack(ctx context.Context, id uuid.UUID) (*entity.WordPack, error)
	DeletePack(ctx context.Context, id uuid.UUID) error
}

type packService struct {
	packs repository.PackRepository
	words repository.WordRepository
	log   *logger.Logger
}

func NewPackService(packs repository.PackRepository, words repository.WordRepository, log *logger.Logger) PackService {
	return &packService{packs: packs, words: words, log: log}
}

func (s *packService) CreatePack(ctx context.Context, actor dto.Actor, req dto.CreatePackRequest) (*entity.WordPack, error) {
	ids := make([]uuid.UUID, 0, len(req.WordIDs))
	for _, raw := range req.WordIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	words, err := s.words.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(words) != len(ids) {
		return nil, apperror.BadRequest("some words do not exist")
	}

	createdBy := actor.ID
	pack := &entity.WordPack{
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
		CreatedBy:   &createdBy,
		Words:       words,
	}
	if err := s.packs.Create(ctx, pack); err != nil {
		return nil, err
	}

	s.log.Info("word pack created", "pack_id", pack.ID, "words", len(words))
	return pack, nil
}

func (s *packService) GetPacks(ctx context.Context) ([]entity.WordPack, error) {
	return s.packs.FindAll(ctx)
}

func (s *packService) GetPack(ctx context.Context, id uuid.UUID) (*entity.WordPack, error) {
	pack, err := s.packs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("word pack not found")
		}
		return nil, err
	}
	return pack, nil
}

func (s *packService) DeletePack(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPack(ctx, id); err != nil {
		return err
	}
	return s.packs.Delete(ctx, id)
}
