package service

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/word/dto"
	"leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	commonDto "leximind.com/api/pkg/dto"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/storage"
)

const (
	maxImageSize   = 5 << 20
	imageFolder    = "words"
	bulkExampleNum = 2
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// ExampleGenerator produces example sentences for a word. The bool reports
// whether the deterministic fallback was used.
type ExampleGenerator interface {
	GenerateExamples(ctx context.Context, word, translation, level string, count int) ([]entity.ExampleSentence, bool)
}

type WordService interface {
	CreateWord(ctx context.Context, actor dto.Actor, req dto.CreateWordRequest) (*entity.Word, error)
	GetWords(ctx context.Context, role string, filter dto.WordFilter) ([]entity.Word, error)
	SearchWords(ctx context.Context, role string, query dto.SearchQuery) ([]entity.Word, error)
	DeleteWord(ctx context.Context, id uuid.UUID) error
	ApproveWord(ctx context.Context, id uuid.UUID) (*entity.Word, error)
	RejectWord(ctx context.Context, id uuid.UUID) (*entity.Word, error)
	BulkUpload(ctx context.Context, actor dto.Actor, req dto.BulkUploadRequest) (*dto.BulkUploadResponse, error)
	ImportWords(ctx context.Context, actor dto.Actor, file commonDto.UploadFile) (*dto.ImportResponse, error)
	UploadImage(ctx context.Context, id uuid.UUID, file commonDto.UploadFile) (*entity.Word, error)
}

type wordService struct {
	repo     repository.WordRepository
	index    SearchIndex
	storage  storage.ImageStorage
	examples ExampleGenerator
	log      *logger.Logger
}

// NewWordService wires the catalog. index and examples may be nil.
func NewWordService(repo repository.WordRepository, index SearchIndex, imageStorage storage.ImageStorage, examples ExampleGenerator, log *logger.Logger) WordService {
	return &wordService{
		repo:     repo,
		index:    index,
		storage:  imageStorage,
		examples: examples,
		log:      log,
	}
}

// StatusFor is the initial status of a word created by role.
func StatusFor(role string) string {
	if role == entity.RoleAdmin {
		return entity.WordStatusApproved
	}
	return entity.WordStatusPending
}

func (s *wordService) indexWord(word *entity.Word) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexWord(word); err != nil {
		s.log.Warn("failed to index word", "word_id", word.ID, "error", err)
	}
}

func newWord(actor dto.Actor, req dto.CreateWordRequest) *entity.Word {
	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 1
	}
	createdBy := actor.ID
	return &entity.Word{
		English:          strings.TrimSpace(req.English),
		Translation:      strings.TrimSpace(req.Translation),
		Difficulty:       difficulty,
		Category:         strings.TrimSpace(req.Category),
		ExampleSentences: req.ExampleSentences,
		Status:           StatusFor(actor.Role),
		CreatedBy:        &createdBy,
	}
}

func (s *wordService) CreateWord(ctx context.Context, actor dto.Actor, req dto.CreateWordRequest) (*entity.Word, error) {
	if _, err := s.repo.FindByEnglish(ctx, req.English); err == nil {
		return nil, apperror.Conflict("word already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	word := newWord(actor, req)
	if err := s.repo.Create(ctx, word); err != nil {
		return nil, err
	}

	s.indexWord(word)
	s.log.Info("word created", "word_id", word.ID, "status", word.Status)
	return word, nil
}

func (s *wordService) GetWords(ctx context.Context, role string, filter dto.WordFilter) ([]entity.Word, error) {
	status := filter.Status
	if role == entity.RoleStudent || role == "" {
		status = entity.WordStatusApproved
	}

	return s.repo.FindAll(ctx, repository.WordFilter{
		Status:   status,
		Category: filter.Category,
		Search:   filter.Search,
		Limit:    filter.Limit,
	})
}

func (s *wordService) SearchWords(ctx context.Context, role string, query dto.SearchQuery) ([]entity.Word, error) {
	status := ""
	if role == entity.RoleStudent || role == "" {
		status = entity.WordStatusApproved
	}

	if s.index != nil {
		ids, err := s.index.Search(query.Q, status, query.Limit)
		if err == nil {
			words, err := s.repo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return orderByIDs(words, ids), nil
		}
		s.log.Warn("search index unavailable, falling back to database", "error", err)
	}

	return s.repo.FindAll(ctx, repository.WordFilter{Status: status, Search: query.Q, Limit: query.Limit})
}

func orderByIDs(words []entity.Word, ids []uuid.UUID) []entity.Word {
	byID := make(map[uuid.UUID]entity.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	ordered := make([]entity.Word, 0, len(words))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			ordered = append(ordered, w)
		}
	}
	return ordered
}

func (s *wordService) findWord(ctx context.Context, id uuid.UUID) (*entity.Word, error) {
	word, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("word not found")
		}
		return nil, err
	}
	return word, nil
}

func (s *wordService) DeleteWord(ctx context.Context, id uuid.UUID) error {
	word, err := s.findWord(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteWord(id); err != nil {
			s.log.Warn("failed to remove word from index", "word_id", id, "error", err)
		}
	}
	if word.ImageURL != nil {
		if err := s.storage.DeleteImage(ctx, *word.ImageURL); err != nil && !errors.Is(err, storage.ErrDisabled) {
			s.log.Warn("failed to delete word image", "word_id", id, "error", err)
		}
	}
	return nil
}

func (s *wordService) transition(ctx context.Context, id uuid.UUID, status string) (*entity.Word, error) {
	word, err := s.findWord(ctx, id)
	if err != nil {
		return nil, err
	}
	if word.Status != entity.WordStatusPending {
		return nil, apperror.BadRequest("only pending words can be reviewed")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	word.Status = status

	s.indexWord(word)
	s.log.Info("word reviewed", "word_id", id, "status", status)
	return word, nil
}

func (s *wordService) ApproveWord(ctx context.Context, id uuid.UUID) (*entity.Word, error) {
	return s.transition(ctx, id, entity.WordStatusApproved)
}

func (s *wordService) RejectWord(ctx context.Context, id uuid.UUID) (*entity.Word, error) {
	return s.transition(ctx, id, entity.WordStatusRejected)
}

// filterUnseen drops words whose english is already in the catalog or
// repeated earlier in the same batch.
func (s *wordService) filterUnseen(ctx context.Context, words []*entity.Word) (fresh []*entity.Word, skipped int, err error) {
	english := make([]string, len(words))
	for i, w := range words {
		english[i] = w.English
	}

	existing, err := s.repo.ExistingEnglish(ctx, english)
	if err != nil {
		return nil, 0, err
	}

	for _, w := range words {
		key := strings.ToLower(w.English)
		if _, ok := existing[key]; ok {
			skipped++
			continue
		}
		existing[key] = struct{}{}
		fresh = append(fresh, w)
	}
	return fresh, skipped, nil
}

func (s *wordService) createAll(ctx context.Context, words []*entity.Word) error {
	if err := s.repo.CreateMany(ctx, words); err != nil {
		return err
	}
	for _, w := range words {
		s.indexWord(w)
	}
	return nil
}

func (s *wordService) BulkUpload(ctx context.Context, actor dto.Actor, req dto.BulkUploadRequest) (*dto.BulkUploadResponse, error) {
	words := make([]*entity.Word, 0, len(req.Words))
	for _, item := range req.Words {
		words = append(words, newWord(actor, item))
	}

	fresh, skipped, err := s.filterUnseen(ctx, words)
	if err != nil {
		return nil, err
	}

	if req.AutoGenerateExamples && s.examples != nil {
		for _, w := range fresh {
			if len(w.ExampleSentences) > 0 {
				continue
			}
			level := w.Category
			if level == "" {
				level = "beginner"
			}
			w.ExampleSentences, _ = s.examples.GenerateExamples(ctx, w.English, w.Translation, level, bulkExampleNum)
		}
	}

	if err := s.createAll(ctx, fresh); err != nil {
		return nil, err
	}

	s.log.Info("bulk upload finished", "created", len(fresh), "skipped", skipped)
	return &dto.BulkUploadResponse{
		Message: "words uploaded successfully",
		Created: len(fresh),
		Skipped: skipped,
	}, nil
}

func (s *wordService) ImportWords(ctx context.Context, actor dto.Actor, file commonDto.UploadFile) (*dto.ImportResponse, error) {
	rows, problems, err := ParseWordSheet(file.Reader, file.FileName)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	words := make([]*entity.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, newWord(actor, dto.CreateWordRequest{
			English:     row.English,
			Translation: row.Translation,
			Category:    row.Category,
			Difficulty:  row.Difficulty,
		}))
	}

	fresh, skipped, err := s.filterUnseen(ctx, words)
	if err != nil {
		return nil, err
	}
	if err := s.createAll(ctx, fresh); err != nil {
		return nil, err
	}

	if problems == nil {
		problems = []string{}
	}
	s.log.Info("word sheet imported", "file", file.FileName, "created", len(fresh), "skipped", skipped, "errors", len(problems))
	return &dto.ImportResponse{Created: len(fresh), Skipped: skipped, Errors: problems}, nil
}

func (s *wordService) UploadImage(ctx context.Context, id uuid.UUID, file commonDto.UploadFile) (*entity.Word, error) {
	if file.Size > maxImageSize {
		return nil, apperror.BadRequest("image must be 5MB or smaller")
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(file.FileName))] {
		return nil, apperror.BadRequest("image must be jpg, png, webp or gif")
	}

	word, err := s.findWord(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.UploadImage(ctx, file.Reader, imageFolder, word.ID.String())
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return nil, apperror.New(http.StatusServiceUnavailable, "image storage is not configured", err)
		}
		return nil, err
	}

	if err := s.repo.UpdateImage(ctx, id, url); err != nil {
		return nil, err
	}

	if word.ImageURL != nil && *word.ImageURL != url {
		if err := s.storage.DeleteImage(ctx, *word.ImageURL); err != nil {
			s.log.Warn("failed to delete previous word image", "word_id", id, "error", err)
		}
	}
	word.ImageURL = &url
	return word, nil
}
