package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/learning/dto"
	"leximind.com/api/internal/modules/learning/repository"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
)

const (
	planWords       = 12
	weakCategoryNum = 3
	historyLimit    = 50
	defaultCategory = "general"
)

// Feedback grades a pronunciation score.
func Feedback(score int) string {
	switch {
	case score >= 90:
		return "Excellent!"
	case score >= 75:
		return "Good!"
	default:
		return "Practice more!"
	}
}

type LearningService interface {
	PersonalizedPlan(ctx context.Context, userID uuid.UUID) (*dto.PlanResponse, error)
	TrackError(ctx context.Context, userID uuid.UUID, req dto.TrackErrorRequest) (*dto.TrackErrorResponse, error)
	TestPronunciation(ctx context.Context, userID uuid.UUID, req dto.PronunciationRequest) (*dto.PronunciationResponse, error)
	PronunciationHistory(ctx context.Context, userID uuid.UUID) ([]entity.PronunciationAttempt, error)
}

type learningService struct {
	repo  repository.LearningRepository
	words wordRepo.WordRepository
	log   *logger.Logger
	now   func() time.Time
}

func NewLearningService(repo repository.LearningRepository, words wordRepo.WordRepository, log *logger.Logger) LearningService {
	return &learningService{repo: repo, words: words, log: log, now: time.Now}
}

func (s *learningService) findWord(ctx context.Context, id string) (*entity.Word, error) {
	word, err := s.words.FindByID(ctx, uuid.MustParse(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("word not found")
		}
		return nil, err
	}
	return word, nil
}

func (s *learningService) PersonalizedPlan(ctx context.Context, userID uuid.UUID) (*dto.PlanResponse, error) {
	stats, err := s.repo.TopCategories(ctx, userID, weakCategoryNum)
	if err != nil {
		return nil, err
	}

	weak := make([]string, 0, len(stats))
	for _, st := range stats {
		weak = append(weak, st.Category)
	}

	var words []entity.Word
	if len(weak) > 0 {
		words, err = s.words.Random(ctx, wordRepo.RandomQuery{Categories: weak, Limit: planWords})
		if err != nil {
			return nil, err
		}
	}
	if len(words) == 0 {
		words, err = s.words.Random(ctx, wordRepo.RandomQuery{Limit: planWords})
		if err != nil {
			return nil, err
		}
	}

	ids := make([]uuid.UUID, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	if err := s.repo.UpsertPlan(ctx, &entity.PersonalizedPlan{
		UserID:         userID,
		WeakCategories: weak,
		WordIDs:        ids,
		GeneratedAt:    s.now().UTC(),
	}); err != nil {
		return nil, err
	}

	return &dto.PlanResponse{
		WeakCategories: weak,
		StudyWords:     words,
		StudyCount:     len(words),
		Message:        planMessage(weak, len(words)),
	}, nil
}

func planMessage(weak []string, count int) string {
	if len(weak) == 0 {
		return fmt.Sprintf("No weak spots yet. Today you will review %d words.", count)
	}
	return fmt.Sprintf("You make the most mistakes with %s words. Today you will review %d words.", strings.Join(weak, ", "), count)
}

func (s *learningService) TrackError(ctx context.Context, userID uuid.UUID, req dto.TrackErrorRequest) (*dto.TrackErrorResponse, error) {
	word, err := s.findWord(ctx, req.WordID)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = word.Category
	}
	if category == "" {
		category = defaultCategory
	}

	if err := s.repo.IncrementError(ctx, userID, word.ID, category, s.now().UTC()); err != nil {
		return nil, err
	}

	stats, err := s.repo.TopCategories(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return &dto.TrackErrorResponse{Message: "Error tracked", Errors: stats}, nil
}

func (s *learningService) TestPronunciation(ctx context.Context, userID uuid.UUID, req dto.PronunciationRequest) (*dto.PronunciationResponse, error) {
	word, err := s.findWord(ctx, req.WordID)
	if err != nil {
		return nil, err
	}

	score := *req.Score
	attempt := &entity.PronunciationAttempt{
		UserID:   userID,
		WordID:   word.ID,
		English:  word.English,
		Score:    score,
		Feedback: Feedback(score),
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	s.log.Debug("pronunciation attempt", "user_id", userID, "word", word.English, "score", score)
	return &dto.PronunciationResponse{Score: score, Word: word.English, Feedback: attempt.Feedback}, nil
}

func (s *learningService) PronunciationHistory(ctx context.Context, userID uuid.UUID) ([]entity.PronunciationAttempt, error) {
	return s.repo.FindAttempts(ctx, userID, historyLimit)
}
