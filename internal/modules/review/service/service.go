package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	gamification "leximind.com/api/internal/modules/gamification/service"
	"leximind.com/api/internal/modules/review/dto"
	"leximind.com/api/internal/modules/review/repository"
	wordRepo "leximind.com/api/internal/modules/word/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/metrics"
)

type ReviewService interface {
	// Due builds the review queue: scheduled cards first, then never seen
	// words. A user without any progress yet gets random catalog words.
	Due(ctx context.Context, userID uuid.UUID, limit int) (*dto.DueResponse, error)
	Review(ctx context.Context, userID uuid.UUID, req dto.ReviewRequest) (*dto.ReviewResponse, error)
	Stats(ctx context.Context, userID uuid.UUID) (*dto.StatsResponse, error)
}

type reviewService struct {
	repo  repository.ReviewRepository
	words wordRepo.WordRepository
	log   *logger.Logger
	now   func() time.Time
}

func NewReviewService(repo repository.ReviewRepository, words wordRepo.WordRepository, log *logger.Logger) ReviewService {
	return &reviewService{repo: repo, words: words, log: log, now: time.Now}
}

func (s *reviewService) Due(ctx context.Context, userID uuid.UUID, limit int) (*dto.DueResponse, error) {
	today := gamification.Day(s.now())

	due, err := s.repo.FindDue(ctx, userID, today, limit)
	if err != nil {
		return nil, err
	}

	if len(due) == 0 {
		stats, err := s.repo.Stats(ctx, userID, today, MasteredInterval)
		if err != nil {
			return nil, err
		}
		if stats.Tracked == 0 {
			return s.randomQueue(ctx, limit)
		}
	}

	items := make([]dto.DueItem, 0, limit)
	for i := range due {
		if due[i].Word == nil {
			continue
		}
		items = append(items, dto.DueItem{Word: *due[i].Word, Progress: &due[i]})
	}

	if len(items) < limit {
		fresh, err := s.repo.Untracked(ctx, userID, limit-len(items))
		if err != nil {
			return nil, err
		}
		for _, w := range fresh {
			items = append(items, dto.DueItem{Word: w})
		}
	}

	return &dto.DueResponse{Items: items, Source: dto.SourceDue, Count: len(items)}, nil
}

func (s *reviewService) randomQueue(ctx context.Context, limit int) (*dto.DueResponse, error) {
	words, err := s.words.Random(ctx, wordRepo.RandomQuery{Limit: limit})
	if err != nil {
		return nil, err
	}
	items := make([]dto.DueItem, 0, len(words))
	for _, w := range words {
		items = append(items, dto.DueItem{Word: w})
	}
	return &dto.DueResponse{Items: items, Source: dto.SourceRandom, Count: len(items)}, nil
}

func (s *reviewService) Review(ctx context.Context, userID uuid.UUID, req dto.ReviewRequest) (*dto.ReviewResponse, error) {
	rating, err := ParseRating(req.Rating)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	wordID := uuid.MustParse(req.WordID)
	if _, err := s.words.FindByID(ctx, wordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("word not found")
		}
		return nil, err
	}

	now := s.now().UTC()
	progress, err := s.repo.Find(ctx, userID, wordID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sched := NewSchedule(now)
		progress = &entity.UserWordProgress{
			UserID:     userID,
			WordID:     wordID,
			EaseFactor: sched.EaseFactor,
			Interval:   sched.Interval,
			Repetition: sched.Repetition,
			NextReview: sched.NextReview,
		}
	case err != nil:
		return nil, err
	}

	next := Next(scheduleOf(progress), rating, now)
	progress.EaseFactor = next.EaseFactor
	progress.Interval = next.Interval
	progress.Repetition = next.Repetition
	progress.NextReview = next.NextReview
	progress.LastReviewed = &now
	progress.LastResult = string(rating)

	if err := s.repo.Upsert(ctx, progress); err != nil {
		return nil, err
	}

	metrics.Reviews.WithLabelValues(string(rating)).Inc()
	s.log.Debug("word reviewed", "user_id", userID, "word_id", wordID, "rating", rating, "interval", next.Interval)

	return &dto.ReviewResponse{
		WordID:     wordID.String(),
		Rating:     string(rating),
		EaseFactor: next.EaseFactor,
		Interval:   next.Interval,
		Repetition: next.Repetition,
		NextReview: next.NextReview,
	}, nil
}

func (s *reviewService) Stats(ctx context.Context, userID uuid.UUID) (*dto.StatsResponse, error) {
	stats, err := s.repo.Stats(ctx, userID, gamification.Day(s.now()), MasteredInterval)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{Tracked: stats.Tracked, DueToday: stats.Due, Mastered: stats.Mastered}, nil
}
