package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/achievement/repository"
	"leximind.com/api/pkg/logger"
	"leximind.com/api/pkg/metrics"
)

// Notifier receives a message for every newly earned achievement.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, message, entityType, entityID string)
}

type AchievementService interface {
	GetAll(ctx context.Context) ([]entity.Achievement, error)
	GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error)
	// Unlock awards every achievement user now meets and returns the new ones.
	Unlock(ctx context.Context, user *entity.User) ([]entity.Achievement, error)
}

type achievementService struct {
	repo     repository.AchievementRepository
	notifier Notifier
	log      *logger.Logger
	now      func() time.Time
}

func NewAchievementService(repo repository.AchievementRepository, notifier Notifier, log *logger.Logger) AchievementService {
	return &achievementService{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// Met reports whether u satisfies a. League rank badges need an exact rank.
func Met(a entity.Achievement, u *entity.User) bool {
	switch a.RequirementType {
	case entity.RequirementWordsLearned:
		return u.WordsLearned >= a.RequirementValue
	case entity.RequirementGamesPlayed:
		return u.GamesPlayed >= a.RequirementValue
	case entity.RequirementScore:
		return u.Points >= a.RequirementValue
	case entity.RequirementStreak:
		return u.Streak >= a.RequirementValue
	case entity.RequirementLeagueRank:
		return u.LeagueRank != nil && *u.LeagueRank == a.RequirementValue
	default:
		return false
	}
}

// Evaluate returns the catalog entries u meets and has not earned yet.
func Evaluate(u *entity.User, catalog []entity.Achievement, earned map[uuid.UUID]bool) []entity.Achievement {
	var out []entity.Achievement
	for _, a := range catalog {
		if !earned[a.ID] && Met(a, u) {
			out = append(out, a)
		}
	}
	return out
}

func (s *achievementService) GetAll(ctx context.Context) ([]entity.Achievement, error) {
	return s.repo.FindAll(ctx)
}

func (s *achievementService) GetUserAchievements(ctx context.Context, userID uuid.UUID) ([]entity.UserAchievement, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *achievementService) Unlock(ctx context.Context, user *entity.User) ([]entity.Achievement, error) {
	catalog, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := s.repo.EarnedIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	unlocked := []entity.Achievement{}
	for _, a := range Evaluate(user, catalog, earned) {
		inserted, err := s.repo.Award(ctx, &entity.UserAchievement{
			UserID:        user.ID,
			AchievementID: a.ID,
			EarnedAt:      s.now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		if !inserted {
			continue
		}

		unlocked = append(unlocked, a)
		metrics.AchievementsUnlocked.Inc()
		s.log.Info("achievement unlocked", "user_id", user.ID, "code", a.Code)
		if s.notifier != nil {
			s.notifier.Notify(ctx, user.ID, entity.NotificationAchievement,
				"You earned the "+a.Name+" badge "+a.Icon, "achievement", a.Code)
		}
	}
	return unlocked, nil
}

// DefaultCatalog is the seeded badge set.
func DefaultCatalog() []entity.Achievement {
	return []entity.Achievement{
		{Code: "first_step", Name: "First Step", Description: "Learn your first word", Icon: "🌟", RequirementType: entity.RequirementWordsLearned, RequirementValue: 1, Rarity: "common"},
		{Code: "word_hunter", Name: "Word Hunter", Description: "Learn 10 words", Icon: "🎯", RequirementType: entity.RequirementWordsLearned, RequirementValue: 10, Rarity: "common"},
		{Code: "game_master", Name: "Game Master", Description: "Play 5 games", Icon: "🎮", RequirementType: entity.RequirementGamesPlayed, RequirementValue: 5, Rarity: "common"},
		{Code: "high_performer", Name: "High Performer", Description: "Earn 500 points", Icon: "⚡", RequirementType: entity.RequirementScore, RequirementValue: 500, Rarity: "rare"},
		{Code: "word_genius", Name: "Word Genius", Description: "Learn 50 words", Icon: "🧠", RequirementType: entity.RequirementWordsLearned, RequirementValue: 50, Rarity: "rare"},
		{Code: "dedicated_learner", Name: "Dedicated Learner", Description: "Log in 7 days in a row", Icon: "🔥", RequirementType: entity.RequirementStreak, RequirementValue: 7, Rarity: "rare"},
		{Code: "word_collector", Name: "Word Collector", Description: "Learn 100 words", Icon: "📚", RequirementType: entity.RequirementWordsLearned, RequirementValue: 100, Rarity: "epic"},
		{Code: "super_player", Name: "Super Player", Description: "Earn 1000 points", Icon: "🏆", RequirementType: entity.RequirementScore, RequirementValue: 1000, Rarity: "epic"},
		{Code: "word_master", Name: "Word Master", Description: "Learn 200 words", Icon: "👑", RequirementType: entity.RequirementWordsLearned, RequirementValue: 200, Rarity: "legendary"},
		{Code: "league_champion", Name: "League Champion", Description: "Finish first in the weekly league", Icon: "🥇", RequirementType: entity.RequirementLeagueRank, RequirementValue: 1, Rarity: "legendary"},
	}
}
