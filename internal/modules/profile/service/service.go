package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	achievement "leximind.com/api/internal/modules/achievement/service"
	gamification "leximind.com/api/internal/modules/gamification/service"
	profileDto "leximind.com/api/internal/modules/profile/dto"
	seasonRepo "leximind.com/api/internal/modules/season/repository"
	userRepo "leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/apperror"
)

type ProfileService interface {
	GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error)
	GetProfileByUsername(ctx context.Context, username string) (*profileDto.PublicProfileResponse, error)
}

type profileService struct {
	repo         userRepo.UserRepository
	achievements achievement.AchievementService
	seasons      seasonRepo.SeasonRepository
}

func NewProfileService(repo userRepo.UserRepository, achievements achievement.AchievementService, seasons seasonRepo.SeasonRepository) ProfileService {
	return &profileService{
		repo:         repo,
		achievements: achievements,
		seasons:      seasons,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("user not found")
	}
	return err
}

func (s *profileService) GetCurrentProfile(ctx context.Context, userID uuid.UUID) (*profileDto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}

	earned, err := s.achievements.GetUserAchievements(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if earned == nil {
		earned = []entity.UserAchievement{}
	}

	history, err := s.seasons.FindHistory(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []entity.SeasonStanding{}
	}

	return &profileDto.ProfileResponse{
		ID:            user.ID,
		Username:      user.Username,
		Role:          user.RoleName(),
		ClassName:     user.ClassName,
		LevelProgress: gamification.GetLevelProgress(user.XP),
		Points:        user.Points,
		WordsLearned:  user.WordsLearned,
		GamesPlayed:   user.GamesPlayed,
		Streak:        user.Streak,
		LeagueRank:    user.LeagueRank,
		ProfileStar:   user.ProfileStar,
		Achievements:  earned,
		SeasonHistory: history,
		CreatedAt:     user.CreatedAt,
	}, nil
}

func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*profileDto.PublicProfileResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}

	earned, err := s.achievements.GetUserAchievements(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &profileDto.PublicProfileResponse{
		Username:     user.Username,
		Role:         user.RoleName(),
		ClassName:    user.ClassName,
		Level:        gamification.Level(user.XP),
		Points:       user.Points,
		WordsLearned: user.WordsLearned,
		ProfileStar:  user.ProfileStar,
		Badges:       len(earned),
		CreatedAt:    user.CreatedAt,
	}, nil
}
