package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	gamification "leximind.com/api/internal/modules/gamification/service"
	"leximind.com/api/internal/modules/user/dto"
	"leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/auth"
	commonDto "leximind.com/api/pkg/dto"
	"leximind.com/api/pkg/logger"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*commonDto.UserSummary, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error
}

type authService struct {
	repo   repository.UserRepository
	tokens *auth.TokenManager
	log    *logger.Logger
	now    func() time.Time
}

func NewAuthService(repo repository.UserRepository, tokens *auth.TokenManager, log *logger.Logger) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

var errInvalidCredentials = apperror.Unauthorized("invalid credentials")

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	gamification.ApplyLogin(user, s.now())
	if err := s.repo.UpdateLoginState(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Username, user.Role.Name)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", "user_id", user.ID, "streak", user.Streak)

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        dto.ToSummary(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*commonDto.UserSummary, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	summary := dto.ToSummary(user)
	return &summary, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return apperror.BadRequest("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hash))
}
