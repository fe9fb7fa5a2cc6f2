package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	"leximind.com/api/internal/modules/admin/dto"
	userDto "leximind.com/api/internal/modules/user/dto"
	"leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/apperror"
	commonDto "leximind.com/api/pkg/dto"
	"leximind.com/api/pkg/logger"
)

type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*commonDto.UserSummary, error)
	GetAllUsers(ctx context.Context) ([]commonDto.UserSummary, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

func NewAdminService(userRepo repository.UserRepository, log *logger.Logger) AdminService {
	return &adminService{userRepo: userRepo, log: log}
}

func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*commonDto.UserSummary, error) {
	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperror.Conflict("username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.userRepo.FindRoleByName(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("unknown role")
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	target := input.DailyWordsTarget
	if target == 0 {
		target = entity.DefaultDailyWordsTarget
	}

	user := &entity.User{
		Username:         input.Username,
		PasswordHash:     string(hash),
		RoleID:           &role.ID,
		Role:             *role,
		ClassName:        input.ClassName,
		Level:            1,
		DailyWordsTarget: target,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", "user_id", user.ID, "role", role.Name)

	summary := userDto.ToSummary(user)
	return &summary, nil
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]commonDto.UserSummary, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return userDto.ToSummaries(users), nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	if user.Username == entity.AdminUsername {
		return apperror.BadRequest("the admin account cannot be deleted")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("user deleted", "user_id", id)
	return nil
}
