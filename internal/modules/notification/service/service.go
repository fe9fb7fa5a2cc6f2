package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"leximind.com/api/internal/entity"
	notifRepo "leximind.com/api/internal/modules/notification/repository"
	"leximind.com/api/pkg/apperror"
	"leximind.com/api/pkg/logger"
)

// Channel is the redis pubsub channel carrying a user's notifications.
func Channel(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	// Notify stores a notification and pushes it to live subscribers.
	// Failures are logged, never returned.
	Notify(ctx context.Context, userID uuid.UUID, kind, message, entityType, entityID string)
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	redisClient *redis.Client
	log         *logger.Logger
}

func NewNotificationService(repo notifRepo.NotificationRepository, redisClient *redis.Client, log *logger.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		log:         log,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, kind, message, entityType, entityID string) {
	notification := &entity.Notification{
		UserID:     userID,
		Type:       kind,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		s.log.Warn("failed to store notification", "user_id", userID, "type", kind, "error", err)
		return
	}

	if s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return
	}
	if err := s.redisClient.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		s.log.Warn("failed to publish notification", "user_id", userID, "error", err)
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]entity.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.repo.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
