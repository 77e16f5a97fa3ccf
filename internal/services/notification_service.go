package services

import (
	"context"
	"errors"

	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/internal/services/dto"
	"bloodbridge_backend/pkg/apperrors"
)

// NotificationService - чтение и управление in-app уведомлениями пользователя.
type NotificationService interface {
	ListUserNotifications(ctx context.Context, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) ListUserNotifications(ctx context.Context, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		logger.CtxWithError(ctx, "failed to list notifications", err, "user_id", userID)
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.NewNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
	}, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to count unread notifications", err, "user_id", userID)
		return nil, apperrors.NewInternalError("failed to count unread notifications", err)
	}
	return &dto.UnreadCountResponse{UnreadCount: count}, nil
}

// MarkAsRead помечает уведомление прочитанным. Чужие уведомления
// пометить нельзя - владелец проверяется до записи.
func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotificationNotFoundError(notificationID)
		}
		return apperrors.NewInternalError("failed to load notification", err)
	}
	if notification.UserID != userID {
		return apperrors.NewNotificationAccessError(notificationID)
	}
	if notification.IsRead {
		return nil
	}
	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.NewInternalError("failed to mark notification as read", err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(userID)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to mark notifications as read", err)
	}
	return updated, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			// удаление идемпотентно
			return nil
		}
		return apperrors.NewInternalError("failed to load notification", err)
	}
	if notification.UserID != userID {
		return apperrors.NewNotificationAccessError(notificationID)
	}
	if err := s.notificationRepo.DeleteNotification(notificationID); err != nil {
		return apperrors.NewInternalError("failed to delete notification", err)
	}
	return nil
}
