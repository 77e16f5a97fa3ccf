package services

import (
	"context"
	"errors"
	"fmt"

	"bloodbridge_backend/internal/dispatch"
	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/pkg/apperrors"
)

// DispatchService - контроллер жизненного цикла заявки. Принимает пары
// снапшотов (before, after) из фида изменений, классифицирует переход,
// чистит устаревшие fan-out записи и запускает доставку.
type DispatchService interface {
	HandleChange(ctx context.Context, before, after *models.Request) error
	// SendTestNotification шлет каноничное тестовое сообщение одному
	// пользователю (token push + in-app запись).
	SendTestNotification(ctx context.Context, userID string) (*DeliveryReport, error)
	// CleanupRequestNotifications удаляет fan-out записи заявки.
	// Используется контроллером и orphan sweep.
	CleanupRequestNotifications(ctx context.Context, requestID string) (int64, error)
}

type dispatchService struct {
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	delivery         DeliveryService
}

func NewDispatchService(
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	delivery DeliveryService,
) DispatchService {
	return &dispatchService{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		delivery:         delivery,
	}
}

func (s *dispatchService) HandleChange(ctx context.Context, before, after *models.Request) error {
	kind := dispatch.Classify(before, after)
	if kind == dispatch.EventNone {
		return nil
	}

	log := logger.FromContext(ctx).With("request_id", after.ID, "event", string(kind))

	switch {
	case kind == dispatch.EventStaleCreation:
		// заявка появилась сразу не-open: рассылки нет, но возможные
		// старые записи вычищаем
		deleted, err := s.CleanupRequestNotifications(ctx, after.ID)
		if err != nil {
			log.Error("stale-creation cleanup failed", "error", err.Error())
			return err
		}
		if deleted > 0 {
			log.Info("deleted notifications for non-open request", "count", deleted)
		}
		return nil

	case kind.IsBroadcast():
		return s.broadcast(ctx, after, kind)

	case kind.IsAction():
		// на ребре open -> non-open сперва снимаем fan-out записи;
		// провал удаления не блокирует action-доставку
		if before != nil && before.IsOpen() {
			if deleted, err := s.CleanupRequestNotifications(ctx, after.ID); err != nil {
				log.Error("failed to delete stale notifications", "error", err.Error())
			} else if deleted > 0 {
				log.Info("deleted stale blood_request notifications", "count", deleted)
			}
		}
		return s.notifyAction(ctx, after, kind)
	}

	return nil
}

func (s *dispatchService) broadcast(ctx context.Context, request *models.Request, kind dispatch.EventKind) error {
	log := logger.FromContext(ctx).With("request_id", request.ID, "event", string(kind))

	msg := dispatch.Compose(request, kind)
	if msg == nil {
		return nil
	}

	allIDs, err := s.userRepo.FindAllIDs()
	if err != nil {
		log.Error("failed to load user ids for fan-out", "error", err.Error())
		return fmt.Errorf("recipient resolution failed: %w", err)
	}

	recipients := dispatch.Resolve(request, kind, allIDs)
	if len(recipients) == 0 {
		log.Info("no recipients for broadcast, skipping delivery")
		return nil
	}

	report, err := s.delivery.Deliver(ctx, msg, recipients)
	if err != nil {
		log.Error("broadcast delivery degraded", "error", err.Error(), "created", report.InAppCreated, "failed", report.InAppFailed)
		return err
	}
	log.Info("broadcast delivered", "recipients", report.Recipients, "in_app", report.InAppCreated, "topics", report.TopicsSent)
	return nil
}

func (s *dispatchService) notifyAction(ctx context.Context, request *models.Request, kind dispatch.EventKind) error {
	log := logger.FromContext(ctx).With("request_id", request.ID, "event", string(kind))

	msg := dispatch.Compose(request, kind)
	if msg == nil {
		return nil
	}

	recipients := dispatch.Resolve(request, kind, nil)
	if len(recipients) == 0 {
		return nil
	}

	report, err := s.delivery.Deliver(ctx, msg, recipients)
	if err != nil {
		log.Error("action delivery degraded", "error", err.Error(), "created", report.InAppCreated, "failed", report.InAppFailed)
		return err
	}
	log.Info("action notification delivered", "recipients", report.Recipients, "in_app", report.InAppCreated)
	return nil
}

func (s *dispatchService) SendTestNotification(ctx context.Context, userID string) (*DeliveryReport, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(userID)
		}
		return nil, apperrors.NewInternalError("failed to load user", err)
	}
	// тестовое сообщение проверяет доставку на устройство: без
	// зарегистрированного токена проверять нечего
	if user.FCMToken == "" {
		return nil, apperrors.ErrMissingFCMToken
	}
	return s.delivery.Deliver(ctx, dispatch.ComposeTest(), []string{userID})
}

func (s *dispatchService) CleanupRequestNotifications(ctx context.Context, requestID string) (int64, error) {
	return s.notificationRepo.DeleteByReference(requestID, models.NotificationTypeBloodRequest)
}
