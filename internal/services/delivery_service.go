package services

import (
	"context"
	"fmt"
	"sync"

	"bloodbridge_backend/internal/dispatch"
	"bloodbridge_backend/internal/email"
	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/push"
	"bloodbridge_backend/internal/repositories"
)

// DeliveryReport - агрегированный итог одной доставки по всем каналам.
type DeliveryReport struct {
	Recipients   int              `json:"recipients"`
	InAppCreated int              `json:"inAppCreated"`
	InAppFailed  int              `json:"inAppFailed"`
	TopicsSent   []string         `json:"topicsSent,omitempty"`
	TopicErrors  []string         `json:"topicErrors,omitempty"`
	TokenReport  *push.SendReport `json:"tokenReport,omitempty"`
	EmailSent    int              `json:"emailSent"`
	EmailFailed  int              `json:"emailFailed"`
}

// DeliveryService доставляет составленное сообщение по независимым каналам.
//
// Каналы выполняются конкурентно и джойнятся перед возвратом. Топик-push и
// token-push best-effort: их ошибки пишутся в отчет, но не эскалируются.
// In-app запись - авторитетный канал: его частичный провал возвращается
// ошибкой (но оставшиеся получатели все равно обрабатываются).
type DeliveryService interface {
	Deliver(ctx context.Context, msg *dispatch.Message, recipients []string) (*DeliveryReport, error)
}

type deliveryService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	gateway          push.Gateway
	emailProvider    email.Provider // nil - канал выключен
}

func NewDeliveryService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	gateway push.Gateway,
	emailProvider email.Provider,
) DeliveryService {
	return &deliveryService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		gateway:          gateway,
		emailProvider:    emailProvider,
	}
}

func (s *deliveryService) Deliver(ctx context.Context, msg *dispatch.Message, recipients []string) (*DeliveryReport, error) {
	report := &DeliveryReport{Recipients: len(recipients)}

	// пустой набор получателей - валидный исход без побочных эффектов
	if msg == nil || len(recipients) == 0 {
		return report, nil
	}

	var wg sync.WaitGroup

	// Канал 1: topic push (только broadcast-события)
	if msg.Kind.IsBroadcast() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.deliverTopics(ctx, msg, report)
		}()
	}

	// Канал 2: push по токенам (action- и test-события, адресаты известны)
	if msg.Kind.IsAction() || msg.Type == models.NotificationTypeTest {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.deliverTokens(ctx, msg, recipients, report)
		}()
	}

	// Канал 3: in-app записи - основной канал, выполняется всегда
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.deliverInApp(ctx, msg, recipients, report)
	}()

	// Канал 4 (опциональный): email для срочных broadcast-событий
	if s.emailProvider != nil && msg.Kind.IsBroadcast() && msg.Data["urgency"] == string(models.UrgencyUrgent) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.deliverEmail(ctx, msg, recipients, report)
		}()
	}

	wg.Wait()

	if report.InAppFailed > 0 {
		return report, fmt.Errorf("in-app channel: %d of %d records failed", report.InAppFailed, len(recipients))
	}
	return report, nil
}

func (s *deliveryService) deliverTopics(ctx context.Context, msg *dispatch.Message, report *DeliveryReport) {
	pushMsg := &push.Message{Title: msg.Title, Body: msg.Body, Data: msg.Data}

	topics := []string{push.TopicNewRequests}
	if bloodGroup := msg.Data["bloodGroup"]; bloodGroup != "" && bloodGroup != "Unknown" {
		topics = append(topics, push.BloodGroupTopic(bloodGroup))
	}

	for _, topic := range topics {
		if _, err := s.gateway.SendToTopic(ctx, topic, pushMsg); err != nil {
			// ожидаемо, если на топик еще никто не подписан
			logger.CtxWarn(ctx, "topic push failed", "topic", topic, "error", err.Error())
			report.TopicErrors = append(report.TopicErrors, fmt.Sprintf("%s: %v", topic, err))
			continue
		}
		report.TopicsSent = append(report.TopicsSent, topic)
	}
}

func (s *deliveryService) deliverTokens(ctx context.Context, msg *dispatch.Message, recipients []string, report *DeliveryReport) {
	users, err := s.userRepo.FindByIDs(recipients)
	if err != nil {
		// провал чтения выбивает получателей только из этого канала
		logger.CtxWarn(ctx, "token lookup failed, skipping token channel", "error", err.Error())
		return
	}

	tokens := make([]string, 0, len(users))
	for _, user := range users {
		if user.FCMToken == "" {
			continue // нет токена - получатель пропускается, не ошибка
		}
		tokens = append(tokens, user.FCMToken)
	}
	if len(tokens) == 0 {
		return
	}

	pushMsg := &push.Message{Title: msg.Title, Body: msg.Body, Data: msg.Data}
	sendReport, err := s.gateway.SendToTokens(ctx, tokens, pushMsg)
	if err != nil {
		logger.CtxWarn(ctx, "token batch push failed", "tokens", len(tokens), "error", err.Error())
		return
	}
	report.TokenReport = sendReport
	logger.CtxInfo(ctx, "token push delivered",
		"success", sendReport.SuccessCount, "failure", sendReport.FailureCount)
}

func (s *deliveryService) deliverInApp(ctx context.Context, msg *dispatch.Message, recipients []string, report *DeliveryReport) {
	referenceID := msg.Data["referenceId"]

	for _, userID := range recipients {
		notification := &models.Notification{
			UserID:      userID,
			Title:       msg.Title,
			Message:     msg.Body,
			Type:        msg.Type,
			ReferenceID: referenceID,
			IsRead:      false,
		}
		if err := s.notificationRepo.CreateNotification(notification); err != nil {
			// не прерываем цикл: остальные получатели важнее
			logger.CtxError(ctx, "failed to create in-app notification",
				"user_id", userID, "reference_id", referenceID, "error", err.Error())
			report.InAppFailed++
			continue
		}
		report.InAppCreated++
	}
}

func (s *deliveryService) deliverEmail(ctx context.Context, msg *dispatch.Message, recipients []string, report *DeliveryReport) {
	users, err := s.userRepo.FindByIDs(recipients)
	if err != nil {
		logger.CtxWarn(ctx, "email lookup failed, skipping email channel", "error", err.Error())
		return
	}

	data := email.TemplateData{
		"Title": msg.Title,
		"Body":  msg.Body,
	}

	for _, user := range users {
		if user.Email == "" {
			continue
		}
		if err := s.emailProvider.SendTemplate([]string{user.Email}, msg.Title, email.TemplateUrgentRequest, data); err != nil {
			logger.CtxWarn(ctx, "email send failed", "user_id", user.ID, "error", err.Error())
			report.EmailFailed++
			continue
		}
		report.EmailSent++
	}
}
