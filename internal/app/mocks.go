package app

import (
	"context"

	"bloodbridge_backend/internal/email"
	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/push"
)

// LogGateway пишет push-сообщения в лог вместо реальной отправки.
// Используется локально и на стендах без серверного ключа.
type LogGateway struct{}

func (g *LogGateway) SendToTopic(ctx context.Context, topic string, msg *push.Message) (string, error) {
	logger.Info("push (log only): topic message", "topic", topic, "title", msg.Title)
	return "log-only", nil
}

func (g *LogGateway) SendToTokens(ctx context.Context, tokens []string, msg *push.Message) (*push.SendReport, error) {
	logger.Info("push (log only): token message", "tokens", len(tokens), "title", msg.Title)
	return &push.SendReport{SuccessCount: len(tokens)}, nil
}

func (g *LogGateway) Validate() error { return nil }
func (g *LogGateway) Close() error    { return nil }

// MockEmailProvider используется для тестов и локальной разработки.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(emailMsg *email.Email) error { return nil }
func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	return nil
}
func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }
