package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"bloodbridge_backend/internal/email"
	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/push"
	"bloodbridge_backend/internal/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB поднимает изолированную in-memory sqlite базу на тест.
// Одно соединение, иначе :memory: дает каждой коннекции свою базу.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Request{},
		&models.Notification{},
		&models.EntityChange{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, fcmToken string) *models.User {
	t.Helper()
	user := &models.User{
		Name:       name,
		Email:      name + "@test.local",
		Role:       models.UserRoleDonor,
		BloodGroup: "O+",
		FCMToken:   fcmToken,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newOpenRequest(requesterID string) *models.Request {
	return &models.Request{
		BloodGroup:   "B+",
		Urgency:      models.UrgencyNormal,
		Location:     "Almaty",
		Hospital:     "City Hospital #1",
		RequesterID:  requesterID,
		PatientName:  "Patient",
		Status:       models.RequestStatusOpen,
		RequiredDate: time.Now().Add(48 * time.Hour),
	}
}

// fakeGateway записывает вызовы push-шлюза вместо реальной отправки.
type fakeGateway struct {
	mu         sync.Mutex
	topics     []string
	tokenSends [][]string
	topicErr   error
}

func (g *fakeGateway) SendToTopic(ctx context.Context, topic string, msg *push.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.topicErr != nil {
		return "", g.topicErr
	}
	g.topics = append(g.topics, topic)
	return "msg-id", nil
}

func (g *fakeGateway) SendToTokens(ctx context.Context, tokens []string, msg *push.Message) (*push.SendReport, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokenSends = append(g.tokenSends, tokens)
	return &push.SendReport{SuccessCount: len(tokens)}, nil
}

func (g *fakeGateway) Validate() error { return nil }
func (g *fakeGateway) Close() error    { return nil }

func (g *fakeGateway) sentTopics() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.topics...)
}

func (g *fakeGateway) sentTokenBatches() [][]string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([][]string(nil), g.tokenSends...)
}

// failingNotificationRepo ломает создание in-app записей для проверки
// эскалации ошибок основного канала.
type failingNotificationRepo struct {
	repositories.NotificationRepository
}

func (r *failingNotificationRepo) CreateNotification(_ *models.Notification) error {
	return context.DeadlineExceeded
}

// fakeEmailProvider записывает адресатов вместо реальной отправки по SMTP.
type fakeEmailProvider struct {
	mu      sync.Mutex
	sent    [][]string
	sendErr error
}

func (p *fakeEmailProvider) Send(_ *email.Email) error { return nil }

func (p *fakeEmailProvider) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return p.sendErr
	}
	p.sent = append(p.sent, to)
	return nil
}

func (p *fakeEmailProvider) Validate() error { return nil }
func (p *fakeEmailProvider) Close() error    { return nil }

func (p *fakeEmailProvider) sentTo() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]string(nil), p.sent...)
}
