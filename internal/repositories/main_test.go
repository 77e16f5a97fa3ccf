package repositories

import (
	"testing"
	"time"

	"bloodbridge_backend/internal/models"

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

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:       name,
		Email:      name + "@test.local",
		Role:       models.UserRoleDonor,
		BloodGroup: "O+",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestRequest(requesterID string) *models.Request {
	return &models.Request{
		BloodGroup:   "A+",
		Urgency:      models.UrgencyNormal,
		Location:     "Almaty",
		Hospital:     "City Hospital #1",
		RequesterID:  requesterID,
		PatientName:  "Patient",
		Status:       models.RequestStatusOpen,
		RequiredDate: time.Now().Add(48 * time.Hour),
	}
}
