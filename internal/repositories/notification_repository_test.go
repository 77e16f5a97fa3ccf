package repositories

import (
	"testing"

	"bloodbridge_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestNotification(t *testing.T, db *gorm.DB, userID, referenceID string, nType models.NotificationType) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		UserID:      userID,
		Title:       "title",
		Message:     "message",
		Type:        nType,
		ReferenceID: referenceID,
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	n := createTestNotification(t, db, "u1", "req-1", models.NotificationTypeBloodRequest)

	require.NoError(t, repo.MarkAsRead(n.ID))

	got, err := repo.FindNotificationByID(n.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.NotNil(t, got.ReadAt)

	assert.ErrorIs(t, repo.MarkAsRead("missing"), ErrNotificationNotFound)
}

func TestNotificationRepository_UnreadCountAndMarkAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	createTestNotification(t, db, "u1", "req-1", models.NotificationTypeBloodRequest)
	createTestNotification(t, db, "u1", "req-2", models.NotificationTypeBloodRequest)
	createTestNotification(t, db, "u2", "req-1", models.NotificationTypeBloodRequest)

	count, err := repo.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	updated, err := repo.MarkAllAsRead("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	count, err = repo.GetUnreadCount("u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// чужие уведомления не тронуты
	count, err = repo.GetUnreadCount("u2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNotificationRepository_FindUserNotificationsCriteria(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	n1 := createTestNotification(t, db, "u1", "req-1", models.NotificationTypeBloodRequest)
	createTestNotification(t, db, "u1", "req-1", models.NotificationTypeRequestAccepted)
	require.NoError(t, repo.MarkAsRead(n1.ID))

	unread, total, err := repo.FindUserNotifications("u1", NotificationCriteria{UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, unread, 1)
	assert.Equal(t, models.NotificationTypeRequestAccepted, unread[0].Type)

	byType, total, err := repo.FindUserNotifications("u1", NotificationCriteria{Type: string(models.NotificationTypeBloodRequest)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byType, 1)
	assert.Equal(t, n1.ID, byType[0].ID)
}

func TestNotificationRepository_DeleteByReference(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	createTestNotification(t, db, "u1", "req-1", models.NotificationTypeBloodRequest)
	createTestNotification(t, db, "u2", "req-1", models.NotificationTypeBloodRequest)
	// action-запись по той же заявке удаляться не должна
	keep := createTestNotification(t, db, "u1", "req-1", models.NotificationTypeRequestAccepted)
	// другая заявка
	other := createTestNotification(t, db, "u3", "req-2", models.NotificationTypeBloodRequest)

	deleted, err := repo.DeleteByReference("req-1", models.NotificationTypeBloodRequest)
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = repo.FindNotificationByID(keep.ID)
	assert.NoError(t, err)
	_, err = repo.FindNotificationByID(other.ID)
	assert.NoError(t, err)

	// повторный вызов идемпотентен
	deleted, err = repo.DeleteByReference("req-1", models.NotificationTypeBloodRequest)
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}

func TestNotificationRepository_DeleteNotificationIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNotificationRepository(db)

	n := createTestNotification(t, db, "u1", "req-1", models.NotificationTypeBloodRequest)
	require.NoError(t, repo.DeleteNotification(n.ID))
	require.NoError(t, repo.DeleteNotification(n.ID))

	_, err := repo.FindNotificationByID(n.ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
