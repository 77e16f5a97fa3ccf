package repositories

import (
	"errors"
	"time"

	"bloodbridge_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Search criteria for the client notification list
type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page" binding:"min=0"`
	PageSize   int    `form:"page_size" binding:"min=0,max=100"`
}

type NotificationRepository interface {
	// Notification operations
	CreateNotification(notification *models.Notification) error
	FindNotificationByID(id string) (*models.Notification, error)
	FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(userID string) (int64, error)
	DeleteNotification(id string) error
	GetUnreadCount(userID string) (int64, error)

	// Lifecycle / cleanup operations
	// DeleteByReference удаляет записи, ссылающиеся на заявку, одним
	// bulk-запросом (idempotent: ноль удаленных строк - не ошибка).
	DeleteByReference(referenceID string, types ...models.NotificationType) (int64, error)
	FindByType(notificationType models.NotificationType, limit, offset int) ([]models.Notification, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

// ---------------- Notification operations ----------------

func (r *NotificationRepositoryImpl) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	now := time.Now()
	result := r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(userID string) (int64, error) {
	now := time.Now()
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) DeleteNotification(id string) error {
	// повторное удаление уже удаленной записи - no-op, не ошибка
	return r.db.Delete(&models.Notification{}, "id = ?", id).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// ---------------- Lifecycle / cleanup operations ----------------

func (r *NotificationRepositoryImpl) DeleteByReference(referenceID string, types ...models.NotificationType) (int64, error) {
	query := r.db.Where("reference_id = ?", referenceID)
	if len(types) > 0 {
		query = query.Where("type IN ?", types)
	}
	result := query.Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) FindByType(notificationType models.NotificationType, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.
		Where("type = ?", notificationType).
		// вторичный ключ стабилизирует страницы при равных created_at
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	return notifications, err
}
