package dto

import (
	"time"

	"bloodbridge_backend/internal/models"
)

// NotificationResponse - JSON-форма in-app уведомления. Имена полей
// зафиксированы клиентом (см. models.Notification).
type NotificationResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	ReferenceID string     `json:"referenceId"`
	IsRead      bool       `json:"isRead"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"pageSize"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

func NewNotificationResponse(notification *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:          notification.ID,
		UserID:      notification.UserID,
		Title:       notification.Title,
		Message:     notification.Message,
		Type:        string(notification.Type),
		ReferenceID: notification.ReferenceID,
		IsRead:      notification.IsRead,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}
}
