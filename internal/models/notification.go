package models

import "time"

// Notification - персистентная in-app запись уведомления.
// JSON-форма (userId, title, message, type, referenceId, isRead, createdAt)
// читается клиентским приложением напрямую - поля не переименовывать.
type Notification struct {
	BaseModel
	UserID      string           `gorm:"not null;index" json:"userId"`
	Title       string           `gorm:"not null" json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `gorm:"type:varchar(30);not null;index" json:"type"`
	ReferenceID string           `gorm:"index" json:"referenceId"`
	IsRead      bool             `gorm:"default:false" json:"isRead"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
}
