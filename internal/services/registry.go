package services

import (
	"bloodbridge_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	RequestService      RequestService
	NotificationService NotificationService
	DispatchService     DispatchService
	DeliveryService     DeliveryService
	EmailService        email.Provider
}
