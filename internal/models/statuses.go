package models

type RequestStatus string
type RequestUrgency string
type UserRole string
type NotificationType string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
	RequestStatusClosed    RequestStatus = "closed"

	UrgencyNormal RequestUrgency = "normal"
	UrgencyUrgent RequestUrgency = "urgent"

	UserRoleDonor UserRole = "donor"
	UserRoleAdmin UserRole = "admin"

	NotificationTypeBloodRequest      NotificationType = "blood_request"
	NotificationTypeRequestAccepted   NotificationType = "request_accepted"
	NotificationTypeDonationCompleted NotificationType = "donation_completed"
	NotificationTypeRequestCancelled  NotificationType = "request_cancelled"
	NotificationTypeTest              NotificationType = "test"
)

// IsTerminal сообщает, что дальнейшие уведомления по заявке не рассылаются.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled || s == RequestStatusClosed
}
