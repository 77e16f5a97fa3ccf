package dispatch

import (
	"fmt"

	"bloodbridge_backend/internal/models"
)

// Android notification channel ID (должен совпадать с клиентом)
const AndroidChannelID = "blood_donation_high_importance"

const clickAction = "FLUTTER_NOTIFICATION_CLICK"

// Message - канало-независимое сообщение, составленное из заявки и события.
type Message struct {
	Kind  EventKind
	Title string
	Body  string
	Type  models.NotificationType
	// Data - структурированная нагрузка push-сообщения
	Data map[string]string
}

// Compose собирает сообщение для события kind. Возвращает nil, если событие
// не уведомляемое - это штатный исход, не ошибка. Composer чистый: ни
// хранилища, ни побочных эффектов.
func Compose(request *models.Request, kind EventKind) *Message {
	if kind.IsBroadcast() {
		return composeBroadcast(request, kind)
	}
	if kind.IsAction() {
		return composeAction(request, kind)
	}
	return nil
}

func composeBroadcast(request *models.Request, kind EventKind) *Message {
	bloodGroup := defaultString(request.BloodGroup, "Unknown")
	urgency := request.Urgency
	if urgency == "" {
		urgency = models.UrgencyNormal
	}
	location := defaultString(request.Location, "an unspecified location")
	patientName := defaultString(request.PatientName, "a patient")
	hospital := defaultString(request.Hospital, location)

	urgencyText := ""
	if urgency == models.UrgencyUrgent {
		urgencyText = "URGENT: "
	}

	return &Message{
		Kind:  kind,
		Title: fmt.Sprintf("%sNew Blood Request: %s", urgencyText, bloodGroup),
		Body:  fmt.Sprintf("%s in %s needs %s blood. Can you help?", patientName, hospital, bloodGroup),
		Type:  models.NotificationTypeBloodRequest,
		Data: map[string]string{
			"type":         string(models.NotificationTypeBloodRequest),
			"referenceId":  request.ID,
			"bloodGroup":   bloodGroup,
			"location":     location,
			"urgency":      string(urgency),
			"click_action": clickAction,
			"channelId":    AndroidChannelID,
		},
	}
}

func composeAction(request *models.Request, kind EventKind) *Message {
	patientName := defaultString(request.PatientName, "a patient")
	bloodGroup := request.BloodGroup

	var title, body string
	var notificationType models.NotificationType

	switch kind {
	case EventAccepted:
		title = "✅ Request Accepted!"
		body = fmt.Sprintf("Your blood request for %s (%s) has been accepted by a donor.", patientName, bloodGroup)
		notificationType = models.NotificationTypeRequestAccepted
	case EventCompleted:
		title = "💖 Donation Completed!"
		body = fmt.Sprintf("The blood donation for %s (%s) has been completed. Thank you for saving a life!", patientName, bloodGroup)
		notificationType = models.NotificationTypeDonationCompleted
	case EventCancelled:
		title = "🚫 Request Closed"
		body = fmt.Sprintf("The blood request for %s (%s) has been closed.", patientName, bloodGroup)
		notificationType = models.NotificationTypeRequestCancelled
	default:
		return nil
	}

	return &Message{
		Kind:  kind,
		Title: title,
		Body:  body,
		Type:  notificationType,
		Data: map[string]string{
			"type":         string(notificationType),
			"referenceId":  request.ID,
			"status":       string(request.Status),
			"bloodGroup":   bloodGroup,
			"click_action": clickAction,
			"channelId":    AndroidChannelID,
		},
	}
}

// ComposeTest - каноничное тестовое сообщение для проверки каналов доставки.
func ComposeTest() *Message {
	return &Message{
		Kind:  EventNone,
		Title: "🧪 Test Notification",
		Body:  "This is a test notification to verify delivery is working!",
		Type:  models.NotificationTypeTest,
		Data: map[string]string{
			"type":         string(models.NotificationTypeTest),
			"referenceId":  "test123",
			"click_action": clickAction,
			"channelId":    AndroidChannelID,
		},
	}
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
