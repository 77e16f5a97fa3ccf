package dispatch

import (
	"bloodbridge_backend/internal/models"
)

// EventKind классифицирует изменение заявки с точки зрения рассылки.
type EventKind string

const (
	// EventNone - изменение не требует никакой реакции.
	EventNone EventKind = ""
	// EventCreated - новая open-заявка, широкая рассылка.
	EventCreated EventKind = "created"
	// EventReopened - заявка вернулась в open, обрабатывается как created.
	EventReopened EventKind = "reopened"
	// EventStaleCreation - заявка создана сразу не-open (backfill);
	// рассылки нет, но возможные старые записи подлежат удалению.
	EventStaleCreation EventKind = "stale_creation"

	EventAccepted  EventKind = "accepted"
	EventCompleted EventKind = "completed"
	// EventCancelled покрывает статусы cancelled и closed.
	EventCancelled EventKind = "cancelled"
)

// IsBroadcast - событие с широкой рассылкой всем, кроме заявителя.
func (k EventKind) IsBroadcast() bool {
	return k == EventCreated || k == EventReopened
}

// IsAction - переход статуса, адресованный заявителю и принявшему донору.
func (k EventKind) IsAction() bool {
	return k == EventAccepted || k == EventCompleted || k == EventCancelled
}

// Classify превращает пару снапшотов (before, after) в EventKind.
// before == nil означает создание документа. Неизвестные значения статуса
// дают EventNone: рассылки нет и удаления нет, хвосты подбирает orphan sweep.
func Classify(before, after *models.Request) EventKind {
	if after == nil {
		return EventNone
	}

	if before == nil {
		if after.IsOpen() {
			return EventCreated
		}
		return EventStaleCreation
	}

	if before.Status == after.Status {
		return EventNone
	}

	if !before.IsOpen() && after.IsOpen() {
		return EventReopened
	}

	switch after.Status {
	case models.RequestStatusAccepted:
		return EventAccepted
	case models.RequestStatusCompleted:
		return EventCompleted
	case models.RequestStatusCancelled, models.RequestStatusClosed:
		return EventCancelled
	default:
		return EventNone
	}
}
