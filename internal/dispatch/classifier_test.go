package dispatch

import (
	"testing"

	"bloodbridge_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func requestWithStatus(status models.RequestStatus) *models.Request {
	return &models.Request{Status: status}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before *models.Request
		after  *models.Request
		want   EventKind
	}{
		{
			name:  "создание открытой заявки - broadcast",
			after: requestWithStatus(models.RequestStatusOpen),
			want:  EventCreated,
		},
		{
			name:  "создание сразу не-open - только очистка",
			after: requestWithStatus(models.RequestStatusCompleted),
			want:  EventStaleCreation,
		},
		{
			name:   "статус не менялся - нет события",
			before: requestWithStatus(models.RequestStatusOpen),
			after:  requestWithStatus(models.RequestStatusOpen),
			want:   EventNone,
		},
		{
			name:   "open -> accepted",
			before: requestWithStatus(models.RequestStatusOpen),
			after:  requestWithStatus(models.RequestStatusAccepted),
			want:   EventAccepted,
		},
		{
			name:   "accepted -> completed",
			before: requestWithStatus(models.RequestStatusAccepted),
			after:  requestWithStatus(models.RequestStatusCompleted),
			want:   EventCompleted,
		},
		{
			name:   "open -> cancelled",
			before: requestWithStatus(models.RequestStatusOpen),
			after:  requestWithStatus(models.RequestStatusCancelled),
			want:   EventCancelled,
		},
		{
			name:   "open -> closed тоже отдает cancelled-событие",
			before: requestWithStatus(models.RequestStatusOpen),
			after:  requestWithStatus(models.RequestStatusClosed),
			want:   EventCancelled,
		},
		{
			name:   "возврат в open - повторный broadcast",
			before: requestWithStatus(models.RequestStatusCancelled),
			after:  requestWithStatus(models.RequestStatusOpen),
			want:   EventReopened,
		},
		{
			name:   "неизвестный статус - строгий no-op",
			before: requestWithStatus(models.RequestStatusOpen),
			after:  requestWithStatus(models.RequestStatus("archived")),
			want:   EventNone,
		},
		{
			name:   "удаление документа - нет события",
			before: requestWithStatus(models.RequestStatusOpen),
			after:  nil,
			want:   EventNone,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.before, tt.after))
		})
	}
}

func TestEventKindPredicates(t *testing.T) {
	t.Parallel()

	assert.True(t, EventCreated.IsBroadcast())
	assert.True(t, EventReopened.IsBroadcast())
	assert.False(t, EventAccepted.IsBroadcast())

	assert.True(t, EventAccepted.IsAction())
	assert.True(t, EventCompleted.IsAction())
	assert.True(t, EventCancelled.IsAction())
	assert.False(t, EventCreated.IsAction())
	assert.False(t, EventStaleCreation.IsAction())
}
