package dispatch

import (
	"testing"

	"bloodbridge_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveBroadcastExcludesRequester(t *testing.T) {
	t.Parallel()

	request := &models.Request{RequesterID: "u1"}
	all := []string{"u1", "u2", "u3", "u2", ""}

	recipients := Resolve(request, EventCreated, all)

	assert.ElementsMatch(t, []string{"u2", "u3"}, recipients)
}

func TestResolveActionTargets(t *testing.T) {
	t.Parallel()

	request := &models.Request{
		RequesterID: "u1",
		Responders:  []string{"u5", "u2"},
	}

	// адресаты - заявитель и последний откликнувшийся
	recipients := Resolve(request, EventAccepted, nil)
	assert.Equal(t, []string{"u1", "u2"}, recipients)
}

func TestResolveActionWithoutResponder(t *testing.T) {
	t.Parallel()

	// закрытие по сроку: заявку никто не принимал
	request := &models.Request{RequesterID: "u1"}
	recipients := Resolve(request, EventCancelled, nil)
	assert.Equal(t, []string{"u1"}, recipients)
}

func TestResolveActionSelfResponseDeduped(t *testing.T) {
	t.Parallel()

	request := &models.Request{
		RequesterID: "u1",
		Responders:  []string{"u1"},
	}
	recipients := Resolve(request, EventAccepted, nil)
	assert.Equal(t, []string{"u1"}, recipients)
}

func TestResolveNonNotifiableKinds(t *testing.T) {
	t.Parallel()

	request := &models.Request{RequesterID: "u1"}
	assert.Nil(t, Resolve(request, EventNone, []string{"u2"}))
	assert.Nil(t, Resolve(request, EventStaleCreation, []string{"u2"}))
}

func TestResolveBroadcastEmptyUserSet(t *testing.T) {
	t.Parallel()

	request := &models.Request{RequesterID: "u1"}
	assert.Empty(t, Resolve(request, EventCreated, []string{"u1"}))
	assert.Empty(t, Resolve(request, EventCreated, nil))
}
