package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"bloodbridge_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRepository_CreateWritesChangeFeed(t *testing.T) {
	db := setupTestDB(t)
	changeLog := NewChangeLogRepository(db)
	repo := NewRequestRepository(db, changeLog)

	request := newTestRequest("u1")
	require.NoError(t, repo.Create(request))
	require.NotEmpty(t, request.ID)

	// 1. Строка фида создана в той же транзакции
	changes, err := changeLog.FetchUnprocessed(models.CollectionRequests, 10)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	change := changes[0]
	assert.Equal(t, models.ChangeActionCreate, change.Action)
	assert.Equal(t, request.ID, change.RecordID)
	assert.Empty(t, []byte(change.Before), "before для CREATE должен быть пустым")

	// 2. After-снапшот декодируется обратно в заявку
	var after models.Request
	require.NoError(t, json.Unmarshal(change.After, &after))
	assert.Equal(t, models.RequestStatusOpen, after.Status)
	assert.Equal(t, "A+", after.BloodGroup)
}

func TestRequestRepository_UpdateWritesBeforeAndAfter(t *testing.T) {
	db := setupTestDB(t)
	changeLog := NewChangeLogRepository(db)
	repo := NewRequestRepository(db, changeLog)

	request := newTestRequest("u1")
	require.NoError(t, repo.Create(request))

	request.Status = models.RequestStatusAccepted
	request.Responders = append(request.Responders, "u2")
	require.NoError(t, repo.Update(request))

	changes, err := changeLog.FetchUnprocessed(models.CollectionRequests, 10)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	update := changes[1]
	assert.Equal(t, models.ChangeActionUpdate, update.Action)

	var before, after models.Request
	require.NoError(t, json.Unmarshal(update.Before, &before))
	require.NoError(t, json.Unmarshal(update.After, &after))
	assert.Equal(t, models.RequestStatusOpen, before.Status)
	assert.Equal(t, models.RequestStatusAccepted, after.Status)
	assert.Equal(t, "u2", after.LastResponder())
}

func TestRequestRepository_UpdateMissingRequest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db, NewChangeLogRepository(db))

	missing := newTestRequest("u1")
	missing.ID = "no-such-id"
	assert.ErrorIs(t, repo.Update(missing), ErrRequestNotFound)
}

func TestRequestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db, NewChangeLogRepository(db))

	request := newTestRequest("u1")
	require.NoError(t, repo.Create(request))

	found, err := repo.FindByID(request.ID)
	require.NoError(t, err)
	assert.Equal(t, request.ID, found.ID)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestRequestRepository_FindOpenFiltersByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRequestRepository(db, NewChangeLogRepository(db))

	open := newTestRequest("u1")
	require.NoError(t, repo.Create(open))

	closed := newTestRequest("u1")
	closed.Status = models.RequestStatusCancelled
	require.NoError(t, repo.Create(closed))

	requests, total, err := repo.FindOpen(10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, requests, 1)
	assert.Equal(t, open.ID, requests[0].ID)
}

func TestRequestRepository_CloseExpired(t *testing.T) {
	db := setupTestDB(t)
	changeLog := NewChangeLogRepository(db)
	repo := NewRequestRepository(db, changeLog)

	expired := newTestRequest("u1")
	expired.RequiredDate = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Create(expired))

	fresh := newTestRequest("u1")
	require.NoError(t, repo.Create(fresh))

	alreadyDone := newTestRequest("u1")
	alreadyDone.Status = models.RequestStatusCompleted
	alreadyDone.RequiredDate = time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Create(alreadyDone))

	closed, err := repo.CloseExpired(time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, closed)

	// Просроченная заявка закрыта и закрытие попало в фид
	got, err := repo.FindByID(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusClosed, got.Status)

	untouched, err := repo.FindByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusOpen, untouched.Status)

	changes, err := changeLog.FetchUnprocessed(models.CollectionRequests, 10)
	require.NoError(t, err)
	assert.Len(t, changes, 4) // 3 create + 1 update закрытия
}
