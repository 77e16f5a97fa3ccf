package services

import (
	"context"
	"testing"
	"time"

	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/internal/services/dto"
	"bloodbridge_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRequestFixture(t *testing.T) (*gorm.DB, RequestService, repositories.RequestRepository) {
	t.Helper()
	db := setupTestDB(t)
	requestRepo := repositories.NewRequestRepository(db, repositories.NewChangeLogRepository(db))
	return db, NewRequestService(requestRepo, repositories.NewUserRepository(db)), requestRepo
}

func TestRequestService_CreateDefaults(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	requester := createTestUser(t, db, "requester", "")

	response, err := svc.CreateRequest(context.Background(), &dto.CreateRequestRequest{
		BloodGroup:   "AB-",
		RequesterID:  requester.ID,
		RequiredDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, string(models.RequestStatusOpen), response.Status)
	assert.Equal(t, string(models.UrgencyNormal), response.Urgency, "незаполненная срочность откатывается к normal")
	assert.NotEmpty(t, response.ID)
}

func TestRequestService_CreateUnknownRequester(t *testing.T) {
	_, svc, _ := newRequestFixture(t)

	_, err := svc.CreateRequest(context.Background(), &dto.CreateRequestRequest{
		BloodGroup:   "A+",
		RequesterID:  "ghost",
		RequiredDate: time.Now().Add(24 * time.Hour),
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestRequestService_AcceptFlow(t *testing.T) {
	db, svc, repo := newRequestFixture(t)
	requester := createTestUser(t, db, "requester", "")
	donor := createTestUser(t, db, "donor", "")

	created, err := svc.CreateRequest(context.Background(), &dto.CreateRequestRequest{
		BloodGroup:   "A+",
		RequesterID:  requester.ID,
		RequiredDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	accepted, err := svc.AcceptRequest(context.Background(), created.ID, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.RequestStatusAccepted), accepted.Status)
	assert.Equal(t, []string{donor.ID}, accepted.Responders)

	// повторное принятие уже принятой заявки запрещено
	_, err = svc.AcceptRequest(context.Background(), created.ID, donor.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotOpen)

	// состояние в хранилище согласовано
	stored, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, donor.ID, stored.LastResponder())
}

func TestRequestService_CompleteRequiresLastResponder(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	requester := createTestUser(t, db, "requester", "")
	donor := createTestUser(t, db, "donor", "")
	stranger := createTestUser(t, db, "stranger", "")

	created, err := svc.CreateRequest(context.Background(), &dto.CreateRequestRequest{
		BloodGroup:   "A+",
		RequesterID:  requester.ID,
		RequiredDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// завершить open-заявку нельзя
	_, err = svc.CompleteRequest(context.Background(), created.ID, donor.ID)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotAccepted)

	_, err = svc.AcceptRequest(context.Background(), created.ID, donor.ID)
	require.NoError(t, err)

	// завершить может только принявший донор
	_, err = svc.CompleteRequest(context.Background(), created.ID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotResponder)

	completed, err := svc.CompleteRequest(context.Background(), created.ID, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.RequestStatusCompleted), completed.Status)
}

func TestRequestService_CancelRules(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	requester := createTestUser(t, db, "requester", "")
	donor := createTestUser(t, db, "donor", "")

	created, err := svc.CreateRequest(context.Background(), &dto.CreateRequestRequest{
		BloodGroup:   "A+",
		RequesterID:  requester.ID,
		RequiredDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// отменить может только автор
	_, err = svc.CancelRequest(context.Background(), created.ID, donor.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotRequester)

	cancelled, err := svc.CancelRequest(context.Background(), created.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.RequestStatusCancelled), cancelled.Status)

	// из терминального статуса отмена невозможна
	_, err = svc.CancelRequest(context.Background(), created.ID, requester.ID)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidStatus, appErr.Code)
}

func TestRequestService_ListOpenRequests(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	requester := createTestUser(t, db, "requester", "")

	for i := 0; i < 3; i++ {
		_, err := svc.CreateRequest(context.Background(), &dto.CreateRequestRequest{
			BloodGroup:   "O+",
			RequesterID:  requester.ID,
			RequiredDate: time.Now().Add(24 * time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := svc.ListOpenRequests(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, list.Total)
	assert.Len(t, list.Requests, 2)
	assert.Equal(t, 1, list.Page)
}

func TestRequestService_UpdateFCMToken(t *testing.T) {
	db, svc, _ := newRequestFixture(t)
	user := createTestUser(t, db, "donor", "")

	require.NoError(t, svc.UpdateFCMToken(context.Background(), user.ID, "new-token"))

	err := svc.UpdateFCMToken(context.Background(), "missing", "token")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
