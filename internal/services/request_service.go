package services

import (
	"context"
	"errors"

	"bloodbridge_backend/internal/logger"
	"bloodbridge_backend/internal/models"
	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/internal/services/dto"
	"bloodbridge_backend/pkg/apperrors"
)

// RequestService реализует машину состояний заявки на кровь:
// open -> accepted -> completed, с отменой из open/accepted.
// Сервис только пишет состояние; всю рассылку запускает DispatchService,
// когда изменение проходит через фид.
type RequestService interface {
	CreateRequest(ctx context.Context, req *dto.CreateRequestRequest) (*dto.RequestResponse, error)
	GetRequest(ctx context.Context, id string) (*dto.RequestResponse, error)
	ListOpenRequests(ctx context.Context, page, pageSize int) (*dto.RequestListResponse, error)
	AcceptRequest(ctx context.Context, requestID, donorID string) (*dto.RequestResponse, error)
	CompleteRequest(ctx context.Context, requestID, donorID string) (*dto.RequestResponse, error)
	CancelRequest(ctx context.Context, requestID, requesterID string) (*dto.RequestResponse, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
}

type requestService struct {
	requestRepo repositories.RequestRepository
	userRepo    repositories.UserRepository
}

func NewRequestService(requestRepo repositories.RequestRepository, userRepo repositories.UserRepository) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, req *dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if _, err := s.userRepo.FindByID(req.RequesterID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(req.RequesterID)
		}
		return nil, apperrors.NewInternalError("failed to load requester", err)
	}

	urgency := models.RequestUrgency(req.Urgency)
	if urgency != models.UrgencyUrgent {
		urgency = models.UrgencyNormal
	}

	request := &models.Request{
		BloodGroup:   req.BloodGroup,
		Urgency:      urgency,
		Location:     req.Location,
		Hospital:     req.Hospital,
		RequesterID:  req.RequesterID,
		PatientName:  req.PatientName,
		Status:       models.RequestStatusOpen,
		RequiredDate: req.RequiredDate,
	}

	if err := s.requestRepo.Create(request); err != nil {
		logger.CtxWithError(ctx, "failed to create request", err, "requester_id", req.RequesterID)
		return nil, apperrors.NewInternalError("failed to create request", err)
	}

	logger.CtxInfo(ctx, "blood request created",
		"request_id", request.ID,
		"blood_group", request.BloodGroup,
		"urgency", string(request.Urgency))

	return dto.NewRequestResponse(request), nil
}

func (s *requestService) GetRequest(ctx context.Context, id string) (*dto.RequestResponse, error) {
	request, err := s.findRequest(id)
	if err != nil {
		return nil, err
	}
	return dto.NewRequestResponse(request), nil
}

func (s *requestService) ListOpenRequests(ctx context.Context, page, pageSize int) (*dto.RequestListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	requests, total, err := s.requestRepo.FindOpen(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list open requests", err)
	}

	items := make([]*dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewRequestResponse(&requests[i]))
	}

	return &dto.RequestListResponse{
		Requests: items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// AcceptRequest переводит открытую заявку в accepted и записывает донора
// в конец списка откликов.
func (s *requestService) AcceptRequest(ctx context.Context, requestID, donorID string) (*dto.RequestResponse, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsOpen() {
		return nil, apperrors.ErrRequestNotOpen
	}
	if _, err := s.userRepo.FindByID(donorID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(donorID)
		}
		return nil, apperrors.NewInternalError("failed to load donor", err)
	}

	request.Status = models.RequestStatusAccepted
	request.Responders = append(request.Responders, donorID)

	if err := s.requestRepo.Update(request); err != nil {
		logger.CtxWithError(ctx, "failed to accept request", err, "request_id", requestID)
		return nil, apperrors.NewInternalError("failed to accept request", err)
	}

	logger.CtxInfo(ctx, "request accepted", "request_id", requestID, "donor_id", donorID)
	return dto.NewRequestResponse(request), nil
}

// CompleteRequest завершает принятую заявку. Завершить может только
// последний откликнувшийся донор.
func (s *requestService) CompleteRequest(ctx context.Context, requestID, donorID string) (*dto.RequestResponse, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusAccepted {
		return nil, apperrors.ErrRequestNotAccepted
	}
	if request.LastResponder() != donorID {
		return nil, apperrors.ErrNotResponder
	}

	request.Status = models.RequestStatusCompleted

	if err := s.requestRepo.Update(request); err != nil {
		logger.CtxWithError(ctx, "failed to complete request", err, "request_id", requestID)
		return nil, apperrors.NewInternalError("failed to complete request", err)
	}

	logger.CtxInfo(ctx, "donation completed", "request_id", requestID, "donor_id", donorID)
	return dto.NewRequestResponse(request), nil
}

// CancelRequest отменяет заявку. Право на отмену имеет только автор;
// отмена возможна из open и accepted.
func (s *requestService) CancelRequest(ctx context.Context, requestID, requesterID string) (*dto.RequestResponse, error) {
	request, err := s.findRequest(requestID)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != requesterID {
		return nil, apperrors.ErrNotRequester
	}
	if request.Status.IsTerminal() {
		return nil, apperrors.NewInvalidTransitionError(string(request.Status), string(models.RequestStatusCancelled))
	}

	request.Status = models.RequestStatusCancelled

	if err := s.requestRepo.Update(request); err != nil {
		logger.CtxWithError(ctx, "failed to cancel request", err, "request_id", requestID)
		return nil, apperrors.NewInternalError("failed to cancel request", err)
	}

	logger.CtxInfo(ctx, "request cancelled", "request_id", requestID)
	return dto.NewRequestResponse(request), nil
}

func (s *requestService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if err := s.userRepo.UpdateFCMToken(userID, token); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewUserNotFoundError(userID)
		}
		return apperrors.NewInternalError("failed to update device token", err)
	}
	logger.CtxInfo(ctx, "device token updated", "user_id", userID)
	return nil
}

func (s *requestService) findRequest(id string) (*models.Request, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.NewRequestNotFoundError(id)
		}
		return nil, apperrors.NewInternalError("failed to load request", err)
	}
	return request, nil
}
