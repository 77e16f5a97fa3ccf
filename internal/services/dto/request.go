package dto

import (
	"time"

	"bloodbridge_backend/internal/models"
)

// ---------------- Requests ----------------

type CreateRequestRequest struct {
	BloodGroup   string    `json:"bloodGroup" validate:"required,bloodgroup"`
	Urgency      string    `json:"urgency" validate:"omitempty,oneof=normal urgent"`
	Location     string    `json:"location" validate:"omitempty,max=200"`
	Hospital     string    `json:"hospital" validate:"omitempty,max=200"`
	RequesterID  string    `json:"requesterId" validate:"required"`
	PatientName  string    `json:"patientName" validate:"omitempty,max=100"`
	RequiredDate time.Time `json:"requiredDate" validate:"required"`
}

type AcceptRequestRequest struct {
	DonorID string `json:"donorId" validate:"required"`
}

type CompleteRequestRequest struct {
	DonorID string `json:"donorId" validate:"required"`
}

type CancelRequestRequest struct {
	RequesterID string `json:"requesterId" validate:"required"`
}

type UpdateFCMTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type TestNotificationRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// ---------------- Responses ----------------

type RequestResponse struct {
	ID           string    `json:"id"`
	BloodGroup   string    `json:"bloodGroup"`
	Urgency      string    `json:"urgency"`
	Location     string    `json:"location"`
	Hospital     string    `json:"hospital"`
	RequesterID  string    `json:"requesterId"`
	PatientName  string    `json:"patientName"`
	Status       string    `json:"status"`
	RequiredDate time.Time `json:"requiredDate"`
	Responders   []string  `json:"responders"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RequestListResponse struct {
	Requests []*RequestResponse `json:"requests"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

func NewRequestResponse(request *models.Request) *RequestResponse {
	return &RequestResponse{
		ID:           request.ID,
		BloodGroup:   request.BloodGroup,
		Urgency:      string(request.Urgency),
		Location:     request.Location,
		Hospital:     request.Hospital,
		RequesterID:  request.RequesterID,
		PatientName:  request.PatientName,
		Status:       string(request.Status),
		RequiredDate: request.RequiredDate,
		Responders:   request.Responders,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
	}
}
