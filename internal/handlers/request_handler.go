package handlers

import (
	"net/http"

	"bloodbridge_backend/internal/services"
	"bloodbridge_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService services.RequestService
}

func NewRequestHandler(base *BaseHandler, requestService services.RequestService) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    base,
		requestService: requestService,
	}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/requests")
	{
		requests.POST("", h.CreateRequest)
		requests.GET("", h.ListOpenRequests)
		requests.GET("/:requestId", h.GetRequest)
		requests.POST("/:requestId/accept", h.AcceptRequest)
		requests.POST("/:requestId/complete", h.CompleteRequest)
		requests.POST("/:requestId/cancel", h.CancelRequest)
	}

	users := r.Group("/users")
	{
		users.PUT("/:userId/fcm-token", h.UpdateFCMToken)
	}
}

// --- Request lifecycle handlers ---

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.requestService.CreateRequest(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	requestID := c.Param("requestId")

	response, err := h.requestService.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RequestHandler) ListOpenRequests(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	response, err := h.requestService.ListOpenRequests(c.Request.Context(), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	requestID := c.Param("requestId")

	var req dto.AcceptRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.requestService.AcceptRequest(c.Request.Context(), requestID, req.DonorID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RequestHandler) CompleteRequest(c *gin.Context) {
	requestID := c.Param("requestId")

	var req dto.CompleteRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.requestService.CompleteRequest(c.Request.Context(), requestID, req.DonorID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RequestHandler) CancelRequest(c *gin.Context) {
	requestID := c.Param("requestId")

	var req dto.CancelRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.requestService.CancelRequest(c.Request.Context(), requestID, req.RequesterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// --- Device token handlers ---

func (h *RequestHandler) UpdateFCMToken(c *gin.Context) {
	userID := c.Param("userId")

	var req dto.UpdateFCMTokenRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.requestService.UpdateFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device token updated"})
}
