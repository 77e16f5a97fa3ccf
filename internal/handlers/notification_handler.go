package handlers

import (
	"net/http"

	"bloodbridge_backend/internal/repositories"
	"bloodbridge_backend/internal/services"
	"bloodbridge_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
	dispatchService     services.DispatchService
}

func NewNotificationHandler(
	base *BaseHandler,
	notificationService services.NotificationService,
	dispatchService services.DispatchService,
) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
		dispatchService:     dispatchService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/users/:userId/notifications")
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:notificationId/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.DELETE("/:notificationId", h.DeleteNotification)
	}

	internal := r.Group("/internal")
	{
		internal.POST("/test-notification", h.SendTestNotification)
	}
}

// --- User notification handlers ---

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID := c.Param("userId")
	page, pageSize := ParsePagination(c)

	criteria := repositories.NotificationCriteria{
		UnreadOnly: c.Query("unread") == "true",
		Type:       c.Query("type"),
		Page:       page,
		PageSize:   pageSize,
	}

	response, err := h.notificationService.ListUserNotifications(c.Request.Context(), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.Param("userId")

	response, err := h.notificationService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID := c.Param("userId")
	notificationID := c.Param("notificationId")

	if err := h.notificationService.MarkAsRead(c.Request.Context(), userID, notificationID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := c.Param("userId")

	updated, err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID := c.Param("userId")
	notificationID := c.Param("notificationId")

	if err := h.notificationService.DeleteNotification(c.Request.Context(), userID, notificationID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// --- Internal handlers ---

// SendTestNotification шлет тестовое уведомление одному пользователю.
// Используется для проверки сквозной доставки на стенде.
func (h *NotificationHandler) SendTestNotification(c *gin.Context) {
	var req dto.TestNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	report, err := h.dispatchService.SendTestNotification(c.Request.Context(), req.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Test notification sent",
		"inAppCreated": report.InAppCreated,
		"tokensSent":   report.TokenReport != nil,
	})
}
