package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/services"
	"github.com/campus-events/event-service/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	notificationService services.NotificationEventService
}

func NewNotificationHandler(notificationService services.NotificationEventService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         NewBaseHandler(logger),
		notificationService: notificationService,
	}
}

// GetMyNotifications lists the caller's notifications
// @Summary My notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Unread only"
// @Success 200 {object} ListResponse
// @Router /notifications [get]
func (h *NotificationHandler) GetMyNotifications(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	filters := repositories.NotificationFilters{
		UnreadOnly: c.Query("unread") == "true",
		Limit:      limit,
		Offset:     offset,
	}

	notifications, total, err := h.notificationService.GetForUser(c.Request.Context(), actor, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: notifications, Total: total})
}

// MarkRead marks one notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Param id path uint true "Notification ID"
// @Success 200 {object} SuccessResponse
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Notification marked read"})
}

// MarkAllRead marks every notification as read
// @Summary Mark all notifications read
// @Tags notifications
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "All notifications marked read"})
}

// BroadcastRequest is the admin fan-out payload.
type BroadcastRequest struct {
	UserIDs  []string `json:"user_ids" binding:"required,min=1"`
	Title    string   `json:"title" binding:"required"`
	Message  string   `json:"message" binding:"required"`
	Priority string   `json:"priority"`
}

// Broadcast sends a notification to a list of users (admin only)
// @Summary Broadcast notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param broadcast body BroadcastRequest true "Broadcast data"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /notifications/broadcast [post]
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	if _, ok := h.currentActor(c); !ok {
		return
	}

	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	notif := &services.NotificationRequest{
		Title:   req.Title,
		Message: req.Message,
	}
	if req.Priority != "" {
		notif.Priority = models.NotificationPriority(req.Priority)
	}

	if err := h.notificationService.SendBulkNotification(c.Request.Context(), req.UserIDs, notif); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Notification sent"})
}
