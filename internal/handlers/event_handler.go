package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/services"
	"github.com/campus-events/event-service/internal/utils"
	"github.com/campus-events/event-service/internal/validator"
)

type EventHandler struct {
	BaseHandler
	eventService  services.EventService
	exportService services.ExportService
}

func NewEventHandler(eventService services.EventService, exportService services.ExportService, logger utils.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:   NewBaseHandler(logger),
		eventService:  eventService,
		exportService: exportService,
	}
}

// CreateEvent creates a new event in pending status
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Param event body validator.EventCreateRequest true "Event data"
// @Success 201 {object} SuccessResponse{data=models.Event}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.EventCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: event})
}

// GetEvent retrieves an event by ID
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} SuccessResponse{data=models.Event}
// @Failure 404 {object} ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: event})
}

// GetEventWithDetails retrieves an event with organizers and registrations
// @Summary Get event with details
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} SuccessResponse{data=models.Event}
// @Failure 404 {object} ErrorResponse
// @Router /events/{id}/details [get]
func (h *EventHandler) GetEventWithDetails(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	event, err := h.eventService.GetWithDetails(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: event})
}

// ListEvents lists events with filters
// @Summary List events
// @Tags events
// @Produce json
// @Success 200 {object} ListResponse
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	filters := h.eventFilters(c)

	events, total, err := h.eventService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: events, Total: total})
}

// SearchEvents searches events by text query
// @Summary Search events
// @Tags events
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} ListResponse
// @Router /events/search [get]
func (h *EventHandler) SearchEvents(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Query parameter q is required"})
		return
	}

	events, total, err := h.eventService.Search(c.Request.Context(), query, h.eventFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: events, Total: total})
}

// UpdateEvent updates event fields
// @Summary Update event
// @Tags events
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param event body validator.EventUpdateRequest true "Fields to update"
// @Success 200 {object} SuccessResponse{data=models.Event}
// @Failure 403 {object} ErrorResponse
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.EventUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: event})
}

// SubmitEvent resubmits a draft or rejected event for review
// @Summary Submit event for review
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} SuccessResponse
// @Failure 409 {object} ErrorResponse
// @Router /events/{id}/submit [post]
func (h *EventHandler) SubmitEvent(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.eventService.Submit(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Event submitted for review"})
}

// ReviewEvent approves or rejects a pending event (admin only)
// @Summary Review event
// @Tags events
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param decision body validator.EventReviewRequest true "Review decision"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /events/{id}/review [post]
func (h *EventHandler) ReviewEvent(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.EventReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.eventService.Review(c.Request.Context(), actor, id, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Event reviewed"})
}

// CancelEvent cancels an event
// @Summary Cancel event
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} SuccessResponse
// @Router /events/{id} [delete]
func (h *EventHandler) CancelEvent(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.eventService.Cancel(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Event cancelled"})
}

// CompleteEvent marks an event as completed
// @Summary Complete event
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} SuccessResponse
// @Router /events/{id}/complete [post]
func (h *EventHandler) CompleteEvent(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.eventService.Complete(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Event completed"})
}

// AddCoOrganizer grants co-organizer access
// @Summary Add co-organizer
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Param user_id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Router /events/{id}/organizers/{user_id} [post]
func (h *EventHandler) AddCoOrganizer(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid user_id parameter"})
		return
	}

	if err := h.eventService.AddCoOrganizer(c.Request.Context(), actor, id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Co-organizer added"})
}

// GetEventStats returns aggregate statistics for an event
// @Summary Event statistics
// @Tags events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} SuccessResponse{data=repositories.EventStats}
// @Failure 403 {object} ErrorResponse
// @Router /events/{id}/stats [get]
func (h *EventHandler) GetEventStats(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	stats, err := h.eventService.GetStats(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: stats})
}

// GetOrganizerStats returns cross-event statistics for an organizer
// @Summary Organizer statistics
// @Tags events
// @Produce json
// @Param organizer_id path string true "Organizer ID"
// @Success 200 {object} SuccessResponse{data=repositories.OrganizerStats}
// @Router /events/organizer/{organizer_id}/stats [get]
func (h *EventHandler) GetOrganizerStats(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	organizerID := c.Param("organizer_id")
	stats, err := h.eventService.GetOrganizerStats(c.Request.Context(), actor, organizerID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: stats})
}

// ExportRegistrations downloads the registration list as a spreadsheet
// @Summary Export registrations
// @Tags events
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Event ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Router /events/{id}/registrations/export [get]
func (h *EventHandler) ExportRegistrations(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	data, filename, err := h.exportService.ExportRegistrations(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *EventHandler) eventFilters(c *gin.Context) repositories.EventFilters {
	limit, offset := parsePagination(c)
	filters := repositories.EventFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		s := models.EventStatus(status)
		filters.Status = &s
	}
	if category := c.Query("category"); category != "" {
		cat := models.EventCategory(category)
		filters.Category = &cat
	}
	if department := c.Query("department"); department != "" {
		filters.Department = &department
	}
	if organizerID := c.Query("organizer_id"); organizerID != "" {
		filters.OrganizerID = &organizerID
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.DateTo = &t
		}
	}
	return filters
}
