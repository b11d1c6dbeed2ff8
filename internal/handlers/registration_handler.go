package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/services"
	"github.com/campus-events/event-service/internal/utils"
	"github.com/campus-events/event-service/internal/validator"
)

type RegistrationHandler struct {
	BaseHandler
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService, logger utils.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler:         NewBaseHandler(logger),
		registrationService: registrationService,
	}
}

// CreateRegistration registers the caller for an event
// @Summary Register for event
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body validator.RegistrationCreateRequest true "Registration data"
// @Success 201 {object} SuccessResponse{data=models.Registration}
// @Failure 409 {object} ErrorResponse
// @Router /registrations [post]
func (h *RegistrationHandler) CreateRegistration(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.RegistrationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	registration, err := h.registrationService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: registration})
}

// GetRegistration retrieves a registration by ID
// @Summary Get registration
// @Tags registrations
// @Produce json
// @Param id path uint true "Registration ID"
// @Success 200 {object} SuccessResponse{data=models.Registration}
// @Failure 404 {object} ErrorResponse
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) GetRegistration(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	registration, err := h.registrationService.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: registration})
}

// GetMyRegistrations lists the caller's registrations
// @Summary My registrations
// @Tags registrations
// @Produce json
// @Success 200 {object} ListResponse
// @Router /registrations/my [get]
func (h *RegistrationHandler) GetMyRegistrations(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	registrations, total, err := h.registrationService.GetMine(c.Request.Context(), actor, h.registrationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: registrations, Total: total})
}

// GetEventRegistrations lists an event's registrations (organizer only)
// @Summary Event registrations
// @Tags registrations
// @Produce json
// @Param event_id path uint true "Event ID"
// @Success 200 {object} ListResponse
// @Failure 403 {object} ErrorResponse
// @Router /registrations/event/{event_id} [get]
func (h *RegistrationHandler) GetEventRegistrations(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	eventID := h.parseIDParam(c, "event_id")
	if eventID == 0 {
		return
	}

	registrations, total, err := h.registrationService.GetByEvent(c.Request.Context(), actor, eventID, h.registrationFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: registrations, Total: total})
}

// JoinTeam joins an existing team by code
// @Summary Join team
// @Tags registrations
// @Accept json
// @Produce json
// @Param join body validator.TeamJoinRequest true "Team code and event"
// @Success 201 {object} SuccessResponse{data=models.Registration}
// @Failure 409 {object} ErrorResponse
// @Router /registrations/join-team [post]
func (h *RegistrationHandler) JoinTeam(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.TeamJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	registration, err := h.registrationService.JoinTeam(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: registration})
}

// GetTeam returns the team roster for a code
// @Summary Team roster
// @Tags registrations
// @Produce json
// @Param event_id path uint true "Event ID"
// @Param team_code path string true "Team code"
// @Success 200 {object} SuccessResponse{data=services.TeamResponse}
// @Failure 404 {object} ErrorResponse
// @Router /registrations/event/{event_id}/teams/{team_code} [get]
func (h *RegistrationHandler) GetTeam(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	eventID := h.parseIDParam(c, "event_id")
	if eventID == 0 {
		return
	}

	teamCode := c.Param("team_code")
	if teamCode == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid team_code parameter"})
		return
	}

	team, err := h.registrationService.GetTeam(c.Request.Context(), actor, eventID, teamCode)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: team})
}

// CheckIn records attendance for a registration
// @Summary Check in
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path uint true "Registration ID"
// @Param checkin body validator.CheckInRequest true "Check-in data"
// @Success 200 {object} SuccessResponse{data=models.Registration}
// @Failure 409 {object} ErrorResponse
// @Router /registrations/{id}/checkin [post]
func (h *RegistrationHandler) CheckIn(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	registration, err := h.registrationService.CheckIn(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: registration})
}

// RecordSessionAttendance records one session row (organizer only)
// @Summary Record session attendance
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path uint true "Registration ID"
// @Param session body validator.SessionAttendanceRequest true "Session data"
// @Success 200 {object} SuccessResponse{data=models.Registration}
// @Failure 403 {object} ErrorResponse
// @Router /registrations/{id}/sessions [post]
func (h *RegistrationHandler) RecordSessionAttendance(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.SessionAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	registration, err := h.registrationService.RecordSessionAttendance(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: registration})
}

// SubmitFeedback records post-event feedback
// @Summary Submit feedback
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path uint true "Registration ID"
// @Param feedback body validator.FeedbackRequest true "Feedback"
// @Success 200 {object} SuccessResponse{data=models.Registration}
// @Failure 409 {object} ErrorResponse
// @Router /registrations/{id}/feedback [post]
func (h *RegistrationHandler) SubmitFeedback(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	registration, err := h.registrationService.SubmitFeedback(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: registration})
}

// CancelRegistration cancels before the event starts
// @Summary Cancel registration
// @Tags registrations
// @Produce json
// @Param id path uint true "Registration ID"
// @Success 200 {object} SuccessResponse{data=models.Registration}
// @Failure 409 {object} ErrorResponse
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) CancelRegistration(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	registration, err := h.registrationService.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: registration})
}

func (h *RegistrationHandler) registrationFilters(c *gin.Context) repositories.RegistrationFilters {
	limit, offset := parsePagination(c)
	filters := repositories.RegistrationFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if status := c.Query("status"); status != "" {
		s := models.RegistrationStatus(status)
		filters.Status = &s
	}
	if teamCode := c.Query("team_code"); teamCode != "" {
		filters.TeamCode = &teamCode
	}
	if checkedIn := c.Query("checked_in"); checkedIn != "" {
		v := checkedIn == "true"
		filters.CheckedIn = &v
	}
	return filters
}
