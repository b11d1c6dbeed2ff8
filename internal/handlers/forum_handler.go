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

type ForumHandler struct {
	BaseHandler
	forumService services.ForumService
}

func NewForumHandler(forumService services.ForumService, logger utils.Logger) *ForumHandler {
	return &ForumHandler{
		BaseHandler:  NewBaseHandler(logger),
		forumService: forumService,
	}
}

// CreatePost creates a forum post
// @Summary Create post
// @Tags forum
// @Accept json
// @Produce json
// @Param post body validator.ForumPostCreateRequest true "Post data"
// @Success 201 {object} SuccessResponse{data=models.ForumPost}
// @Router /forum/posts [post]
func (h *ForumHandler) CreatePost(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	var req validator.ForumPostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	post, err := h.forumService.CreatePost(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: post})
}

// GetPost retrieves a post with replies
// @Summary Get post
// @Tags forum
// @Produce json
// @Param id path uint true "Post ID"
// @Success 200 {object} SuccessResponse{data=models.ForumPost}
// @Failure 404 {object} ErrorResponse
// @Router /forum/posts/{id} [get]
func (h *ForumHandler) GetPost(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	post, err := h.forumService.GetPost(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: post})
}

// ListPosts lists forum posts with filters
// @Summary List posts
// @Tags forum
// @Produce json
// @Success 200 {object} ListResponse
// @Router /forum/posts [get]
func (h *ForumHandler) ListPosts(c *gin.Context) {
	limit, offset := parsePagination(c)
	filters := repositories.ForumFilters{
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if category := c.Query("category"); category != "" {
		cat := models.ForumCategory(category)
		filters.Category = &cat
	}
	if authorID := c.Query("author_id"); authorID != "" {
		filters.AuthorID = &authorID
	}

	posts, total, err := h.forumService.ListPosts(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Success: true, Data: posts, Total: total})
}

// DeletePost removes a post (author or admin)
// @Summary Delete post
// @Tags forum
// @Produce json
// @Param id path uint true "Post ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /forum/posts/{id} [delete]
func (h *ForumHandler) DeletePost(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.forumService.DeletePost(c.Request.Context(), actor, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Post deleted"})
}

// CreateReply replies to a post
// @Summary Reply to post
// @Tags forum
// @Accept json
// @Produce json
// @Param id path uint true "Post ID"
// @Param reply body validator.ForumReplyCreateRequest true "Reply data"
// @Success 201 {object} SuccessResponse{data=models.ForumReply}
// @Router /forum/posts/{id}/replies [post]
func (h *ForumHandler) CreateReply(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.ForumReplyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	reply, err := h.forumService.Reply(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: reply})
}

// ToggleLike likes or unlikes a post
// @Summary Toggle like
// @Tags forum
// @Produce json
// @Param id path uint true "Post ID"
// @Success 200 {object} SuccessResponse
// @Router /forum/posts/{id}/like [post]
func (h *ForumHandler) ToggleLike(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	liked, err := h.forumService.ToggleLike(c.Request.Context(), actor, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: gin.H{"liked": liked}})
}

// ApplyToTeam applies to a team-formation post
// @Summary Apply to team
// @Tags forum
// @Accept json
// @Produce json
// @Param id path uint true "Post ID"
// @Param application body validator.TeamApplicationRequest true "Application message"
// @Success 201 {object} SuccessResponse{data=models.TeamApplication}
// @Failure 409 {object} ErrorResponse
// @Router /forum/posts/{id}/apply [post]
func (h *ForumHandler) ApplyToTeam(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.TeamApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	application, err := h.forumService.Apply(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Success: true, Data: application})
}

// DecideApplication accepts or rejects a team application (post author only)
// @Summary Decide application
// @Tags forum
// @Accept json
// @Produce json
// @Param id path uint true "Application ID"
// @Param decision body validator.TeamApplicationDecisionRequest true "Decision"
// @Success 200 {object} SuccessResponse{data=models.TeamApplication}
// @Failure 403 {object} ErrorResponse
// @Router /forum/applications/{id}/decide [post]
func (h *ForumHandler) DecideApplication(c *gin.Context) {
	actor, ok := h.currentActor(c)
	if !ok {
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.TeamApplicationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	application, err := h.forumService.Decide(c.Request.Context(), actor, id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Success: true, Data: application})
}
