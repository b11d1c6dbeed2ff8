package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/validator"
)

type forumService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewForumService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) ForumService {
	return &forumService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

// ===== POSTS =====

func (s *forumService) CreatePost(ctx context.Context, actor Actor, req *validator.ForumPostCreateRequest) (*models.ForumPost, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = models.ForumGeneral
	}
	// Announcements come from organizers and admins only
	if category == models.ForumAnnouncement && actor.Role == models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, nil, "forum_post", "create", "announcements require organizer role")
	}

	if req.EventID != nil {
		if _, err := s.repo.Event().GetByID(ctx, s.db, *req.EventID); err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrEventNotFound
			}
			return nil, fmt.Errorf("failed to load event: %w", err)
		}
	}

	post := &models.ForumPost{
		AuthorID: actor.UserID,
		EventID:  req.EventID,
		Category: category,
		Title:    req.Title,
		Content:  req.Content,
	}

	if err := s.repo.Forum().CreatePost(ctx, s.db, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (s *forumService) GetPost(ctx context.Context, id uint) (*models.ForumPost, error) {
	post, err := s.repo.Forum().GetPostWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return post, nil
}

func (s *forumService) ListPosts(ctx context.Context, filters repositories.ForumFilters) ([]*models.ForumPost, int64, error) {
	return s.repo.Forum().ListPosts(ctx, s.db, filters)
}

func (s *forumService) DeletePost(ctx context.Context, actor Actor, id uint) error {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.UserID && !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, id, "forum_post", "delete", "not post author")
	}
	return s.repo.Forum().DeletePost(ctx, s.db, id)
}

// ===== REPLIES AND LIKES =====

func (s *forumService) Reply(ctx context.Context, actor Actor, postID uint, req *validator.ForumReplyCreateRequest) (*models.ForumReply, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.loadPost(ctx, postID); err != nil {
		return nil, err
	}

	reply := &models.ForumReply{
		PostID:   postID,
		AuthorID: actor.UserID,
		Content:  req.Content,
	}

	if err := s.repo.Forum().CreateReply(ctx, s.db, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	return reply, nil
}

func (s *forumService) ToggleLike(ctx context.Context, actor Actor, postID uint) (bool, error) {
	if _, err := s.loadPost(ctx, postID); err != nil {
		return false, err
	}
	liked, err := s.repo.Forum().ToggleLike(ctx, s.db, postID, actor.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, nil
}

// ===== TEAM APPLICATIONS =====

func (s *forumService) Apply(ctx context.Context, actor Actor, postID uint, req *validator.TeamApplicationRequest) (*models.TeamApplication, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	post, err := s.loadPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Category != models.ForumTeamFormation {
		return nil, fmt.Errorf("%w: post is not a team-formation post", ErrPostNotFound)
	}
	if post.AuthorID == actor.UserID {
		return nil, NewPermissionError(actor.UserID, postID, "team_application", "create", "cannot apply to own post")
	}

	application := &models.TeamApplication{
		PostID:      postID,
		ApplicantID: actor.UserID,
		Message:     req.Message,
		Status:      models.ApplicationPending,
	}

	if err := s.repo.Forum().CreateApplication(ctx, s.db, application); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.notifyAuthor(ctx, post, actor.UserID)

	return application, nil
}

func (s *forumService) Decide(ctx context.Context, actor Actor, applicationID uint, req *validator.TeamApplicationDecisionRequest) (*models.TeamApplication, error) {
	application, err := s.repo.Forum().GetApplicationByID(ctx, s.db, applicationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	post, err := s.loadPost(ctx, application.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.UserID && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, applicationID, "team_application", "decide", "not post author")
	}

	if req.Accept {
		application.Status = models.ApplicationAccepted
	} else {
		application.Status = models.ApplicationRejected
	}

	if err := s.repo.Forum().UpdateApplication(ctx, s.db, application); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	return application, nil
}

// ===== HELPERS =====

func (s *forumService) loadPost(ctx context.Context, id uint) (*models.ForumPost, error) {
	post, err := s.repo.Forum().GetPostByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return post, nil
}

// notifyAuthor is best-effort; failures are logged only.
func (s *forumService) notifyAuthor(ctx context.Context, post *models.ForumPost, applicantID string) {
	notification := &models.Notification{
		UserID:   post.AuthorID,
		Type:     models.NotificationForumActivity,
		Title:    "New team application",
		Message:  fmt.Sprintf("Someone applied to your team post %q.", post.Title),
		Priority: models.PriorityNormal,
		EventID:  post.EventID,
	}
	if err := s.repo.Notification().Create(ctx, s.db, notification); err != nil {
		s.logger.Error("Failed to create notification",
			"error", err,
			"post_id", post.ID,
			"applicant_id", applicantID)
	}
}
