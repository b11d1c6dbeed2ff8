package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/events"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/validator"
)

type eventService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	auth      *authorizer
	publisher events.EventPublisher
	clock     Clock
}

func NewEventService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) EventService {
	return &eventService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		auth:      newAuthorizer(repo, db),
		publisher: publisher,
		clock:     systemClock{},
	}
}

func (s *eventService) Create(ctx context.Context, actor Actor, req *validator.EventCreateRequest) (*models.Event, error) {
	if actor.Role != models.RoleOrganizer && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, nil, "event", "create", "organizer role required")
	}

	if verrs := s.validator.Business.ValidateEventCreate(req, s.clock.Now()); verrs.HasErrors() {
		return nil, verrs
	}

	teamMin, teamMax := req.TeamSizeMin, req.TeamSizeMax
	if !req.IsTeamEvent {
		teamMin, teamMax = 1, 1
	} else if teamMin < 1 {
		teamMin = 1
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	// Admin-created events skip the review queue.
	status := models.EventPending
	if actor.IsAdmin() {
		status = models.EventApproved
	}

	event := &models.Event{
		Title:                req.Title,
		Description:          req.Description,
		Department:           req.Department,
		Category:             req.Category,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		MaxParticipants:      req.MaxParticipants,
		IsTeamEvent:          req.IsTeamEvent,
		TeamSizeMin:          teamMin,
		TeamSizeMax:          teamMax,
		RegistrationFee:      req.RegistrationFee,
		Status:               status,
		Visibility:           visibility,
		OrganizerID:          actor.UserID,
	}

	if err := s.repo.Event().Create(ctx, s.db, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event created",
		"event_id", event.ID,
		"organizer_id", actor.UserID,
		"title", event.Title)

	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.repo.Event().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	event.RegistrationCount = event.CurrentParticipants
	event.IsFull = !event.HasCapacity()
	return event, nil
}

func (s *eventService) GetWithDetails(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.repo.Event().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	event.RegistrationCount = event.CurrentParticipants
	event.IsFull = !event.HasCapacity()
	return event, nil
}

func (s *eventService) List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	return s.repo.Event().List(ctx, s.db, filters)
}

func (s *eventService) Search(ctx context.Context, query string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	return s.repo.Event().Search(ctx, s.db, query, filters)
}

func (s *eventService) Update(ctx context.Context, actor Actor, id uint, req *validator.EventUpdateRequest) (*models.Event, error) {
	if err := s.auth.Allow(ctx, actor, "event", id, ActionUpdate); err != nil {
		return nil, err
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.Status == models.EventCompleted || event.Status == models.EventCancelled {
		return nil, ErrRegistrationNotActive
	}

	if verrs := s.validator.Business.ValidateEventUpdate(req, event); verrs.HasErrors() {
		return nil, verrs
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Department != nil {
		event.Department = *req.Department
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.RegistrationDeadline != nil {
		event.RegistrationDeadline = *req.RegistrationDeadline
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.Visibility != nil {
		event.Visibility = *req.Visibility
	}

	if err := s.repo.Event().Update(ctx, s.db, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return event, nil
}

// Submit moves a draft back into the review queue.
func (s *eventService) Submit(ctx context.Context, actor Actor, id uint) error {
	if err := s.auth.Allow(ctx, actor, "event", id, ActionUpdate); err != nil {
		return err
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if verrs := s.validator.Business.ValidateEventTransition(event.Status, models.EventPending); verrs.HasErrors() {
		return verrs
	}

	return s.repo.Event().UpdateStatus(ctx, s.db, id, models.EventPending)
}

// Review approves or rejects a pending event. Admin only.
func (s *eventService) Review(ctx context.Context, actor Actor, id uint, req *validator.EventReviewRequest) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, id, "event", ActionReview, "admin role required")
	}
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	next := models.EventApproved
	eventType := events.TypeEventApproved
	notifType := models.NotificationEventApproved
	if !req.Approve {
		next = models.EventRejected
		eventType = events.TypeEventRejected
		notifType = models.NotificationEventCancelled
	}

	if verrs := s.validator.Business.ValidateEventTransition(event.Status, next); verrs.HasErrors() {
		return verrs
	}

	if err := s.repo.Event().UpdateStatus(ctx, s.db, id, next); err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	s.logger.Info("Event reviewed",
		"event_id", id,
		"status", next,
		"reviewer", actor.UserID)

	s.publishStatusChange(ctx, eventType, event, string(next), req.Reason)
	s.notifyOrganizer(ctx, event, notifType, next, req.Reason)

	return nil
}

func (s *eventService) Cancel(ctx context.Context, actor Actor, id uint) error {
	if err := s.auth.Allow(ctx, actor, "event", id, ActionDelete); err != nil {
		return err
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if verrs := s.validator.Business.ValidateEventTransition(event.Status, models.EventCancelled); verrs.HasErrors() {
		return verrs
	}

	if err := s.repo.Event().UpdateStatus(ctx, s.db, id, models.EventCancelled); err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	s.publishStatusChange(ctx, events.TypeEventCancelled, event, string(models.EventCancelled), "")
	return nil
}

func (s *eventService) Complete(ctx context.Context, actor Actor, id uint) error {
	if err := s.auth.Allow(ctx, actor, "event", id, ActionUpdate); err != nil {
		return err
	}

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Active is implied once the event starts; allow completing approved
	// events whose window has passed.
	current := event.Status
	if current == models.EventApproved && s.clock.Now().After(event.StartDate) {
		current = models.EventActive
	}

	if verrs := s.validator.Business.ValidateEventTransition(current, models.EventCompleted); verrs.HasErrors() {
		return verrs
	}

	return s.repo.Event().UpdateStatus(ctx, s.db, id, models.EventCompleted)
}

func (s *eventService) AddCoOrganizer(ctx context.Context, actor Actor, eventID uint, userID string) error {
	if err := s.auth.Allow(ctx, actor, "event", eventID, ActionUpdate); err != nil {
		return err
	}

	if _, err := s.repo.User().GetByID(ctx, s.db, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	return s.repo.Event().AddCoOrganizer(ctx, s.db, eventID, userID)
}

func (s *eventService) GetStats(ctx context.Context, actor Actor, id uint) (*repositories.EventStats, error) {
	if err := s.auth.Allow(ctx, actor, "event", id, ActionExport); err != nil {
		return nil, err
	}
	return s.repo.Event().GetStats(ctx, s.db, id)
}

func (s *eventService) GetOrganizerStats(ctx context.Context, actor Actor, organizerID string) (*repositories.OrganizerStats, error) {
	if actor.UserID != organizerID && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, organizerID, "event", "view_stats", "not own statistics")
	}
	return s.repo.Event().GetOrganizerStats(ctx, s.db, organizerID)
}

// publishStatusChange is best-effort; failures are logged, never propagated.
func (s *eventService) publishStatusChange(ctx context.Context, eventType string, event *models.Event, status, reason string) {
	if s.publisher == nil {
		return
	}
	payload := events.EventStatusEvent{
		EventID:     event.ID,
		OrganizerID: event.OrganizerID,
		Status:      status,
		Reason:      reason,
	}
	if err := s.publisher.Publish(ctx, events.TopicEvents, events.NewEvent(eventType, payload)); err != nil {
		s.logger.Error("Failed to publish event status change",
			"error", err,
			"event_id", event.ID,
			"event_type", eventType)
	}
}

// notifyOrganizer is best-effort; failures are logged, never propagated.
func (s *eventService) notifyOrganizer(ctx context.Context, event *models.Event, notifType models.NotificationType, status models.EventStatus, reason string) {
	message := fmt.Sprintf("Your event %q was %s.", event.Title, status)
	if reason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, reason)
	}
	notification := &models.Notification{
		UserID:   event.OrganizerID,
		Type:     notifType,
		Title:    "Event review result",
		Message:  message,
		Priority: models.PriorityHigh,
		EventID:  &event.ID,
	}
	if err := s.repo.Notification().Create(ctx, s.db, notification); err != nil {
		s.logger.Error("Failed to create notification",
			"error", err,
			"event_id", event.ID,
			"user_id", event.OrganizerID)
	}
}
