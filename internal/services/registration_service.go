package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/events"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/qr"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/validator"
)

type registrationService struct {
	repo        repositories.Repository
	db          *gorm.DB
	logger      *slog.Logger
	validator   *validator.Validator
	auth        *authorizer
	publisher   events.EventPublisher
	frontendURL string
	clock       Clock
}

func NewRegistrationService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, frontendURL string) RegistrationService {
	return &registrationService{
		repo:        repo,
		db:          db,
		logger:      logger,
		validator:   v,
		auth:        newAuthorizer(repo, db),
		publisher:   publisher,
		frontendURL: frontendURL,
		clock:       systemClock{},
	}
}

// ===== CREATE =====

func (s *registrationService) Create(ctx context.Context, actor Actor, req *validator.RegistrationCreateRequest) (*models.Registration, error) {
	s.logger.Info("Creating registration",
		"event_id", req.EventID,
		"user_id", actor.UserID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	event, err := s.loadEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if event.Status != models.EventApproved {
		return nil, ErrEventNotApproved
	}
	if now.After(event.RegistrationDeadline) {
		return nil, ErrRegistrationClosed
	}

	// One row per (user, event) in any status, cancelled included.
	if _, err := s.repo.Registration().GetByUserAndEvent(ctx, s.db, actor.UserID, event.ID); err == nil {
		return nil, ErrRegistrationExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	paymentStatus := models.PaymentNotRequired
	if event.RegistrationFee > 0 {
		paymentStatus = models.PaymentPending
	}

	registration := &models.Registration{
		EventID:             event.ID,
		UserID:              actor.UserID,
		Status:              models.RegistrationConfirmed,
		PaymentStatus:       paymentStatus,
		SpecialRequirements: req.SpecialRequirements,
	}

	if req.Responses != nil {
		raw, err := json.Marshal(req.Responses)
		if err != nil {
			return nil, fmt.Errorf("failed to encode responses: %w", err)
		}
		registration.Responses = datatypes.JSON(raw)
	}

	if event.IsTeamEvent && req.TeamName != "" {
		registration.TeamName = req.TeamName
		registration.TeamCode = generateTeamCode(now)
		registration.IsTeamLead = true
		registration.MaxMembers = event.TeamSizeMax
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Capacity check and counter increment are one guarded UPDATE; the
		// reservation holds or the whole transaction rolls back.
		reserved, err := txRepo.Event().ReserveSeat(ctx, nil, event.ID)
		if err != nil {
			return fmt.Errorf("failed to reserve seat: %w", err)
		}
		if !reserved {
			return ErrEventFull
		}

		if err := txRepo.Registration().Create(ctx, nil, registration); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrRegistrationExists
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}

		if err := txRepo.User().AddPoints(ctx, nil, actor.UserID, PointsRegistration); err != nil {
			return fmt.Errorf("failed to award registration points: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort side effects after commit
	s.attachCheckInToken(ctx, registration)
	s.publishRegistrationEvent(ctx, events.TypeRegistrationCreated, registration)
	s.notifyUser(ctx, actor.UserID, models.NotificationRegistrationConfirmed,
		"Registration confirmed",
		fmt.Sprintf("You are registered for %q.", event.Title),
		registration)

	s.logger.Info("Registration created",
		"registration_id", registration.ID,
		"event_id", event.ID,
		"team_code", registration.TeamCode)

	return registration, nil
}

// ===== TEAM OPERATIONS =====

func (s *registrationService) JoinTeam(ctx context.Context, actor Actor, req *validator.TeamJoinRequest) (*models.Registration, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	event, err := s.loadEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsTeamEvent {
		return nil, ErrNotTeamEvent
	}
	if event.Status != models.EventApproved {
		return nil, ErrEventNotApproved
	}
	if s.clock.Now().After(event.RegistrationDeadline) {
		return nil, ErrRegistrationClosed
	}

	lead, err := s.repo.Registration().GetTeamLead(ctx, s.db, event.ID, req.TeamCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team lead: %w", err)
	}

	if _, err := s.repo.Registration().GetByUserAndEvent(ctx, s.db, actor.UserID, event.ID); err == nil {
		return nil, ErrRegistrationExists
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}

	paymentStatus := models.PaymentNotRequired
	if event.RegistrationFee > 0 {
		paymentStatus = models.PaymentPending
	}

	registration := &models.Registration{
		EventID:       event.ID,
		UserID:        actor.UserID,
		Status:        models.RegistrationConfirmed,
		PaymentStatus: paymentStatus,
		TeamName:      lead.TeamName,
		TeamCode:      lead.TeamCode,
		IsTeamLead:    false,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		// Re-count inside the transaction so two concurrent joins for the
		// last slot cannot both pass.
		size, err := txRepo.Registration().CountByTeamCode(ctx, nil, event.ID, req.TeamCode)
		if err != nil {
			return fmt.Errorf("failed to count team members: %w", err)
		}
		if size >= lead.MaxMembers {
			return ErrTeamFull
		}

		reserved, err := txRepo.Event().ReserveSeat(ctx, nil, event.ID)
		if err != nil {
			return fmt.Errorf("failed to reserve seat: %w", err)
		}
		if !reserved {
			return ErrEventFull
		}

		if err := txRepo.Registration().Create(ctx, nil, registration); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrRegistrationExists
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}

		if err := txRepo.User().AddPoints(ctx, nil, actor.UserID, PointsRegistration); err != nil {
			return fmt.Errorf("failed to award registration points: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.attachCheckInToken(ctx, registration)
	s.publishRegistrationEvent(ctx, events.TypeTeamMemberJoined, registration)
	s.notifyUser(ctx, lead.UserID, models.NotificationRegistrationConfirmed,
		"New team member",
		fmt.Sprintf("A new member joined your team %q.", lead.TeamName),
		registration)

	return registration, nil
}

func (s *registrationService) GetTeam(ctx context.Context, actor Actor, eventID uint, teamCode string) (*TeamResponse, error) {
	roster, err := s.repo.Registration().GetTeamRoster(ctx, s.db, eventID, teamCode)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	resp := &TeamResponse{
		TeamName:   roster.Lead.TeamName,
		TeamCode:   roster.Lead.TeamCode,
		MaxMembers: roster.Lead.MaxMembers,
		Size:       roster.Size(),
		Lead:       roster.Lead,
		Members:    roster.Members,
	}

	// Join QR is a convenience for the lead; skip it for other viewers
	if actor.UserID == roster.Lead.UserID {
		joinQR, err := qr.EncodeURL(qr.TeamJoinURL(s.frontendURL, teamCode))
		if err != nil {
			s.logger.Error("Failed to encode team join qr", "error", err, "team_code", teamCode)
		} else {
			resp.JoinQR = joinQR
		}
	}

	return resp, nil
}

// ===== CHECK-IN =====

func (s *registrationService) CheckIn(ctx context.Context, actor Actor, registrationID uint, req *validator.CheckInRequest) (*models.Registration, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.auth.Allow(ctx, actor, "registration", registrationID, ActionCheckIn); err != nil {
		return nil, err
	}

	registration, err := s.loadRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	if registration.CheckedIn {
		return nil, ErrAlreadyCheckedIn
	}
	if registration.Status == models.RegistrationCancelled {
		return nil, ErrRegistrationCancelled
	}
	if registration.Status == models.RegistrationCompleted {
		return nil, ErrRegistrationNotActive
	}

	method := req.Method
	if method == "" {
		method = models.CheckInManual
	}
	if registration.UserID == actor.UserID && method == models.CheckInManual {
		method = models.CheckInSelf
	}

	if method == models.CheckInQRCode {
		result := qr.ValidateCheckIn(req.QRData, registration.EventID, registration.ID, s.clock.Now())
		if !result.Valid {
			return nil, fmt.Errorf("%w: %s", ErrQRRejected, result.Reason)
		}
	}

	now := s.clock.Now()
	registration.CheckedIn = true
	registration.CheckedInAt = &now
	registration.CheckInMethodAt = method
	registration.CheckInLocation = req.Location
	registration.CheckedInBy = actor.UserID
	registration.Status = models.RegistrationCheckedIn

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Registration().Update(ctx, nil, registration); err != nil {
			return fmt.Errorf("failed to update registration: %w", err)
		}
		if err := txRepo.User().AddPoints(ctx, nil, registration.UserID, PointsCheckIn); err != nil {
			return fmt.Errorf("failed to award check-in points: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishRegistrationEvent(ctx, events.TypeRegistrationCheckedIn, registration)
	s.notifyUser(ctx, registration.UserID, models.NotificationCheckedIn,
		"Checked in",
		"Your event check-in was recorded. Enjoy the event!",
		registration)

	s.logger.Info("Registration checked in",
		"registration_id", registration.ID,
		"method", method,
		"actor", actor.UserID)

	return registration, nil
}

// ===== SESSION ATTENDANCE =====

func (s *registrationService) RecordSessionAttendance(ctx context.Context, actor Actor, registrationID uint, req *validator.SessionAttendanceRequest) (*models.Registration, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	registration, err := s.loadRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	// Session rows are recorded by organizers, never by the attendee
	if err := s.auth.Allow(ctx, actor, "event", registration.EventID, ActionCheckIn); err != nil {
		return nil, err
	}
	if registration.Status == models.RegistrationCancelled {
		return nil, ErrRegistrationCancelled
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		session := &models.SessionAttendance{
			RegistrationID: registration.ID,
			SessionName:    req.SessionName,
			Attended:       req.Attended,
			RecordedAt:     s.clock.Now(),
			RecordedBy:     actor.UserID,
		}
		if err := txRepo.Registration().UpsertSession(ctx, nil, session); err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}

		sessions, err := txRepo.Registration().ListSessions(ctx, nil, registration.ID)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		recomputeAttendance(registration, sessions)

		return txRepo.Registration().Update(ctx, nil, registration)
	})
	if err != nil {
		return nil, err
	}

	return registration, nil
}

// ===== FEEDBACK =====

func (s *registrationService) SubmitFeedback(ctx context.Context, actor Actor, registrationID uint, req *validator.FeedbackRequest) (*models.Registration, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	registration, err := s.loadRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	// Feedback is owner-only; organizers cannot submit for attendees
	if registration.UserID != actor.UserID {
		return nil, NewPermissionError(actor.UserID, registrationID, "registration", "feedback", "not registration owner")
	}
	if registration.Status == models.RegistrationCancelled {
		return nil, ErrRegistrationCancelled
	}

	event, err := s.loadEvent(ctx, registration.EventID)
	if err != nil {
		return nil, err
	}
	if s.clock.Now().Before(event.EndDate) {
		return nil, ErrFeedbackTooEarly
	}
	if registration.FeedbackSubmittedAt != nil {
		return nil, ErrFeedbackAlreadySubmitted
	}

	feedback := models.RegistrationFeedback{
		Rating:          req.Rating,
		Comments:        req.Comments,
		Recommendations: req.Recommendations,
		WouldRecommend:  req.WouldRecommend,
	}
	raw, err := json.Marshal(feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feedback: %w", err)
	}

	now := s.clock.Now()
	registration.Feedback = datatypes.JSON(raw)
	registration.FeedbackSubmittedAt = &now

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Registration().Update(ctx, nil, registration); err != nil {
			return fmt.Errorf("failed to store feedback: %w", err)
		}
		if err := txRepo.User().AddPoints(ctx, nil, actor.UserID, PointsFeedback); err != nil {
			return fmt.Errorf("failed to award feedback points: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishRegistrationEvent(ctx, events.TypeFeedbackSubmitted, registration)

	return registration, nil
}

// ===== CANCELLATION =====

func (s *registrationService) Cancel(ctx context.Context, actor Actor, registrationID uint) (*models.Registration, error) {
	registration, err := s.loadRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	if registration.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, NewPermissionError(actor.UserID, registrationID, "registration", "cancel", "not owner")
	}
	if registration.Status == models.RegistrationCancelled {
		return nil, ErrRegistrationCancelled
	}
	if registration.Status == models.RegistrationCompleted {
		return nil, ErrRegistrationNotActive
	}

	event, err := s.loadEvent(ctx, registration.EventID)
	if err != nil {
		return nil, err
	}
	if s.clock.Now().After(event.StartDate) {
		return nil, ErrCancellationClosed
	}

	now := s.clock.Now()
	countedSeat := registration.CountsTowardCapacity()
	registration.Status = models.RegistrationCancelled
	registration.CancelledAt = &now

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Registration().Update(ctx, nil, registration); err != nil {
			return fmt.Errorf("failed to cancel registration: %w", err)
		}
		if countedSeat {
			if err := txRepo.Event().ReleaseSeat(ctx, nil, event.ID); err != nil {
				return fmt.Errorf("failed to release seat: %w", err)
			}
		}
		// Points already awarded stay; cancellation is not a reversal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishRegistrationEvent(ctx, events.TypeRegistrationCancelled, registration)

	s.logger.Info("Registration cancelled",
		"registration_id", registration.ID,
		"actor", actor.UserID)

	return registration, nil
}

// ===== READS =====

func (s *registrationService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Registration, error) {
	if err := s.auth.Allow(ctx, actor, "registration", id, ActionRead); err != nil {
		return nil, err
	}

	registration, err := s.repo.Registration().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	return registration, nil
}

func (s *registrationService) GetMine(ctx context.Context, actor Actor, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	return s.repo.Registration().GetByUser(ctx, s.db, actor.UserID, filters)
}

func (s *registrationService) GetByEvent(ctx context.Context, actor Actor, eventID uint, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	if err := s.auth.Allow(ctx, actor, "event", eventID, ActionExport); err != nil {
		return nil, 0, err
	}
	return s.repo.Registration().GetByEvent(ctx, s.db, eventID, filters)
}

// ===== SIDE EFFECTS =====

// publishRegistrationEvent is best-effort; failures are logged only.
func (s *registrationService) publishRegistrationEvent(ctx context.Context, eventType string, registration *models.Registration) {
	if s.publisher == nil {
		return
	}
	payload := events.RegistrationEvent{
		RegistrationID: registration.ID,
		EventID:        registration.EventID,
		UserID:         registration.UserID,
		Status:         string(registration.Status),
		TeamCode:       registration.TeamCode,
	}
	if err := s.publisher.Publish(ctx, events.TopicRegistrations, events.NewEvent(eventType, payload)); err != nil {
		s.logger.Error("Failed to publish registration event",
			"error", err,
			"registration_id", registration.ID,
			"event_type", eventType)
	}
}

// notifyUser is best-effort; failures are logged only.
func (s *registrationService) notifyUser(ctx context.Context, userID string, notifType models.NotificationType, title, message string, registration *models.Registration) {
	notification := &models.Notification{
		UserID:         userID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		Priority:       models.PriorityNormal,
		EventID:        &registration.EventID,
		RegistrationID: &registration.ID,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Notification().Create(ctx, s.db, notification); err != nil {
		s.logger.Error("Failed to create notification",
			"error", err,
			"user_id", userID,
			"registration_id", registration.ID)
	}
}
