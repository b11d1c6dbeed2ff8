package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
)

// Action names used in capability checks.
const (
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionCheckIn = "checkin"
	ActionIssue   = "issue"
	ActionReview  = "review"
	ActionRevoke  = "revoke"
	ActionExport  = "export"
)

// Actor is the authenticated principal a capability check runs against.
type Actor struct {
	UserID string
	Role   models.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// authorizer is the single capability-check point. Every ownership and role
// decision goes through Allow, not through per-route checks.
type authorizer struct {
	repo repositories.Repository
	db   *gorm.DB
}

func newAuthorizer(repo repositories.Repository, db *gorm.DB) *authorizer {
	return &authorizer{repo: repo, db: db}
}

// Allow answers (actor, resource, action) -> nil or *PermissionError.
func (a *authorizer) Allow(ctx context.Context, actor Actor, resource string, resourceID interface{}, action string) error {
	if actor.IsAdmin() {
		return nil
	}

	switch resource {
	case "event":
		return a.allowEvent(ctx, actor, resourceID.(uint), action)
	case "registration":
		return a.allowRegistration(ctx, actor, resourceID.(uint), action)
	case "user":
		return a.allowUser(actor, resourceID.(string), action)
	default:
		return NewPermissionError(actor.UserID, resourceID, resource, action, "unknown resource")
	}
}

func (a *authorizer) allowEvent(ctx context.Context, actor Actor, eventID uint, action string) error {
	switch action {
	case ActionRead:
		return nil
	case ActionReview:
		// Only admins review; admins short-circuited above
		return NewPermissionError(actor.UserID, eventID, "event", action, "admin role required")
	case ActionUpdate, ActionDelete, ActionCheckIn, ActionIssue, ActionExport:
		isOrganizer, err := a.repo.Event().IsOrganizer(ctx, a.db, eventID, actor.UserID)
		if err != nil {
			return fmt.Errorf("failed to check event ownership: %w", err)
		}
		if !isOrganizer {
			return NewPermissionError(actor.UserID, eventID, "event", action, "not an organizer of this event")
		}
		return nil
	default:
		return NewPermissionError(actor.UserID, eventID, "event", action, "unknown action")
	}
}

func (a *authorizer) allowRegistration(ctx context.Context, actor Actor, registrationID uint, action string) error {
	registration, err := a.repo.Registration().GetByID(ctx, a.db, registrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to load registration: %w", err)
	}

	switch action {
	case ActionRead, ActionUpdate, ActionDelete:
		if registration.UserID == actor.UserID {
			return nil
		}
		// Organizers can view and manage their event's registrations
		isOrganizer, err := a.repo.Event().IsOrganizer(ctx, a.db, registration.EventID, actor.UserID)
		if err != nil {
			return fmt.Errorf("failed to check event ownership: %w", err)
		}
		if isOrganizer {
			return nil
		}
		return NewPermissionError(actor.UserID, registrationID, "registration", action, "not owner or event organizer")
	case ActionCheckIn:
		// Self-checkin by the attendee, or check-in by organizer/co-organizer
		if registration.UserID == actor.UserID {
			return nil
		}
		isOrganizer, err := a.repo.Event().IsOrganizer(ctx, a.db, registration.EventID, actor.UserID)
		if err != nil {
			return fmt.Errorf("failed to check event ownership: %w", err)
		}
		if !isOrganizer {
			return NewPermissionError(actor.UserID, registrationID, "registration", action, "not attendee or event organizer")
		}
		return nil
	default:
		return NewPermissionError(actor.UserID, registrationID, "registration", action, "unknown action")
	}
}

func (a *authorizer) allowUser(actor Actor, userID string, action string) error {
	if actor.UserID == userID {
		return nil
	}
	return NewPermissionError(actor.UserID, userID, "user", action, "not own account")
}
