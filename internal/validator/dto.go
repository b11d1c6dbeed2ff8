package validator

import (
	"time"

	"github.com/campus-events/event-service/internal/models"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	FullName   string `json:"full_name" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Department string `json:"department" validate:"omitempty,max=100"`
	Role       string `json:"role" validate:"omitempty,oneof=student organizer"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserUpdateRequest updates mutable profile fields.
type UserUpdateRequest struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Department *string `json:"department" validate:"omitempty,max=100"`
}

// EventCreateRequest creates an event in pending status.
type EventCreateRequest struct {
	Title                string                 `json:"title" validate:"required,min=1,max=200"`
	Description          string                 `json:"description" validate:"omitempty,max=5000"`
	Department           string                 `json:"department" validate:"omitempty,max=100"`
	Category             models.EventCategory   `json:"category" validate:"required,oneof=workshop seminar competition cultural sports technical"`
	StartDate            time.Time              `json:"start_date" validate:"required"`
	EndDate              time.Time              `json:"end_date" validate:"required"`
	RegistrationDeadline time.Time              `json:"registration_deadline" validate:"required"`
	MaxParticipants      *int                   `json:"max_participants" validate:"omitempty,min=1"`
	IsTeamEvent          bool                   `json:"is_team_event"`
	TeamSizeMin          int                    `json:"team_size_min" validate:"omitempty,min=1"`
	TeamSizeMax          int                    `json:"team_size_max" validate:"omitempty,min=1"`
	RegistrationFee      float64                `json:"registration_fee" validate:"min=0"`
	Visibility           models.EventVisibility `json:"visibility" validate:"omitempty,oneof=public private department-only"`
}

// EventUpdateRequest updates an event; nil fields are untouched.
type EventUpdateRequest struct {
	Title                *string                 `json:"title" validate:"omitempty,min=1,max=200"`
	Description          *string                 `json:"description" validate:"omitempty,max=5000"`
	Department           *string                 `json:"department" validate:"omitempty,max=100"`
	Category             *models.EventCategory   `json:"category" validate:"omitempty,oneof=workshop seminar competition cultural sports technical"`
	StartDate            *time.Time              `json:"start_date"`
	EndDate              *time.Time              `json:"end_date"`
	RegistrationDeadline *time.Time              `json:"registration_deadline"`
	MaxParticipants      *int                    `json:"max_participants" validate:"omitempty,min=1"`
	Visibility           *models.EventVisibility `json:"visibility" validate:"omitempty,oneof=public private department-only"`
}

// EventReviewRequest approves or rejects a pending event.
type EventReviewRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason" validate:"omitempty,max=1000"`
}

// RegistrationCreateRequest registers the caller for an event. Team fields
// apply only when the event is a team event and the caller creates a team.
type RegistrationCreateRequest struct {
	EventID             uint                   `json:"event_id" validate:"required"`
	TeamName            string                 `json:"team_name" validate:"omitempty,min=1,max=100"`
	Responses           map[string]interface{} `json:"responses"`
	SpecialRequirements string                 `json:"special_requirements" validate:"omitempty,max=500"`
}

// TeamJoinRequest joins an existing team by code.
type TeamJoinRequest struct {
	EventID  uint   `json:"event_id" validate:"required"`
	TeamCode string `json:"team_code" validate:"required,min=1,max=30"`
}

// CheckInRequest checks a registration in, by QR payload or manually.
type CheckInRequest struct {
	QRData   string               `json:"qr_data" validate:"omitempty"`
	Method   models.CheckInMethod `json:"method" validate:"omitempty,oneof=qr-code manual self-checkin"`
	Location string               `json:"location" validate:"omitempty,max=200"`
}

// SessionAttendanceRequest records one session for a registration.
type SessionAttendanceRequest struct {
	SessionName string `json:"session_name" validate:"required,min=1,max=200"`
	Attended    bool   `json:"attended"`
}

// FeedbackRequest submits post-event feedback.
type FeedbackRequest struct {
	Rating          int    `json:"rating" validate:"required,min=1,max=5"`
	Comments        string `json:"comments" validate:"omitempty,max=2000"`
	Recommendations string `json:"recommendations" validate:"omitempty,max=2000"`
	WouldRecommend  bool   `json:"would_recommend"`
}

// CertificateGenerateRequest issues one certificate.
type CertificateGenerateRequest struct {
	RegistrationID uint                   `json:"registration_id" validate:"required"`
	Type           models.CertificateType `json:"type" validate:"required,oneof=participation completion appreciation achievement winner"`
	Title          string                 `json:"title" validate:"omitempty,max=200"`
	Position       string                 `json:"position" validate:"omitempty,max=50"`
	Score          *float64               `json:"score" validate:"omitempty,min=0,max=100"`
}

// ForumPostCreateRequest creates a forum post.
type ForumPostCreateRequest struct {
	Title    string               `json:"title" validate:"required,min=1,max=200"`
	Content  string               `json:"content" validate:"required,max=10000"`
	Category models.ForumCategory `json:"category" validate:"omitempty,oneof=general event-discussion team-formation announcement"`
	EventID  *uint                `json:"event_id"`
}

// ForumReplyCreateRequest replies to a post.
type ForumReplyCreateRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// TeamApplicationRequest applies to a team-formation post.
type TeamApplicationRequest struct {
	Message string `json:"message" validate:"omitempty,max=1000"`
}

// TeamApplicationDecisionRequest accepts or rejects an application.
type TeamApplicationDecisionRequest struct {
	Accept bool `json:"accept"`
}
