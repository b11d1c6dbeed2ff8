package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "pending"
	RegistrationConfirmed  RegistrationStatus = "confirmed"
	RegistrationCheckedIn  RegistrationStatus = "checked-in"
	RegistrationCompleted  RegistrationStatus = "completed"
	RegistrationCancelled  RegistrationStatus = "cancelled"
	RegistrationWaitlisted RegistrationStatus = "waitlisted"
)

type PaymentStatus string

const (
	PaymentNotRequired PaymentStatus = "not-required"
	PaymentPending     PaymentStatus = "pending"
	PaymentCompleted   PaymentStatus = "completed"
)

type CheckInMethod string

const (
	CheckInQRCode CheckInMethod = "qr-code"
	CheckInManual CheckInMethod = "manual"
	CheckInSelf   CheckInMethod = "self-checkin"
)

// Registration joins a user to an event. One row per (user, event) pair; the
// uniqueness holds across every status, cancelled included. Cancellation is a
// status change, never a delete.
type Registration struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	EventID uint   `json:"event_id" gorm:"not null;uniqueIndex:idx_user_event_registration"`
	UserID  string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_event_registration"`

	Status        RegistrationStatus `json:"status" gorm:"not null;default:pending;size:20;index" validate:"omitempty,oneof=pending confirmed checked-in completed cancelled waitlisted"`
	PaymentStatus PaymentStatus      `json:"payment_status" gorm:"not null;default:not-required;size:20"`

	// Team fields. TeamCode is the normalized relation: every registration in a
	// team carries the same code; the lead row owns the team metadata. Member
	// count is derived by counting rows with the code, not from a stored list.
	TeamName   string `json:"team_name,omitempty" gorm:"size:100"`
	TeamCode   string `json:"team_code,omitempty" gorm:"size:30;index"`
	IsTeamLead bool   `json:"is_team_lead" gorm:"not null;default:false"`
	MaxMembers int    `json:"max_members,omitempty"`

	// Opaque scannable check-in token (base64 PNG data URL). Best-effort:
	// registration succeeds without it when generation fails.
	CheckInToken string `json:"check_in_token,omitempty" gorm:"type:text"`

	// Check-in record. One-way; there is no undo.
	CheckedIn       bool          `json:"checked_in" gorm:"not null;default:false"`
	CheckedInAt     *time.Time    `json:"checked_in_at,omitempty"`
	CheckInMethodAt CheckInMethod `json:"check_in_method,omitempty" gorm:"column:check_in_method;size:20"`
	CheckInLocation string        `json:"check_in_location,omitempty" gorm:"size:200"`
	CheckedInBy     string        `json:"checked_in_by,omitempty" gorm:"size:255"`

	// Derived attendance figures, recomputed on every session upsert.
	AttendedSessions     int     `json:"attended_sessions" gorm:"not null;default:0"`
	TotalSessions        int     `json:"total_sessions" gorm:"not null;default:0"`
	AttendancePercentage float64 `json:"attendance_percentage" gorm:"not null;default:0"`

	// Feedback, one-shot after event end.
	Feedback            datatypes.JSON `json:"feedback,omitempty" gorm:"type:jsonb"`
	FeedbackSubmittedAt *time.Time     `json:"feedback_submitted_at,omitempty"`

	// Certificate eligibility stamp, set by certificate generation.
	CertificateIssued   bool       `json:"certificate_issued" gorm:"not null;default:false"`
	CertificateIssuedAt *time.Time `json:"certificate_issued_at,omitempty"`
	CertificateType     string     `json:"certificate_type,omitempty" gorm:"size:20"`

	// Free-form registration answers and requirements.
	Responses           datatypes.JSON `json:"responses,omitempty" gorm:"type:jsonb"`
	SpecialRequirements string         `json:"special_requirements,omitempty" gorm:"size:500"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User     User                `json:"user" gorm:"foreignKey:UserID"`
	Event    Event               `json:"event" gorm:"foreignKey:EventID"`
	Sessions []SessionAttendance `json:"sessions" gorm:"foreignKey:RegistrationID"`
}

// SessionAttendance is one session row per (registration, session name). A
// session is "seen" the first time it is recorded, whatever the attended value.
type SessionAttendance struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	RegistrationID uint      `json:"registration_id" gorm:"not null;uniqueIndex:idx_registration_session"`
	SessionName    string    `json:"session_name" gorm:"not null;size:200;uniqueIndex:idx_registration_session"`
	Attended       bool      `json:"attended" gorm:"not null;default:false"`
	RecordedAt     time.Time `json:"recorded_at"`
	RecordedBy     string    `json:"recorded_by" gorm:"size:255"`
}

// RegistrationFeedback is the JSONB shape stored in Registration.Feedback.
type RegistrationFeedback struct {
	Rating          int    `json:"rating" validate:"required,min=1,max=5"`
	Comments        string `json:"comments" validate:"omitempty,max=2000"`
	Recommendations string `json:"recommendations" validate:"omitempty,max=2000"`
	WouldRecommend  bool   `json:"would_recommend"`
}

func (Registration) TableName() string {
	return "registrations"
}

func (SessionAttendance) TableName() string {
	return "session_attendances"
}

// IsTerminal reports whether the registration reached a terminal state.
func (r *Registration) IsTerminal() bool {
	return r.Status == RegistrationCompleted || r.Status == RegistrationCancelled
}

// CountsTowardCapacity reports whether this row occupies a seat.
func (r *Registration) CountsTowardCapacity() bool {
	return r.Status != RegistrationCancelled && r.Status != RegistrationWaitlisted
}
