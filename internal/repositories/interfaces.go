package repositories

import (
	"time"

	"github.com/campus-events/event-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type EventFilters struct {
	Status      *models.EventStatus     `json:"status"`
	Category    *models.EventCategory   `json:"category"`
	Department  *string                 `json:"department"`
	OrganizerID *string                 `json:"organizer_id"`
	Visibility  *models.EventVisibility `json:"visibility"`
	DateFrom    *time.Time              `json:"date_from"`
	DateTo      *time.Time              `json:"date_to"`
	Limit       int                     `json:"limit"`
	Offset      int                     `json:"offset"`
	SortBy      string                  `json:"sort_by"`    // "created_at", "title", "start_date"
	SortOrder   string                  `json:"sort_order"` // "asc", "desc"
}

type RegistrationFilters struct {
	Status    *models.RegistrationStatus `json:"status"`
	EventID   *uint                      `json:"event_id"`
	UserID    *string                    `json:"user_id"`
	TeamCode  *string                    `json:"team_code"`
	CheckedIn *bool                      `json:"checked_in"`
	DateFrom  *time.Time                 `json:"date_from"`
	DateTo    *time.Time                 `json:"date_to"`
	Limit     int                        `json:"limit"`
	Offset    int                        `json:"offset"`
	SortBy    string                     `json:"sort_by"`
	SortOrder string                     `json:"sort_order"`
}

type CertificateFilters struct {
	Status  *models.CertificateStatus `json:"status"`
	Type    *models.CertificateType   `json:"type"`
	UserID  *string                   `json:"user_id"`
	EventID *uint                     `json:"event_id"`
	Limit   int                       `json:"limit"`
	Offset  int                       `json:"offset"`
}

type ForumFilters struct {
	Category *models.ForumCategory `json:"category"`
	EventID  *uint                 `json:"event_id"`
	AuthorID *string               `json:"author_id"`
	Limit    int                   `json:"limit"`
	Offset   int                   `json:"offset"`
	SortBy   string                `json:"sort_by"`
	SortOrder string               `json:"sort_order"`
}

type UserFilters struct {
	Role       *models.UserRole `json:"role"`
	Department *string          `json:"department"`
	IsActive   *bool            `json:"is_active"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

type NotificationFilters struct {
	UnreadOnly bool `json:"unread_only"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type EventStats struct {
	TotalRegistrations     int     `json:"total_registrations"`
	ActiveRegistrations    int     `json:"active_registrations"`
	CancelledRegistrations int     `json:"cancelled_registrations"`
	CheckedInCount         int     `json:"checked_in_count"`
	AttendanceRate         float64 `json:"attendance_rate"`
	AverageFeedbackRating  float64 `json:"average_feedback_rating"`
	CertificatesIssued     int     `json:"certificates_issued"`
	TeamCount              int     `json:"team_count"`
}

type OrganizerStats struct {
	TotalEvents     int `json:"total_events"`
	ApprovedEvents  int `json:"approved_events"`
	PendingEvents   int `json:"pending_events"`
	CompletedEvents int `json:"completed_events"`
	TotalAttendees  int `json:"total_attendees"`
}

// TeamRoster is the normalized view of a team: the lead row plus every member
// row sharing the code.
type TeamRoster struct {
	Lead    *models.Registration   `json:"lead"`
	Members []*models.Registration `json:"members"`
}

// Size is the number of seats the team occupies (lead included).
func (t *TeamRoster) Size() int {
	return 1 + len(t.Members)
}
