// Package events publishes domain events to Kafka for downstream consumers
// (notification fan-out, analytics). Publication is best-effort: callers log
// failures and never roll back the operation that produced the event.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	// Source identifies this service in published events.
	Source = "event-service"

	// Version is the event schema version.
	Version = "1.0"
)

// Event topics
const (
	TopicRegistrations = "campus.registrations"
	TopicEvents        = "campus.events"
	TopicCertificates  = "campus.certificates"
	TopicNotifications = "campus.notifications"
)

// Event types
const (
	TypeRegistrationCreated   = "registration.created"
	TypeRegistrationCheckedIn = "registration.checked_in"
	TypeRegistrationCancelled = "registration.cancelled"
	TypeTeamMemberJoined      = "registration.team_member_joined"
	TypeFeedbackSubmitted     = "registration.feedback_submitted"
	TypeEventApproved         = "event.approved"
	TypeEventRejected         = "event.rejected"
	TypeEventCancelled        = "event.cancelled"
	TypeCertificateIssued     = "certificate.issued"
	TypeCertificateRevoked    = "certificate.revoked"
	TypeBulkNotification      = "system.bulk_notification"
)

// Event is the envelope published to Kafka.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// RegistrationEvent is the payload for registration lifecycle events.
type RegistrationEvent struct {
	RegistrationID uint   `json:"registration_id"`
	EventID        uint   `json:"event_id"`
	UserID         string `json:"user_id"`
	Status         string `json:"status"`
	TeamCode       string `json:"team_code,omitempty"`
}

// EventStatusEvent is the payload for event approval workflow changes.
type EventStatusEvent struct {
	EventID     uint   `json:"event_id"`
	OrganizerID string `json:"organizer_id"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
}

// CertificateEvent is the payload for certificate issuance and revocation.
type CertificateEvent struct {
	CertificateID string `json:"certificate_id"`
	UserID        string `json:"user_id"`
	EventID       uint   `json:"event_id"`
	Type          string `json:"type"`
	Status        string `json:"status"`
}

// BulkNotificationEvent is the payload for fan-out notifications.
type BulkNotificationEvent struct {
	UserIDs  []string `json:"user_ids"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Priority string   `json:"priority"`
}
