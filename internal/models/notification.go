package models

import (
	"time"
)

type NotificationType string

const (
	NotificationRegistrationConfirmed NotificationType = "registration.confirmed"
	NotificationCheckedIn             NotificationType = "registration.checked_in"
	NotificationCertificateIssued     NotificationType = "certificate.issued"
	NotificationEventApproved         NotificationType = "event.approved"
	NotificationEventCancelled        NotificationType = "event.cancelled"
	NotificationForumActivity         NotificationType = "forum.activity"
	NotificationAnnouncement          NotificationType = "system.announcement"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is the persisted in-app copy of a published domain event.
// Dispatch is best-effort; a failed write never rolls back the operation that
// produced it.
type Notification struct {
	ID       uint                 `json:"id" gorm:"primaryKey"`
	UserID   string               `json:"user_id" gorm:"not null;size:255;index"`
	Type     NotificationType     `json:"type" gorm:"not null;size:50;index"`
	Title    string               `json:"title" gorm:"not null;size:200"`
	Message  string               `json:"message" gorm:"size:1000"`
	Priority NotificationPriority `json:"priority" gorm:"not null;default:normal;size:10"`

	EventID        *uint `json:"event_id,omitempty"`
	RegistrationID *uint `json:"registration_id,omitempty"`

	Read   bool       `json:"read" gorm:"not null;default:false;index"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
