package models

import (
	"time"

	"gorm.io/gorm"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPending   EventStatus = "pending"
	EventApproved  EventStatus = "approved"
	EventRejected  EventStatus = "rejected"
	EventActive    EventStatus = "active"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type EventCategory string

const (
	CategoryWorkshop    EventCategory = "workshop"
	CategorySeminar     EventCategory = "seminar"
	CategoryCompetition EventCategory = "competition"
	CategoryCultural    EventCategory = "cultural"
	CategorySports      EventCategory = "sports"
	CategoryTechnical   EventCategory = "technical"
)

type EventVisibility string

const (
	VisibilityPublic     EventVisibility = "public"
	VisibilityPrivate    EventVisibility = "private"
	VisibilityDepartment EventVisibility = "department-only"
)

type Event struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string        `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	Department  string        `json:"department" gorm:"size:100;index"`
	Category    EventCategory `json:"category" gorm:"not null;size:30;index" validate:"required,oneof=workshop seminar competition cultural sports technical"`

	// Time window. Invariant: RegistrationDeadline <= StartDate < EndDate.
	StartDate            time.Time `json:"start_date" gorm:"not null;index" validate:"required"`
	EndDate              time.Time `json:"end_date" gorm:"not null" validate:"required"`
	RegistrationDeadline time.Time `json:"registration_deadline" gorm:"not null" validate:"required"`

	// Capacity. Nil MaxParticipants means unlimited. CurrentParticipants moves
	// only through registration create/cancel and never exceeds MaxParticipants.
	MaxParticipants     *int `json:"max_participants" validate:"omitempty,min=1"`
	CurrentParticipants int  `json:"current_participants" gorm:"not null;default:0"`

	// Team events
	IsTeamEvent bool `json:"is_team_event" gorm:"not null;default:false"`
	TeamSizeMin int  `json:"team_size_min" gorm:"default:1" validate:"omitempty,min=1"`
	TeamSizeMax int  `json:"team_size_max" gorm:"default:1" validate:"omitempty,min=1"`

	RegistrationFee float64 `json:"registration_fee" gorm:"not null;default:0" validate:"min=0"`

	Status     EventStatus     `json:"status" gorm:"not null;default:pending;size:20;index" validate:"omitempty,oneof=draft pending approved rejected active completed cancelled"`
	Visibility EventVisibility `json:"visibility" gorm:"not null;default:public;size:20" validate:"omitempty,oneof=public private department-only"`

	// Ownership
	OrganizerID string `json:"organizer_id" gorm:"not null;size:255;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Organizer     User             `json:"organizer" gorm:"foreignKey:OrganizerID"`
	CoOrganizers  []EventOrganizer `json:"co_organizers" gorm:"foreignKey:EventID"`
	Registrations []Registration   `json:"-" gorm:"foreignKey:EventID"`

	// Computed fields (not stored)
	RegistrationCount int  `json:"registration_count" gorm:"-"`
	IsFull            bool `json:"is_full" gorm:"-"`
}

// EventOrganizer is a co-organizer assignment. Co-organizers share check-in and
// certificate-generation rights with the owning organizer.
type EventOrganizer struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	EventID uint   `json:"event_id" gorm:"not null;uniqueIndex:idx_event_co_organizer"`
	UserID  string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_event_co_organizer"`

	CreatedAt time.Time `json:"created_at"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

func (Event) TableName() string {
	return "events"
}

func (EventOrganizer) TableName() string {
	return "event_organizers"
}

// HasCapacity reports whether the event can take one more participant.
// Unlimited events always have capacity.
func (e *Event) HasCapacity() bool {
	if e.MaxParticipants == nil {
		return true
	}
	return e.CurrentParticipants < *e.MaxParticipants
}

// RegistrationOpen reports whether the registration window is still open at t.
func (e *Event) RegistrationOpen(t time.Time) bool {
	return e.Status == EventApproved && !t.After(e.RegistrationDeadline)
}
