package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
)

type EventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.Event) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error)
	Update(ctx context.Context, tx *gorm.DB, event *models.Event) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, filters EventFilters) ([]*models.Event, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters EventFilters) ([]*models.Event, int64, error)

	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.EventStatus) error

	// ReserveSeat performs the capacity check and the increment in a single
	// guarded UPDATE. It returns false when the event is full; the counter can
	// never pass MaxParticipants, concurrent callers included.
	ReserveSeat(ctx context.Context, tx *gorm.DB, id uint) (bool, error)

	// ReleaseSeat decrements the counter, flooring at zero.
	ReleaseSeat(ctx context.Context, tx *gorm.DB, id uint) error

	// Co-organizers
	AddCoOrganizer(ctx context.Context, tx *gorm.DB, eventID uint, userID string) error
	IsOrganizer(ctx context.Context, tx *gorm.DB, eventID uint, userID string) (bool, error)

	GetStats(ctx context.Context, tx *gorm.DB, eventID uint) (*EventStats, error)
	GetOrganizerStats(ctx context.Context, tx *gorm.DB, organizerID string) (*OrganizerStats, error)
}
