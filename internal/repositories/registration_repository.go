package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
)

type RegistrationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error)
	Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error
	List(ctx context.Context, tx *gorm.DB, filters RegistrationFilters) ([]*models.Registration, int64, error)

	// GetByUserAndEvent returns the row for the pair in any status, cancelled
	// included; the duplicate check depends on that.
	GetByUserAndEvent(ctx context.Context, tx *gorm.DB, userID string, eventID uint) (*models.Registration, error)

	GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters RegistrationFilters) ([]*models.Registration, int64, error)
	GetByEvent(ctx context.Context, tx *gorm.DB, eventID uint, filters RegistrationFilters) ([]*models.Registration, int64, error)

	// Team operations: the team code is the relation.
	GetTeamLead(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (*models.Registration, error)
	CountByTeamCode(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (int, error)
	GetTeamRoster(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (*TeamRoster, error)

	// Session attendance
	GetSession(ctx context.Context, tx *gorm.DB, registrationID uint, sessionName string) (*models.SessionAttendance, error)
	UpsertSession(ctx context.Context, tx *gorm.DB, session *models.SessionAttendance) error
	ListSessions(ctx context.Context, tx *gorm.DB, registrationID uint) ([]*models.SessionAttendance, error)
}
