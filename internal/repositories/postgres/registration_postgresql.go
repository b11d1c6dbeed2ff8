package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campus-events/event-service/internal/cache"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
)

type RegistrationPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewRegistrationPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.RegistrationRepository {
	return &RegistrationPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (r *RegistrationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RegistrationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(registration).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	r.cacheManager.InvalidateRegistration(ctx, registration.ID, registration.EventID)
	return nil
}

func (r *RegistrationPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	db := r.getDB(tx)
	var registration models.Registration
	if err := db.WithContext(ctx).First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	db := r.getDB(tx)
	var registration models.Registration
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Preload("Sessions").
		First(&registration, id).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationPostgreSQL) Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(registration).Error; err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	r.cacheManager.InvalidateRegistration(ctx, registration.ID, registration.EventID)
	return nil
}

func (r *RegistrationPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	db := r.getDB(tx)
	var registrations []*models.Registration
	var total int64

	query := db.WithContext(ctx).Model(&models.Registration{})
	query = r.helpers.applyRegistrationFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.applySort(query, filters.SortBy, filters.SortOrder)
	query = r.helpers.applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("User").Preload("Event").Find(&registrations).Error; err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

// GetByUserAndEvent deliberately matches every status. A cancelled row still
// blocks re-registration.
func (r *RegistrationPostgreSQL) GetByUserAndEvent(ctx context.Context, tx *gorm.DB, userID string, eventID uint) (*models.Registration, error) {
	db := r.getDB(tx)
	var registration models.Registration
	if err := db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	filters.UserID = &userID
	return r.List(ctx, tx, filters)
}

func (r *RegistrationPostgreSQL) GetByEvent(ctx context.Context, tx *gorm.DB, eventID uint, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	filters.EventID = &eventID
	return r.List(ctx, tx, filters)
}

func (r *RegistrationPostgreSQL) GetTeamLead(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (*models.Registration, error) {
	db := r.getDB(tx)
	var registration models.Registration
	if err := db.WithContext(ctx).
		Where("event_id = ? AND team_code = ? AND is_team_lead = ?", eventID, teamCode, true).
		Where("status <> ?", models.RegistrationCancelled).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// CountByTeamCode counts the live rows carrying the code; the lead is one of
// them. Derived, never stored.
func (r *RegistrationPostgreSQL) CountByTeamCode(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (int, error) {
	db := r.getDB(tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND team_code = ?", eventID, teamCode).
		Where("status <> ?", models.RegistrationCancelled).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *RegistrationPostgreSQL) GetTeamRoster(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (*repositories.TeamRoster, error) {
	db := r.getDB(tx)
	var rows []*models.Registration
	if err := db.WithContext(ctx).
		Preload("User").
		Where("event_id = ? AND team_code = ?", eventID, teamCode).
		Where("status <> ?", models.RegistrationCancelled).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	roster := &repositories.TeamRoster{}
	for _, row := range rows {
		if row.IsTeamLead && roster.Lead == nil {
			roster.Lead = row
			continue
		}
		roster.Members = append(roster.Members, row)
	}
	if roster.Lead == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return roster, nil
}

func (r *RegistrationPostgreSQL) GetSession(ctx context.Context, tx *gorm.DB, registrationID uint, sessionName string) (*models.SessionAttendance, error) {
	db := r.getDB(tx)
	var session models.SessionAttendance
	if err := db.WithContext(ctx).
		Where("registration_id = ? AND session_name = ?", registrationID, sessionName).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// UpsertSession writes one row per (registration, session name); replaying the
// same session updates the attended flag in place.
func (r *RegistrationPostgreSQL) UpsertSession(ctx context.Context, tx *gorm.DB, session *models.SessionAttendance) error {
	db := r.getDB(tx)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "registration_id"}, {Name: "session_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"attended", "recorded_at", "recorded_by"}),
		}).
		Create(session).Error
}

func (r *RegistrationPostgreSQL) ListSessions(ctx context.Context, tx *gorm.DB, registrationID uint) ([]*models.SessionAttendance, error) {
	db := r.getDB(tx)
	var sessions []*models.SessionAttendance
	if err := db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("recorded_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
