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

type EventPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewEventPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.EventRepository {
	return &EventPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (e *EventPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EventPostgreSQL) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Event, "list:*")
	return nil
}

func (e *EventPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	db := e.getDB(tx)

	if tx != nil {
		var event models.Event
		if err := db.WithContext(ctx).First(&event, id).Error; err != nil {
			return nil, err
		}
		return &event, nil
	}

	cacheKey := fmt.Sprintf("id:%d", id)
	var event models.Event

	err := e.cacheManager.Event.CacheOrExecute(ctx, cacheKey, &event, cache.EventCacheConfig.TTL, func() (interface{}, error) {
		var dbEvent models.Event
		if err := db.WithContext(ctx).First(&dbEvent, id).Error; err != nil {
			return nil, err
		}
		return &dbEvent, nil
	})
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (e *EventPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	db := e.getDB(tx)
	var event models.Event
	if err := db.WithContext(ctx).
		Preload("Organizer").
		Preload("CoOrganizers").
		Preload("CoOrganizers.User").
		First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (e *EventPostgreSQL) Update(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	e.cacheManager.InvalidateEvent(ctx, event.ID)
	return nil
}

func (e *EventPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	e.cacheManager.InvalidateEvent(ctx, id)
	return nil
}

func (e *EventPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	db := e.getDB(tx)
	var events []*models.Event
	var total int64

	query := db.WithContext(ctx).Model(&models.Event{})
	query = e.helpers.applyEventFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = e.helpers.applySort(query, filters.SortBy, filters.SortOrder)
	query = e.helpers.applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Organizer").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	for _, event := range events {
		event.RegistrationCount = event.CurrentParticipants
		event.IsFull = !event.HasCapacity()
	}

	return events, total, nil
}

func (e *EventPostgreSQL) Search(ctx context.Context, tx *gorm.DB, searchQuery string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	db := e.getDB(tx)
	var events []*models.Event
	var total int64

	pattern := "%" + searchQuery + "%"
	query := db.WithContext(ctx).Model(&models.Event{}).
		Where("title ILIKE ? OR description ILIKE ? OR department ILIKE ?", pattern, pattern, pattern)
	query = e.helpers.applyEventFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = e.helpers.applySort(query, filters.SortBy, filters.SortOrder)
	query = e.helpers.applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Organizer").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (e *EventPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.EventStatus) error {
	db := e.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update event status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	e.cacheManager.InvalidateEvent(ctx, id)
	return nil
}

// ReserveSeat does the capacity check and the increment in one guarded UPDATE.
// Two concurrent callers racing for the last seat hit the same row lock; the
// second one sees the incremented counter and gets zero rows affected.
func (e *EventPostgreSQL) ReserveSeat(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := e.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND (max_participants IS NULL OR current_participants < max_participants)", id).
		Update("current_participants", gorm.Expr("current_participants + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to reserve seat: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		e.cacheManager.InvalidateEvent(ctx, id)
		return true, nil
	}
	return false, nil
}

// ReleaseSeat decrements the counter, flooring at zero.
func (e *EventPostgreSQL) ReleaseSeat(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		Update("current_participants", gorm.Expr("GREATEST(current_participants - 1, 0)"))
	if result.Error != nil {
		return fmt.Errorf("failed to release seat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	e.cacheManager.InvalidateEvent(ctx, id)
	return nil
}

func (e *EventPostgreSQL) AddCoOrganizer(ctx context.Context, tx *gorm.DB, eventID uint, userID string) error {
	db := e.getDB(tx)
	assignment := &models.EventOrganizer{
		EventID: eventID,
		UserID:  userID,
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(assignment)
	if result.Error != nil {
		return fmt.Errorf("failed to add co-organizer: %w", result.Error)
	}
	e.cacheManager.InvalidateEvent(ctx, eventID)
	return nil
}

func (e *EventPostgreSQL) IsOrganizer(ctx context.Context, tx *gorm.DB, eventID uint, userID string) (bool, error) {
	db := e.getDB(tx)

	var count int64
	err := db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ? AND organizer_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = db.WithContext(ctx).Model(&models.EventOrganizer{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (e *EventPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, eventID uint) (*repositories.EventStats, error) {
	db := e.getDB(tx)

	cacheKey := fmt.Sprintf("event:%d:stats", eventID)
	var stats repositories.EventStats

	err := e.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return e.computeStats(ctx, db, eventID)
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (e *EventPostgreSQL) computeStats(ctx context.Context, db *gorm.DB, eventID uint) (*repositories.EventStats, error) {
	stats := &repositories.EventStats{}

	type statusCount struct {
		Status models.RegistrationStatus
		Count  int
	}
	var counts []statusCount
	if err := db.WithContext(ctx).Model(&models.Registration{}).
		Select("status, COUNT(*) as count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	for _, c := range counts {
		stats.TotalRegistrations += c.Count
		switch c.Status {
		case models.RegistrationCancelled:
			stats.CancelledRegistrations += c.Count
		default:
			stats.ActiveRegistrations += c.Count
		}
	}

	var checkedIn int64
	if err := db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND checked_in = ?", eventID, true).
		Count(&checkedIn).Error; err != nil {
		return nil, err
	}
	stats.CheckedInCount = int(checkedIn)

	if stats.ActiveRegistrations > 0 {
		stats.AttendanceRate = float64(stats.CheckedInCount) / float64(stats.ActiveRegistrations) * 100
	}

	var avgRating *float64
	if err := db.WithContext(ctx).Model(&models.Registration{}).
		Select("AVG((feedback->>'rating')::numeric)").
		Where("event_id = ? AND feedback IS NOT NULL", eventID).
		Scan(&avgRating).Error; err == nil && avgRating != nil {
		stats.AverageFeedbackRating = *avgRating
	}

	var certs int64
	if err := db.WithContext(ctx).Model(&models.Certificate{}).
		Where("event_id = ? AND status = ?", eventID, models.CertificateActive).
		Count(&certs).Error; err != nil {
		return nil, err
	}
	stats.CertificatesIssued = int(certs)

	var teams int64
	if err := db.WithContext(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND team_code <> '' AND status <> ?", eventID, models.RegistrationCancelled).
		Distinct("team_code").
		Count(&teams).Error; err != nil {
		return nil, err
	}
	stats.TeamCount = int(teams)

	return stats, nil
}

func (e *EventPostgreSQL) GetOrganizerStats(ctx context.Context, tx *gorm.DB, organizerID string) (*repositories.OrganizerStats, error) {
	db := e.getDB(tx)
	stats := &repositories.OrganizerStats{}

	type statusCount struct {
		Status models.EventStatus
		Count  int
	}
	var counts []statusCount
	if err := db.WithContext(ctx).Model(&models.Event{}).
		Select("status, COUNT(*) as count").
		Where("organizer_id = ?", organizerID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count organizer events: %w", err)
	}

	for _, c := range counts {
		stats.TotalEvents += c.Count
		switch c.Status {
		case models.EventApproved, models.EventActive:
			stats.ApprovedEvents += c.Count
		case models.EventPending:
			stats.PendingEvents += c.Count
		case models.EventCompleted:
			stats.CompletedEvents += c.Count
		}
	}

	var attendees int64
	if err := db.WithContext(ctx).Model(&models.Registration{}).
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("events.organizer_id = ? AND registrations.checked_in = ?", organizerID, true).
		Count(&attendees).Error; err != nil {
		return nil, err
	}
	stats.TotalAttendees = int(attendees)

	return stats, nil
}
