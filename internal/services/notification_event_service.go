package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/events"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
)

type notificationEventService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewNotificationEventService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, publisher events.EventPublisher) NotificationEventService {
	return &notificationEventService{
		repo:      repo,
		db:        db,
		logger:    logger,
		publisher: publisher,
	}
}

// Notify persists one in-app notification for a single user.
func (s *notificationEventService) Notify(ctx context.Context, userID string, req *NotificationRequest) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	notification := s.buildNotification(userID, req)
	if err := s.repo.Notification().Create(ctx, s.db, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// SendBulkNotification persists a copy per recipient and publishes one fan-out
// event. A failed row write skips that recipient and continues; the published
// event carries the full recipient list.
func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	failed := 0
	for _, userID := range userIDs {
		notification := s.buildNotification(userID, req)
		if err := s.repo.Notification().Create(ctx, s.db, notification); err != nil {
			failed++
			s.logger.Error("Failed to create bulk notification row",
				"error", err,
				"user_id", userID)
		}
	}

	if s.publisher != nil {
		payload := events.BulkNotificationEvent{
			UserIDs:  userIDs,
			Type:     string(req.Type),
			Title:    req.Title,
			Message:  req.Message,
			Priority: string(req.Priority),
		}
		if err := s.publisher.Publish(ctx, events.TopicNotifications, events.NewEvent(events.TypeBulkNotification, payload)); err != nil {
			s.logger.Error("Failed to publish bulk notification event",
				"error", err,
				"recipients", len(userIDs))
		}
	}

	if failed == len(userIDs) {
		return fmt.Errorf("failed to create any notification rows")
	}

	s.logger.Info("Bulk notification sent",
		"recipients", len(userIDs),
		"failed", failed,
		"type", req.Type)

	return nil
}

func (s *notificationEventService) GetForUser(ctx context.Context, actor Actor, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	return s.repo.Notification().GetByUser(ctx, s.db, actor.UserID, filters)
}

func (s *notificationEventService) MarkRead(ctx context.Context, actor Actor, id uint) error {
	err := s.repo.Notification().MarkRead(ctx, s.db, id, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return fmt.Errorf("notification not found")
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *notificationEventService) MarkAllRead(ctx context.Context, actor Actor) error {
	return s.repo.Notification().MarkAllRead(ctx, s.db, actor.UserID)
}

func (s *notificationEventService) buildNotification(userID string, req *NotificationRequest) *models.Notification {
	notifType := req.Type
	if notifType == "" {
		notifType = models.NotificationAnnouncement
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	return &models.Notification{
		UserID:   userID,
		Type:     notifType,
		Title:    req.Title,
		Message:  req.Message,
		Priority: priority,
	}
}
