package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/cache"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
)

type ForumPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewForumPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ForumRepository {
	return &ForumPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (f *ForumPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return f.db
}

func (f *ForumPostgreSQL) CreatePost(ctx context.Context, tx *gorm.DB, post *models.ForumPost) error {
	db := f.getDB(tx)
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (f *ForumPostgreSQL) GetPostByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumPost, error) {
	db := f.getDB(tx)
	var post models.ForumPost
	if err := db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (f *ForumPostgreSQL) GetPostWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumPost, error) {
	db := f.getDB(tx)
	var post models.ForumPost
	if err := db.WithContext(ctx).
		Preload("Author").
		Preload("Event").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("forum_replies.created_at ASC")
		}).
		Preload("Replies.Author").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (f *ForumPostgreSQL) UpdatePost(ctx context.Context, tx *gorm.DB, post *models.ForumPost) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).Save(post).Error
}

func (f *ForumPostgreSQL) DeletePost(ctx context.Context, tx *gorm.DB, id uint) error {
	db := f.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.ForumPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (f *ForumPostgreSQL) ListPosts(ctx context.Context, tx *gorm.DB, filters repositories.ForumFilters) ([]*models.ForumPost, int64, error) {
	db := f.getDB(tx)
	var posts []*models.ForumPost
	var total int64

	query := db.WithContext(ctx).Model(&models.ForumPost{})
	query = f.helpers.applyForumFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = f.helpers.applySort(query, filters.SortBy, filters.SortOrder)
	query = f.helpers.applyPagination(query, filters.Limit, filters.Offset)

	if err := query.Preload("Author").Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (f *ForumPostgreSQL) CreateReply(ctx context.Context, tx *gorm.DB, reply *models.ForumReply) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.Create(reply).Error; err != nil {
			return fmt.Errorf("failed to create reply: %w", err)
		}
		return inner.Model(&models.ForumPost{}).
			Where("id = ?", reply.PostID).
			Update("reply_count", gorm.Expr("reply_count + 1")).Error
	})
}

func (f *ForumPostgreSQL) DeleteReply(ctx context.Context, tx *gorm.DB, id uint) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var reply models.ForumReply
		if err := inner.First(&reply, id).Error; err != nil {
			return err
		}
		if err := inner.Delete(&reply).Error; err != nil {
			return err
		}
		return inner.Model(&models.ForumPost{}).
			Where("id = ?", reply.PostID).
			Update("reply_count", gorm.Expr("GREATEST(reply_count - 1, 0)")).Error
	})
}

func (f *ForumPostgreSQL) GetReplyByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumReply, error) {
	db := f.getDB(tx)
	var reply models.ForumReply
	if err := db.WithContext(ctx).First(&reply, id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

// ToggleLike flips the (post, user) like row and keeps the denormalized
// counter in step inside one transaction.
func (f *ForumPostgreSQL) ToggleLike(ctx context.Context, tx *gorm.DB, postID uint, userID string) (bool, error) {
	db := f.getDB(tx)
	var liked bool

	err := db.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var existing models.ForumLike
		err := inner.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := inner.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			return inner.Model(&models.ForumPost{}).
				Where("id = ?", postID).
				Update("like_count", gorm.Expr("GREATEST(like_count - 1, 0)")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := &models.ForumLike{PostID: postID, UserID: userID}
			if err := inner.Create(like).Error; err != nil {
				return err
			}
			liked = true
			return inner.Model(&models.ForumPost{}).
				Where("id = ?", postID).
				Update("like_count", gorm.Expr("like_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	return liked, nil
}

func (f *ForumPostgreSQL) CreateApplication(ctx context.Context, tx *gorm.DB, app *models.TeamApplication) error {
	db := f.getDB(tx)
	if err := db.WithContext(ctx).Create(app).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (f *ForumPostgreSQL) GetApplicationByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeamApplication, error) {
	db := f.getDB(tx)
	var app models.TeamApplication
	if err := db.WithContext(ctx).Preload("Applicant").First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (f *ForumPostgreSQL) UpdateApplication(ctx context.Context, tx *gorm.DB, app *models.TeamApplication) error {
	db := f.getDB(tx)
	return db.WithContext(ctx).Save(app).Error
}

func (f *ForumPostgreSQL) ListApplications(ctx context.Context, tx *gorm.DB, postID uint) ([]*models.TeamApplication, error) {
	db := f.getDB(tx)
	var apps []*models.TeamApplication
	if err := db.WithContext(ctx).
		Preload("Applicant").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ===== NOTIFICATIONS =====

type NotificationPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (n *NotificationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return n.db
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	db := n.getDB(tx)
	return db.WithContext(ctx).Create(notification).Error
}

func (n *NotificationPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	db := n.getDB(tx)
	var notifications []*models.Notification
	var total int64

	query := db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if filters.UnreadOnly {
		query = query.Where("read = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = n.helpers.applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, tx *gorm.DB, id uint, userID string) error {
	db := n.getDB(tx)
	now := time.Now()
	result := db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (n *NotificationPostgreSQL) MarkAllRead(ctx context.Context, tx *gorm.DB, userID string) error {
	db := n.getDB(tx)
	now := time.Now()
	return db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Updates(map[string]interface{}{"read": true, "read_at": now}).Error
}
