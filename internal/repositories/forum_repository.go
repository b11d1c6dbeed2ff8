package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
)

type ForumRepository interface {
	CreatePost(ctx context.Context, tx *gorm.DB, post *models.ForumPost) error
	GetPostByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumPost, error)
	GetPostWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumPost, error)
	UpdatePost(ctx context.Context, tx *gorm.DB, post *models.ForumPost) error
	DeletePost(ctx context.Context, tx *gorm.DB, id uint) error
	ListPosts(ctx context.Context, tx *gorm.DB, filters ForumFilters) ([]*models.ForumPost, int64, error)

	CreateReply(ctx context.Context, tx *gorm.DB, reply *models.ForumReply) error
	DeleteReply(ctx context.Context, tx *gorm.DB, id uint) error
	GetReplyByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumReply, error)

	// ToggleLike adds or removes the (post,user) like row and returns the new
	// liked state.
	ToggleLike(ctx context.Context, tx *gorm.DB, postID uint, userID string) (bool, error)

	CreateApplication(ctx context.Context, tx *gorm.DB, app *models.TeamApplication) error
	GetApplicationByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeamApplication, error)
	UpdateApplication(ctx context.Context, tx *gorm.DB, app *models.TeamApplication) error
	ListApplications(ctx context.Context, tx *gorm.DB, postID uint) ([]*models.TeamApplication, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uint, userID string) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, userID string) error
}
