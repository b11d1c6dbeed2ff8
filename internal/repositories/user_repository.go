package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)

	// Deactivate soft-disables the account; users owning registrations are
	// never hard-deleted.
	Deactivate(ctx context.Context, tx *gorm.DB, id string) error

	// AddPoints applies a database-level atomic increment to the point balance.
	AddPoints(ctx context.Context, tx *gorm.DB, id string, points int) error

	// AddBadge inserts the badge only when the user does not already hold one
	// with the same name. Returns true when a new badge was granted.
	AddBadge(ctx context.Context, tx *gorm.DB, badge *models.Badge) (bool, error)
}
