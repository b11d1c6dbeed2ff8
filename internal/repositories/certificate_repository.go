package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
)

type CertificateRepository interface {
	Create(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Certificate, error)
	GetByCertificateID(ctx context.Context, tx *gorm.DB, certificateID string) (*models.Certificate, error)
	GetByVerificationCode(ctx context.Context, tx *gorm.DB, code string) (*models.Certificate, error)
	Update(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) error
	List(ctx context.Context, tx *gorm.DB, filters CertificateFilters) ([]*models.Certificate, int64, error)

	// ExistsForUserEventType backs the duplicate-triple rejection.
	ExistsForUserEventType(ctx context.Context, tx *gorm.DB, userID string, eventID uint, certType models.CertificateType) (bool, error)

	// Counter updates are atomic increments.
	IncrementDownloadCount(ctx context.Context, tx *gorm.DB, id uint) error
	IncrementShareCount(ctx context.Context, tx *gorm.DB, id uint) error
}
