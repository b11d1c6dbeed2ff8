package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/cache"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
)

type CertificatePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCertificatePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CertificateRepository {
	return &CertificatePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

func (c *CertificatePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CertificatePostgreSQL) Create(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(certificate).Error; err != nil {
		if repositories.IsDuplicateError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to create certificate: %w", err)
	}
	return nil
}

func (c *CertificatePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Certificate, error) {
	db := c.getDB(tx)
	var certificate models.Certificate
	if err := db.WithContext(ctx).First(&certificate, id).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

func (c *CertificatePostgreSQL) GetByCertificateID(ctx context.Context, tx *gorm.DB, certificateID string) (*models.Certificate, error) {
	db := c.getDB(tx)
	var certificate models.Certificate
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Where("certificate_id = ?", certificateID).
		First(&certificate).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

// GetByVerificationCode backs the public verification endpoint; the lookup is
// cached because codes are shared and re-checked.
func (c *CertificatePostgreSQL) GetByVerificationCode(ctx context.Context, tx *gorm.DB, code string) (*models.Certificate, error) {
	db := c.getDB(tx)

	if tx != nil {
		return c.fetchByCode(ctx, db, code)
	}

	cacheKey := fmt.Sprintf("code:%s", code)
	var certificate models.Certificate

	err := c.cacheManager.Certificate.CacheOrExecute(ctx, cacheKey, &certificate, cache.CertificateCacheConfig.TTL, func() (interface{}, error) {
		return c.fetchByCode(ctx, db, code)
	})
	if err != nil {
		return nil, err
	}

	return &certificate, nil
}

func (c *CertificatePostgreSQL) fetchByCode(ctx context.Context, db *gorm.DB, code string) (*models.Certificate, error) {
	var certificate models.Certificate
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Where("verification_code = ?", code).
		First(&certificate).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

func (c *CertificatePostgreSQL) Update(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Save(certificate).Error; err != nil {
		return fmt.Errorf("failed to update certificate: %w", err)
	}
	c.cacheManager.InvalidateCertificate(ctx, certificate.VerificationCode)
	return nil
}

func (c *CertificatePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CertificateFilters) ([]*models.Certificate, int64, error) {
	db := c.getDB(tx)
	var certificates []*models.Certificate
	var total int64

	query := db.WithContext(ctx).Model(&models.Certificate{})
	query = c.helpers.applyCertificateFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = c.helpers.applyPagination(query, filters.Limit, filters.Offset)
	if err := query.Preload("Event").Order("issued_at DESC").Find(&certificates).Error; err != nil {
		return nil, 0, err
	}

	return certificates, total, nil
}

func (c *CertificatePostgreSQL) ExistsForUserEventType(ctx context.Context, tx *gorm.DB, userID string, eventID uint, certType models.CertificateType) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).Model(&models.Certificate{}).
		Where("user_id = ? AND event_id = ? AND type = ?", userID, eventID, certType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *CertificatePostgreSQL) IncrementDownloadCount(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", id).
		Update("download_count", gorm.Expr("download_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment download count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *CertificatePostgreSQL) IncrementShareCount(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	result := db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", id).
		Update("share_count", gorm.Expr("share_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment share count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
