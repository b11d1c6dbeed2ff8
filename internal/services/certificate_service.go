package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/certificates"
	"github.com/campus-events/event-service/internal/events"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/qr"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/storage"
	"github.com/campus-events/event-service/internal/validator"
)

type certificateService struct {
	repo        repositories.Repository
	db          *gorm.DB
	logger      *slog.Logger
	validator   *validator.Validator
	auth        *authorizer
	publisher   events.EventPublisher
	storage     storage.ObjectStorage
	frontendURL string
	clock       Clock
}

func NewCertificateService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, store storage.ObjectStorage, frontendURL string) CertificateService {
	return &certificateService{
		repo:        repo,
		db:          db,
		logger:      logger,
		validator:   v,
		auth:        newAuthorizer(repo, db),
		publisher:   publisher,
		storage:     store,
		frontendURL: frontendURL,
		clock:       systemClock{},
	}
}

// ===== ISSUANCE =====

func (s *certificateService) Generate(ctx context.Context, actor Actor, req *validator.CertificateGenerateRequest) (*models.Certificate, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !models.ValidCertificateType(req.Type) {
		return nil, ErrInvalidCertType
	}
	if req.Type == models.CertWinner && req.Position == "" {
		return nil, fmt.Errorf("%w: winner certificate requires a position", ErrInvalidCertType)
	}
	if req.Type == models.CertAchievement && (req.Title == "" || req.Score == nil) {
		return nil, fmt.Errorf("%w: achievement certificate requires a title and score", ErrInvalidCertType)
	}

	registration, err := s.repo.Registration().GetByIDWithDetails(ctx, s.db, req.RegistrationID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	if err := s.auth.Allow(ctx, actor, "event", registration.EventID, ActionIssue); err != nil {
		return nil, err
	}

	if registration.Status == models.RegistrationCancelled {
		return nil, ErrNotEligible
	}

	exists, err := s.repo.Certificate().ExistsForUserEventType(ctx, s.db, registration.UserID, registration.EventID, req.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing certificate: %w", err)
	}
	if exists {
		return nil, ErrCertificateExists
	}

	now := s.clock.Now()
	certificate := &models.Certificate{
		CertificateID:    uuid.NewString(),
		VerificationCode: uuid.NewString(),
		UserID:           registration.UserID,
		EventID:          registration.EventID,
		RegistrationID:   registration.ID,
		Type:             req.Type,
		Title:            req.Title,
		Position:         req.Position,
		Score:            req.Score,
		Status:           models.CertificateActive,
		IssuedAt:         now,
	}

	verifyURL := qr.VerificationURL(s.frontendURL, certificate.VerificationCode)
	pdf, err := certificates.Render(certificates.RenderInput{
		RecipientName:   registration.User.FullName,
		EventTitle:      registration.Event.Title,
		EventDate:       registration.Event.StartDate,
		Type:            req.Type,
		Title:           req.Title,
		Position:        req.Position,
		Score:           req.Score,
		CertificateID:   certificate.CertificateID,
		VerificationURL: verifyURL,
		IssuedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render certificate: %w", err)
	}

	certificate.ArtifactPath = artifactKey(certificate.CertificateID)
	if err := s.storage.Put(ctx, certificate.ArtifactPath, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to store certificate artifact: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Certificate().Create(ctx, nil, certificate); err != nil {
			if repositories.IsDuplicateError(err) {
				return ErrCertificateExists
			}
			return fmt.Errorf("failed to create certificate: %w", err)
		}

		registration.CertificateIssued = true
		registration.CertificateIssuedAt = &now
		registration.CertificateType = string(req.Type)
		if registration.Status == models.RegistrationCheckedIn {
			registration.Status = models.RegistrationCompleted
		}
		if err := txRepo.Registration().Update(ctx, nil, registration); err != nil {
			return fmt.Errorf("failed to stamp registration: %w", err)
		}

		if err := txRepo.User().AddPoints(ctx, nil, registration.UserID, models.CertificatePoints[req.Type]); err != nil {
			return fmt.Errorf("failed to award certificate points: %w", err)
		}

		if req.Type == models.CertWinner {
			granted, err := txRepo.User().AddBadge(ctx, nil, &models.Badge{
				UserID:      registration.UserID,
				Name:        models.WinnerBadgeName,
				Icon:        "trophy",
				Description: "Won a campus event",
				EarnedAt:    now,
			})
			if err != nil {
				return fmt.Errorf("failed to grant winner badge: %w", err)
			}
			if granted {
				s.logger.Info("Winner badge granted", "user_id", registration.UserID)
			}
		}

		return nil
	})
	if err != nil {
		// Orphaned artifact; cheap to remove, fine to leave on failure.
		if derr := s.storage.Delete(ctx, certificate.ArtifactPath); derr != nil {
			s.logger.Error("Failed to clean up certificate artifact",
				"error", derr,
				"key", certificate.ArtifactPath)
		}
		return nil, err
	}

	s.publishCertificateEvent(ctx, events.TypeCertificateIssued, certificate)
	s.notifyRecipient(ctx, certificate, registration.Event.Title)

	s.logger.Info("Certificate issued",
		"certificate_id", certificate.CertificateID,
		"type", certificate.Type,
		"user_id", certificate.UserID,
		"event_id", certificate.EventID)

	return certificate, nil
}

// ===== VERIFICATION =====

// Verify is the public lookup by verification code. It never exposes the
// artifact, only the issuance facts.
func (s *certificateService) Verify(ctx context.Context, code string) (*VerificationResponse, error) {
	certificate, err := s.repo.Certificate().GetByVerificationCode(ctx, s.db, code)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to look up certificate: %w", err)
	}

	return &VerificationResponse{
		Valid:         certificate.Status == models.CertificateActive,
		CertificateID: certificate.CertificateID,
		Status:        certificate.Status,
		Type:          certificate.Type,
		RecipientName: certificate.User.FullName,
		EventTitle:    certificate.Event.Title,
		IssuedAt:      certificate.IssuedAt.Format(time.RFC3339),
		Position:      certificate.Position,
	}, nil
}

// ===== READS =====

func (s *certificateService) GetByID(ctx context.Context, actor Actor, id uint) (*models.Certificate, error) {
	certificate, err := s.loadCertificate(ctx, id)
	if err != nil {
		return nil, err
	}
	if certificate.UserID != actor.UserID && !actor.IsAdmin() {
		if err := s.auth.Allow(ctx, actor, "event", certificate.EventID, ActionIssue); err != nil {
			return nil, err
		}
	}
	return certificate, nil
}

func (s *certificateService) GetMine(ctx context.Context, actor Actor, filters repositories.CertificateFilters) ([]*models.Certificate, int64, error) {
	filters.UserID = &actor.UserID
	return s.repo.Certificate().List(ctx, s.db, filters)
}

// ===== ARTIFACT =====

func (s *certificateService) Download(ctx context.Context, actor Actor, id uint) ([]byte, string, error) {
	certificate, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	if certificate.Status == models.CertificateRevoked {
		return nil, "", ErrCertificateRevoked
	}
	if certificate.ArtifactPath == "" {
		return nil, "", ErrArtifactUnavailable
	}

	reader, err := s.storage.Get(ctx, certificate.ArtifactPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrArtifactUnavailable, err)
	}
	defer reader.Close()

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read certificate artifact: %w", err)
	}

	if err := s.repo.Certificate().IncrementDownloadCount(ctx, s.db, certificate.ID); err != nil {
		s.logger.Error("Failed to count download", "error", err, "certificate_id", certificate.ID)
	}

	filename := fmt.Sprintf("certificate-%s.pdf", certificate.CertificateID)
	return pdf, filename, nil
}

func (s *certificateService) RecordShare(ctx context.Context, actor Actor, id uint) error {
	certificate, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.repo.Certificate().IncrementShareCount(ctx, s.db, certificate.ID)
}

// ===== REVOCATION =====

// Revoke flips the status flag. One-way; the artifact stays in storage so the
// public verification page can state that the certificate existed and was
// revoked.
func (s *certificateService) Revoke(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return NewPermissionError(actor.UserID, id, "certificate", ActionRevoke, "admin role required")
	}

	certificate, err := s.loadCertificate(ctx, id)
	if err != nil {
		return err
	}
	if certificate.Status == models.CertificateRevoked {
		return ErrCertificateRevoked
	}

	now := s.clock.Now()
	certificate.Status = models.CertificateRevoked
	certificate.RevokedAt = &now
	certificate.RevokedBy = actor.UserID

	if err := s.repo.Certificate().Update(ctx, s.db, certificate); err != nil {
		return fmt.Errorf("failed to revoke certificate: %w", err)
	}

	s.publishCertificateEvent(ctx, events.TypeCertificateRevoked, certificate)

	s.logger.Info("Certificate revoked",
		"certificate_id", certificate.CertificateID,
		"actor", actor.UserID)

	return nil
}

// ===== HELPERS =====

func artifactKey(certificateID string) string {
	return fmt.Sprintf("certificates/%s.pdf", certificateID)
}

func (s *certificateService) loadCertificate(ctx context.Context, id uint) (*models.Certificate, error) {
	certificate, err := s.repo.Certificate().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCertificateNotFound
		}
		return nil, fmt.Errorf("failed to load certificate: %w", err)
	}
	return certificate, nil
}

// publishCertificateEvent is best-effort; failures are logged only.
func (s *certificateService) publishCertificateEvent(ctx context.Context, eventType string, certificate *models.Certificate) {
	if s.publisher == nil {
		return
	}
	payload := events.CertificateEvent{
		CertificateID: certificate.CertificateID,
		EventID:       certificate.EventID,
		UserID:        certificate.UserID,
		Type:          string(certificate.Type),
		Status:        string(certificate.Status),
	}
	if err := s.publisher.Publish(ctx, events.TopicCertificates, events.NewEvent(eventType, payload)); err != nil {
		s.logger.Error("Failed to publish certificate event",
			"error", err,
			"certificate_id", certificate.CertificateID,
			"event_type", eventType)
	}
}

// notifyRecipient is best-effort; failures are logged only.
func (s *certificateService) notifyRecipient(ctx context.Context, certificate *models.Certificate, eventTitle string) {
	notification := &models.Notification{
		UserID:   certificate.UserID,
		Type:     models.NotificationCertificateIssued,
		Title:    "Certificate issued",
		Message:  fmt.Sprintf("Your %s certificate for %q is ready.", certificate.Type, eventTitle),
		Priority: models.PriorityNormal,
		EventID:  &certificate.EventID,
	}
	if err := s.repo.Notification().Create(ctx, s.db, notification); err != nil {
		s.logger.Error("Failed to create notification",
			"error", err,
			"user_id", certificate.UserID,
			"certificate_id", certificate.CertificateID)
	}
}
