package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/validator"
)

// memoryStorage is an in-memory object store for tests.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (m *memoryStorage) EnsureBucket(ctx context.Context) error { return nil }

func (m *memoryStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) Bucket() string { return "test-bucket" }

func newTestCertificateService(repo *fakeRepository, store *memoryStorage, clk *fixedClock) *certificateService {
	return &certificateService{
		repo:        repo,
		logger:      testLogger(),
		validator:   validator.New(),
		auth:        newAuthorizer(repo, nil),
		storage:     store,
		frontendURL: "http://localhost:3000",
		clock:       clk,
	}
}

// seedCheckedInRegistration builds a checked-in registration ready for
// certificate issuance.
func seedCheckedInRegistration(t *testing.T, repo *fakeRepository) *models.Registration {
	t.Helper()
	ctx := context.Background()
	seedUser(t, repo, "student-1", models.RoleStudent)
	seedUser(t, repo, "organizer-1", models.RoleOrganizer)
	event := seedEvent(t, repo, nil)

	checkedInAt := testBase.Add(48 * time.Hour)
	registration := &models.Registration{
		EventID:         event.ID,
		UserID:          "student-1",
		Status:          models.RegistrationCheckedIn,
		CheckedIn:       true,
		CheckedInAt:     &checkedInAt,
		CheckInMethodAt: models.CheckInManual,
	}
	if err := repo.Registration().Create(ctx, nil, registration); err != nil {
		t.Fatalf("failed to seed registration: %v", err)
	}
	return registration
}

func TestCertificateService_Generate(t *testing.T) {
	ctx := context.Background()
	organizer := Actor{UserID: "organizer-1", Role: models.RoleOrganizer}

	t.Run("issues participation certificate with artifact and points", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		registration := seedCheckedInRegistration(t, repo)

		certificate, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertParticipation,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if certificate.Status != models.CertificateActive {
			t.Errorf("expected active status, got %s", certificate.Status)
		}
		if certificate.CertificateID == "" || certificate.VerificationCode == "" {
			t.Error("expected certificate and verification identifiers")
		}
		if _, ok := store.objects[certificate.ArtifactPath]; !ok {
			t.Errorf("expected artifact at %s", certificate.ArtifactPath)
		}

		user, _ := repo.User().GetByID(ctx, nil, "student-1")
		if user.Points != models.CertificatePoints[models.CertParticipation] {
			t.Errorf("expected %d points, got %d", models.CertificatePoints[models.CertParticipation], user.Points)
		}

		stamped, _ := repo.Registration().GetByID(ctx, nil, registration.ID)
		if !stamped.CertificateIssued || stamped.Status != models.RegistrationCompleted {
			t.Errorf("expected stamped completed registration, got issued=%v status=%s",
				stamped.CertificateIssued, stamped.Status)
		}
	})

	t.Run("duplicate type for the same registration is rejected", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		registration := seedCheckedInRegistration(t, repo)
		req := &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertParticipation,
		}

		if _, err := svc.Generate(ctx, organizer, req); err != nil {
			t.Fatalf("first Generate failed: %v", err)
		}
		_, err := svc.Generate(ctx, organizer, req)
		if !errors.Is(err, ErrCertificateExists) {
			t.Errorf("expected ErrCertificateExists, got %v", err)
		}

		// A different type for the same registration is allowed
		if _, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertAppreciation,
		}); err != nil {
			t.Errorf("different type should issue, got %v", err)
		}
	})

	t.Run("registration without check-in can still be issued", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		seedUser(t, repo, "student-1", models.RoleStudent)
		seedUser(t, repo, "organizer-1", models.RoleOrganizer)
		event := seedEvent(t, repo, nil)

		registration := &models.Registration{
			EventID: event.ID,
			UserID:  "student-1",
			Status:  models.RegistrationConfirmed,
		}
		if err := repo.Registration().Create(ctx, nil, registration); err != nil {
			t.Fatalf("failed to seed registration: %v", err)
		}

		certificate, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertParticipation,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if certificate.Status != models.CertificateActive {
			t.Errorf("expected active status, got %s", certificate.Status)
		}

		// The eligibility stamp lands, but only a checked-in registration
		// moves to completed
		stamped, _ := repo.Registration().GetByID(ctx, nil, registration.ID)
		if !stamped.CertificateIssued {
			t.Error("expected certificate stamp on registration")
		}
		if stamped.Status != models.RegistrationConfirmed {
			t.Errorf("expected status to stay confirmed, got %s", stamped.Status)
		}
	})

	t.Run("cancelled registration is not eligible", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		seedUser(t, repo, "student-1", models.RoleStudent)
		seedUser(t, repo, "organizer-1", models.RoleOrganizer)
		event := seedEvent(t, repo, nil)

		registration := &models.Registration{
			EventID: event.ID,
			UserID:  "student-1",
			Status:  models.RegistrationCancelled,
		}
		if err := repo.Registration().Create(ctx, nil, registration); err != nil {
			t.Fatalf("failed to seed registration: %v", err)
		}

		_, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertParticipation,
		})
		if !errors.Is(err, ErrNotEligible) {
			t.Errorf("expected ErrNotEligible, got %v", err)
		}
	})

	t.Run("winner certificate requires a position", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		registration := seedCheckedInRegistration(t, repo)

		_, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertWinner,
		})
		if !errors.Is(err, ErrInvalidCertType) {
			t.Errorf("expected ErrInvalidCertType, got %v", err)
		}
	})

	t.Run("achievement certificate requires a title and score", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		registration := seedCheckedInRegistration(t, repo)

		_, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertAchievement,
		})
		if !errors.Is(err, ErrInvalidCertType) {
			t.Errorf("expected ErrInvalidCertType, got %v", err)
		}

		score := 92.5
		certificate, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertAchievement,
			Title:          "Best Project",
			Score:          &score,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if certificate.Title != "Best Project" {
			t.Errorf("expected title on certificate, got %q", certificate.Title)
		}
		if certificate.Score == nil || *certificate.Score != score {
			t.Errorf("expected score %v on certificate, got %v", score, certificate.Score)
		}
	})

	t.Run("winner certificate grants the badge once", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		registration := seedCheckedInRegistration(t, repo)

		certificate, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertWinner,
			Position:       "1st Place",
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if certificate.Position != "1st Place" {
			t.Errorf("expected position on certificate, got %s", certificate.Position)
		}

		user, _ := repo.User().GetByID(ctx, nil, "student-1")
		if len(user.Badges) != 1 || user.Badges[0].Name != models.WinnerBadgeName {
			t.Errorf("expected one winner badge, got %+v", user.Badges)
		}
		if user.Points != models.CertificatePoints[models.CertWinner] {
			t.Errorf("expected %d points, got %d", models.CertificatePoints[models.CertWinner], user.Points)
		}

		// Winner on a second event must not duplicate the badge
		event2 := seedEvent(t, repo, nil)
		checkedInAt := testBase.Add(48 * time.Hour)
		registration2 := &models.Registration{
			EventID:     event2.ID,
			UserID:      "student-1",
			Status:      models.RegistrationCheckedIn,
			CheckedIn:   true,
			CheckedInAt: &checkedInAt,
		}
		if err := repo.Registration().Create(ctx, nil, registration2); err != nil {
			t.Fatalf("failed to seed second registration: %v", err)
		}
		if _, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration2.ID,
			Type:           models.CertWinner,
			Position:       "1st Place",
		}); err != nil {
			t.Fatalf("second winner Generate failed: %v", err)
		}

		user, _ = repo.User().GetByID(ctx, nil, "student-1")
		if len(user.Badges) != 1 {
			t.Errorf("winner badge duplicated: %+v", user.Badges)
		}
	})

	t.Run("non-organizer cannot issue", func(t *testing.T) {
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		registration := seedCheckedInRegistration(t, repo)
		seedUser(t, repo, "student-2", models.RoleStudent)

		_, err := svc.Generate(ctx, Actor{UserID: "student-2", Role: models.RoleStudent},
			&validator.CertificateGenerateRequest{
				RegistrationID: registration.ID,
				Type:           models.CertParticipation,
			})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestCertificateService_VerifyAndRevoke(t *testing.T) {
	ctx := context.Background()
	organizer := Actor{UserID: "organizer-1", Role: models.RoleOrganizer}

	issue := func(t *testing.T) (*fakeRepository, *certificateService, *models.Certificate) {
		t.Helper()
		repo := newFakeRepository()
		store := newMemoryStorage()
		svc := newTestCertificateService(repo, store, &fixedClock{now: testBase.Add(73 * time.Hour)})
		registration := seedCheckedInRegistration(t, repo)
		certificate, err := svc.Generate(ctx, organizer, &validator.CertificateGenerateRequest{
			RegistrationID: registration.ID,
			Type:           models.CertCompletion,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		return repo, svc, certificate
	}

	t.Run("verification by code returns issuance facts", func(t *testing.T) {
		_, svc, certificate := issue(t)

		result, err := svc.Verify(ctx, certificate.VerificationCode)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if !result.Valid {
			t.Error("expected valid certificate")
		}
		if result.CertificateID != certificate.CertificateID {
			t.Errorf("expected certificate id %s, got %s", certificate.CertificateID, result.CertificateID)
		}
		if result.RecipientName != "User student-1" {
			t.Errorf("unexpected recipient name: %s", result.RecipientName)
		}
		if result.EventTitle != "Test Event" {
			t.Errorf("unexpected event title: %s", result.EventTitle)
		}
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		_, svc, _ := issue(t)
		_, err := svc.Verify(ctx, "no-such-code")
		if !errors.Is(err, ErrCertificateNotFound) {
			t.Errorf("expected ErrCertificateNotFound, got %v", err)
		}
	})

	t.Run("revocation is admin-only and one-way", func(t *testing.T) {
		_, svc, certificate := issue(t)
		admin := Actor{UserID: "admin-1", Role: models.RoleAdmin}

		if err := svc.Revoke(ctx, organizer, certificate.ID); !IsPermissionError(err) {
			t.Errorf("expected permission error for organizer, got %v", err)
		}

		if err := svc.Revoke(ctx, admin, certificate.ID); err != nil {
			t.Fatalf("Revoke failed: %v", err)
		}

		result, err := svc.Verify(ctx, certificate.VerificationCode)
		if err != nil {
			t.Fatalf("Verify after revoke failed: %v", err)
		}
		if result.Valid {
			t.Error("revoked certificate must not verify as valid")
		}
		if result.Status != models.CertificateRevoked {
			t.Errorf("expected revoked status, got %s", result.Status)
		}

		if err := svc.Revoke(ctx, admin, certificate.ID); !errors.Is(err, ErrCertificateRevoked) {
			t.Errorf("expected ErrCertificateRevoked on second revoke, got %v", err)
		}
	})

	t.Run("revoked certificate cannot be downloaded", func(t *testing.T) {
		repo, svc, certificate := issue(t)
		admin := Actor{UserID: "admin-1", Role: models.RoleAdmin}
		owner := Actor{UserID: "student-1", Role: models.RoleStudent}

		pdf, filename, err := svc.Download(ctx, owner, certificate.ID)
		if err != nil {
			t.Fatalf("Download failed: %v", err)
		}
		if len(pdf) == 0 {
			t.Error("expected pdf bytes")
		}
		if filename != fmt.Sprintf("certificate-%s.pdf", certificate.CertificateID) {
			t.Errorf("unexpected filename: %s", filename)
		}

		stored, _ := repo.Certificate().GetByID(ctx, nil, certificate.ID)
		if stored.DownloadCount != 1 {
			t.Errorf("expected download count 1, got %d", stored.DownloadCount)
		}

		if err := svc.Revoke(ctx, admin, certificate.ID); err != nil {
			t.Fatalf("Revoke failed: %v", err)
		}
		if _, _, err := svc.Download(ctx, owner, certificate.ID); !errors.Is(err, ErrCertificateRevoked) {
			t.Errorf("expected ErrCertificateRevoked, got %v", err)
		}
	})
}
