package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campus-events/event-service/internal/events"
	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/validator"
)

func newTestEventService(repo *fakeRepository, publisher events.EventPublisher, clk *fixedClock) *eventService {
	return &eventService{
		repo:      repo,
		logger:    testLogger(),
		validator: validator.New(),
		auth:      newAuthorizer(repo, nil),
		publisher: publisher,
		clock:     clk,
	}
}

func validCreateRequest() *validator.EventCreateRequest {
	return &validator.EventCreateRequest{
		Title:                "Robotics Workshop",
		Category:             models.CategoryWorkshop,
		StartDate:            testBase.Add(48 * time.Hour),
		EndDate:              testBase.Add(72 * time.Hour),
		RegistrationDeadline: testBase.Add(24 * time.Hour),
	}
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()
	organizer := Actor{UserID: "organizer-1", Role: models.RoleOrganizer}

	t.Run("organizer creates a pending event", func(t *testing.T) {
		svc := newTestEventService(newFakeRepository(), nil, &fixedClock{now: testBase})

		event, err := svc.Create(ctx, organizer, validCreateRequest())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if event.Status != models.EventPending {
			t.Errorf("expected pending status, got %s", event.Status)
		}
		if event.OrganizerID != "organizer-1" {
			t.Errorf("expected organizer ownership, got %s", event.OrganizerID)
		}
		if event.Visibility != models.VisibilityPublic {
			t.Errorf("expected public default, got %s", event.Visibility)
		}
		if event.TeamSizeMin != 1 || event.TeamSizeMax != 1 {
			t.Errorf("non-team event must pin team sizes to 1, got %d/%d", event.TeamSizeMin, event.TeamSizeMax)
		}
	})

	t.Run("admin-created events skip the review queue", func(t *testing.T) {
		svc := newTestEventService(newFakeRepository(), nil, &fixedClock{now: testBase})

		event, err := svc.Create(ctx, Actor{UserID: "admin-1", Role: models.RoleAdmin}, validCreateRequest())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if event.Status != models.EventApproved {
			t.Errorf("expected approved status, got %s", event.Status)
		}
	})

	t.Run("students cannot create events", func(t *testing.T) {
		svc := newTestEventService(newFakeRepository(), nil, &fixedClock{now: testBase})
		_, err := svc.Create(ctx, Actor{UserID: "student-1", Role: models.RoleStudent}, validCreateRequest())
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("invalid time window is rejected", func(t *testing.T) {
		svc := newTestEventService(newFakeRepository(), nil, &fixedClock{now: testBase})

		cases := []struct {
			name   string
			mutate func(*validator.EventCreateRequest)
		}{
			{"end before start", func(r *validator.EventCreateRequest) {
				r.EndDate = r.StartDate.Add(-time.Hour)
			}},
			{"deadline after start", func(r *validator.EventCreateRequest) {
				r.RegistrationDeadline = r.StartDate.Add(time.Hour)
			}},
			{"start in the past", func(r *validator.EventCreateRequest) {
				r.StartDate = testBase.Add(-48 * time.Hour)
				r.EndDate = testBase.Add(-24 * time.Hour)
				r.RegistrationDeadline = testBase.Add(-72 * time.Hour)
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validCreateRequest()
				tc.mutate(req)
				if _, err := svc.Create(ctx, organizer, req); err == nil {
					t.Error("expected validation error")
				}
			})
		}
	})

	t.Run("team size max below min is rejected", func(t *testing.T) {
		svc := newTestEventService(newFakeRepository(), nil, &fixedClock{now: testBase})
		req := validCreateRequest()
		req.IsTeamEvent = true
		req.TeamSizeMin = 4
		req.TeamSizeMax = 2
		if _, err := svc.Create(ctx, organizer, req); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestEventService_ApprovalWorkflow(t *testing.T) {
	ctx := context.Background()
	organizer := Actor{UserID: "organizer-1", Role: models.RoleOrganizer}
	admin := Actor{UserID: "admin-1", Role: models.RoleAdmin}

	setup := func(t *testing.T, publisher events.EventPublisher) (*fakeRepository, *eventService, *models.Event) {
		t.Helper()
		repo := newFakeRepository()
		svc := newTestEventService(repo, publisher, &fixedClock{now: testBase})
		seedUser(t, repo, "organizer-1", models.RoleOrganizer)
		event, err := svc.Create(ctx, organizer, validCreateRequest())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return repo, svc, event
	}

	t.Run("approval publishes and notifies the organizer", func(t *testing.T) {
		publisher := events.NewMockEventPublisher(testLogger())
		repo, svc, event := setup(t, publisher)

		if err := svc.Review(ctx, admin, event.ID, &validator.EventReviewRequest{Approve: true}); err != nil {
			t.Fatalf("Review failed: %v", err)
		}

		stored, _ := svc.GetByID(ctx, event.ID)
		if stored.Status != models.EventApproved {
			t.Errorf("expected approved, got %s", stored.Status)
		}

		published := publisher.GetPublishedEvents()
		if len(published) != 1 || published[0].Type != events.TypeEventApproved {
			t.Errorf("expected one approved event published, got %+v", published)
		}

		notifications, _, _ := repo.Notification().GetByUser(ctx, nil, "organizer-1", repositories.NotificationFilters{})
		if len(notifications) != 1 {
			t.Errorf("expected organizer notification, got %d", len(notifications))
		}
	})

	t.Run("rejection carries the reason and allows resubmission", func(t *testing.T) {
		repo, svc, event := setup(t, nil)

		if err := svc.Review(ctx, admin, event.ID, &validator.EventReviewRequest{
			Approve: false,
			Reason:  "clashes with exam week",
		}); err != nil {
			t.Fatalf("Review failed: %v", err)
		}
		stored, _ := svc.GetByID(ctx, event.ID)
		if stored.Status != models.EventRejected {
			t.Errorf("expected rejected, got %s", stored.Status)
		}

		notifications, _, _ := repo.Notification().GetByUser(ctx, nil, "organizer-1", repositories.NotificationFilters{})
		if len(notifications) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(notifications))
		}

		// Rejected events can go back into the review queue
		if err := svc.Submit(ctx, organizer, event.ID); err != nil {
			t.Fatalf("Submit after rejection failed: %v", err)
		}
		stored, _ = svc.GetByID(ctx, event.ID)
		if stored.Status != models.EventPending {
			t.Errorf("expected pending after resubmit, got %s", stored.Status)
		}
	})

	t.Run("organizers cannot review", func(t *testing.T) {
		_, svc, event := setup(t, nil)
		err := svc.Review(ctx, organizer, event.ID, &validator.EventReviewRequest{Approve: true})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("terminal states reject further transitions", func(t *testing.T) {
		_, svc, event := setup(t, nil)

		if err := svc.Cancel(ctx, organizer, event.ID); err != nil {
			t.Fatalf("Cancel failed: %v", err)
		}
		if err := svc.Review(ctx, admin, event.ID, &validator.EventReviewRequest{Approve: true}); err == nil {
			t.Error("expected transition error for cancelled event")
		}
		if err := svc.Submit(ctx, organizer, event.ID); err == nil {
			t.Error("expected transition error resubmitting a cancelled event")
		}
	})

	t.Run("approved event completes after its start", func(t *testing.T) {
		_, svc, event := setup(t, nil)
		if err := svc.Review(ctx, admin, event.ID, &validator.EventReviewRequest{Approve: true}); err != nil {
			t.Fatalf("Review failed: %v", err)
		}

		// Before the event starts, completion is not a legal move
		if err := svc.Complete(ctx, organizer, event.ID); err == nil {
			t.Error("expected transition error before start")
		}

		svc.clock = &fixedClock{now: testBase.Add(73 * time.Hour)}
		if err := svc.Complete(ctx, organizer, event.ID); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		stored, _ := svc.GetByID(ctx, event.ID)
		if stored.Status != models.EventCompleted {
			t.Errorf("expected completed, got %s", stored.Status)
		}
	})
}

func TestEventService_UpdateAndCoOrganizers(t *testing.T) {
	ctx := context.Background()
	organizer := Actor{UserID: "organizer-1", Role: models.RoleOrganizer}

	setup := func(t *testing.T) (*fakeRepository, *eventService, *models.Event) {
		t.Helper()
		repo := newFakeRepository()
		svc := newTestEventService(repo, nil, &fixedClock{now: testBase})
		seedUser(t, repo, "organizer-1", models.RoleOrganizer)
		event, err := svc.Create(ctx, organizer, validCreateRequest())
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		return repo, svc, event
	}

	t.Run("only organizers of the event may update it", func(t *testing.T) {
		repo, svc, event := setup(t)
		seedUser(t, repo, "organizer-2", models.RoleOrganizer)
		title := "Renamed"

		_, err := svc.Update(ctx, Actor{UserID: "organizer-2", Role: models.RoleOrganizer},
			event.ID, &validator.EventUpdateRequest{Title: &title})
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}

		updated, err := svc.Update(ctx, organizer, event.ID, &validator.EventUpdateRequest{Title: &title})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if updated.Title != "Renamed" {
			t.Errorf("expected renamed event, got %s", updated.Title)
		}
	})

	t.Run("update cannot break the time window", func(t *testing.T) {
		_, svc, event := setup(t)
		badEnd := event.StartDate.Add(-time.Hour)
		if _, err := svc.Update(ctx, organizer, event.ID, &validator.EventUpdateRequest{EndDate: &badEnd}); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("co-organizer gains update rights", func(t *testing.T) {
		repo, svc, event := setup(t)
		seedUser(t, repo, "organizer-2", models.RoleOrganizer)
		co := Actor{UserID: "organizer-2", Role: models.RoleOrganizer}

		if err := svc.AddCoOrganizer(ctx, organizer, event.ID, "organizer-2"); err != nil {
			t.Fatalf("AddCoOrganizer failed: %v", err)
		}

		title := "Co-edited"
		if _, err := svc.Update(ctx, co, event.ID, &validator.EventUpdateRequest{Title: &title}); err != nil {
			t.Errorf("co-organizer update failed: %v", err)
		}
	})

	t.Run("unknown co-organizer user is rejected", func(t *testing.T) {
		_, svc, event := setup(t)
		if err := svc.AddCoOrganizer(ctx, organizer, event.ID, "ghost"); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
