package validator

import (
	"testing"
	"time"

	"github.com/campus-events/event-service/internal/models"
)

func TestValidateEventTransition(t *testing.T) {
	bv := NewBusinessValidator()

	cases := []struct {
		name    string
		current models.EventStatus
		next    models.EventStatus
		allowed bool
	}{
		{"draft submits", models.EventDraft, models.EventPending, true},
		{"pending approves", models.EventPending, models.EventApproved, true},
		{"pending rejects", models.EventPending, models.EventRejected, true},
		{"rejected resubmits", models.EventRejected, models.EventPending, true},
		{"approved activates", models.EventApproved, models.EventActive, true},
		{"active completes", models.EventActive, models.EventCompleted, true},
		{"completed is terminal", models.EventCompleted, models.EventCancelled, false},
		{"cancelled is terminal", models.EventCancelled, models.EventPending, false},
		{"approved cannot reject", models.EventApproved, models.EventRejected, false},
		{"draft cannot approve", models.EventDraft, models.EventApproved, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verrs := bv.ValidateEventTransition(tc.current, tc.next)
			if tc.allowed && verrs.HasErrors() {
				t.Errorf("expected %s -> %s allowed, got %v", tc.current, tc.next, verrs)
			}
			if !tc.allowed && !verrs.HasErrors() {
				t.Errorf("expected %s -> %s rejected", tc.current, tc.next)
			}
		})
	}
}

func TestValidateRegistrationTransition(t *testing.T) {
	bv := NewBusinessValidator()

	cases := []struct {
		name    string
		current models.RegistrationStatus
		next    models.RegistrationStatus
		allowed bool
	}{
		{"confirmed checks in", models.RegistrationConfirmed, models.RegistrationCheckedIn, true},
		{"checked-in completes", models.RegistrationCheckedIn, models.RegistrationCompleted, true},
		{"confirmed cancels", models.RegistrationConfirmed, models.RegistrationCancelled, true},
		{"waitlisted confirms", models.RegistrationWaitlisted, models.RegistrationConfirmed, true},
		{"cancelled is terminal", models.RegistrationCancelled, models.RegistrationConfirmed, false},
		{"completed is terminal", models.RegistrationCompleted, models.RegistrationCheckedIn, false},
		{"confirmed cannot complete directly", models.RegistrationConfirmed, models.RegistrationCompleted, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verrs := bv.ValidateRegistrationTransition(tc.current, tc.next)
			if tc.allowed && verrs.HasErrors() {
				t.Errorf("expected %s -> %s allowed, got %v", tc.current, tc.next, verrs)
			}
			if !tc.allowed && !verrs.HasErrors() {
				t.Errorf("expected %s -> %s rejected", tc.current, tc.next)
			}
		})
	}
}

func TestValidateEventCreate_Window(t *testing.T) {
	bv := NewBusinessValidator()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	valid := func() *EventCreateRequest {
		return &EventCreateRequest{
			Title:                "Workshop",
			Category:             models.CategoryWorkshop,
			StartDate:            now.Add(48 * time.Hour),
			EndDate:              now.Add(72 * time.Hour),
			RegistrationDeadline: now.Add(24 * time.Hour),
		}
	}

	if verrs := bv.ValidateEventCreate(valid(), now); verrs.HasErrors() {
		t.Fatalf("valid request rejected: %v", verrs)
	}

	t.Run("end before start names the field", func(t *testing.T) {
		req := valid()
		req.EndDate = req.StartDate.Add(-time.Hour)
		verrs := bv.ValidateEventCreate(req, now)
		if !verrs.HasErrors() {
			t.Fatal("expected validation error")
		}
		found := false
		for _, verr := range verrs {
			if verr.Field == "end_date" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected end_date error, got %v", verrs)
		}
	})

	t.Run("deadline after start is rejected", func(t *testing.T) {
		req := valid()
		req.RegistrationDeadline = req.StartDate.Add(time.Hour)
		if verrs := bv.ValidateEventCreate(req, now); !verrs.HasErrors() {
			t.Error("expected validation error")
		}
	})

	t.Run("team max below min is rejected", func(t *testing.T) {
		req := valid()
		req.IsTeamEvent = true
		req.TeamSizeMin = 3
		req.TeamSizeMax = 2
		if verrs := bv.ValidateEventCreate(req, now); !verrs.HasErrors() {
			t.Error("expected validation error")
		}
	})
}
