package certificates

import (
	"bytes"
	"testing"
	"time"

	"github.com/campus-events/event-service/internal/models"
)

func validInput() RenderInput {
	return RenderInput{
		RecipientName:   "Jordan Nguyen",
		EventTitle:      "Autumn Robotics Workshop",
		EventDate:       time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Type:            models.CertParticipation,
		CertificateID:   "CERT-2026-0001",
		VerificationURL: "https://events.example.edu/verify-certificate/abc123",
		IssuedAt:        time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderInputValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := validInput()
		if err := in.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing recipient", func(t *testing.T) {
		in := validInput()
		in.RecipientName = "  "
		if err := in.Validate(); err == nil {
			t.Error("expected error for missing recipient")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		in := validInput()
		in.Type = "diploma"
		if err := in.Validate(); err == nil {
			t.Error("expected error for unknown type")
		}
	})

	t.Run("winner requires position", func(t *testing.T) {
		in := validInput()
		in.Type = models.CertWinner
		if err := in.Validate(); err == nil {
			t.Error("expected error for winner without position")
		}

		in.Position = "1st Place"
		if err := in.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("achievement requires title and score", func(t *testing.T) {
		in := validInput()
		in.Type = models.CertAchievement
		if err := in.Validate(); err == nil {
			t.Error("expected error for achievement without title and score")
		}

		in.Title = "Best Project"
		if err := in.Validate(); err == nil {
			t.Error("expected error for achievement without score")
		}

		score := 92.5
		in.Score = &score
		if err := in.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing verification url", func(t *testing.T) {
		in := validInput()
		in.VerificationURL = ""
		if err := in.Validate(); err == nil {
			t.Error("expected error for missing verification url")
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("produces a pdf", func(t *testing.T) {
		data, err := Render(validInput())
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Errorf("output does not look like a PDF, starts with %q", data[:8])
		}
	})

	t.Run("winner with position and score", func(t *testing.T) {
		in := validInput()
		in.Type = models.CertWinner
		in.Position = "1st Place"
		score := 97.5
		in.Score = &score

		data, err := Render(in)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if len(data) == 0 {
			t.Error("empty output")
		}
	})

	t.Run("rejects invalid input before drawing", func(t *testing.T) {
		in := validInput()
		in.EventTitle = ""
		if _, err := Render(in); err == nil {
			t.Error("expected validation error")
		}
	})
}
