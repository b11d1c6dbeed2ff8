package qr

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestEncodeCheckIn(t *testing.T) {
	payload := NewCheckInPayload(42, 7)

	dataURL, err := EncodeCheckIn(payload)
	if err != nil {
		t.Fatalf("EncodeCheckIn failed: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Errorf("expected PNG data URL, got prefix %q", dataURL[:30])
	}
}

func TestDecode(t *testing.T) {
	t.Run("json payload", func(t *testing.T) {
		payload := CheckInPayload{
			Type:           CheckInType,
			RegistrationID: 1,
			EventID:        2,
			Timestamp:      time.Now().UnixMilli(),
		}
		data, _ := json.Marshal(payload)

		decoded, err := Decode(string(data))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.CheckIn == nil {
			t.Fatal("expected check-in payload")
		}
		if decoded.CheckIn.RegistrationID != 1 || decoded.CheckIn.EventID != 2 {
			t.Errorf("payload ids wrong: %+v", decoded.CheckIn)
		}
	})

	t.Run("url fallback", func(t *testing.T) {
		decoded, err := Decode("https://events.example.edu/verify-certificate/abc123")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.URL == nil {
			t.Fatal("expected URL")
		}
		if decoded.URL.Path != "/verify-certificate/abc123" {
			t.Errorf("unexpected path %q", decoded.URL.Path)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := Decode("%%%not a url or json%%%"); err == nil {
			t.Error("expected error for garbage input")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := Decode("   "); err == nil {
			t.Error("expected error for empty input")
		}
	})
}

func TestValidateCheckIn(t *testing.T) {
	now := time.Now()

	makeData := func(mutate func(*CheckInPayload)) string {
		payload := CheckInPayload{
			Type:           CheckInType,
			RegistrationID: 10,
			EventID:        5,
			Timestamp:      now.UnixMilli(),
		}
		if mutate != nil {
			mutate(&payload)
		}
		data, _ := json.Marshal(payload)
		return string(data)
	}

	t.Run("valid payload", func(t *testing.T) {
		result := ValidateCheckIn(makeData(nil), 5, 10, now)
		if !result.Valid {
			t.Errorf("expected valid, got reason %q", result.Reason)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		data := makeData(func(p *CheckInPayload) { p.Type = "certificate" })
		result := ValidateCheckIn(data, 5, 10, now)
		if result.Valid || result.Reason != "invalid QR code type" {
			t.Errorf("expected type rejection, got %+v", result)
		}
	})

	t.Run("wrong event", func(t *testing.T) {
		result := ValidateCheckIn(makeData(nil), 99, 10, now)
		if result.Valid || result.Reason != "QR code is for a different event" {
			t.Errorf("expected event rejection, got %+v", result)
		}
	})

	t.Run("expired", func(t *testing.T) {
		data := makeData(func(p *CheckInPayload) {
			p.Timestamp = now.Add(-25 * time.Hour).UnixMilli()
		})
		result := ValidateCheckIn(data, 5, 10, now)
		if result.Valid || result.Reason != "QR code has expired" {
			t.Errorf("expected expiry rejection, got %+v", result)
		}
	})

	t.Run("just inside window", func(t *testing.T) {
		data := makeData(func(p *CheckInPayload) {
			p.Timestamp = now.Add(-23 * time.Hour).UnixMilli()
		})
		result := ValidateCheckIn(data, 5, 10, now)
		if !result.Valid {
			t.Errorf("expected valid inside window, got reason %q", result.Reason)
		}
	})

	t.Run("wrong registration", func(t *testing.T) {
		result := ValidateCheckIn(makeData(nil), 5, 11, now)
		if result.Valid || result.Reason != "QR code does not match this registration" {
			t.Errorf("expected registration rejection, got %+v", result)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		result := ValidateCheckIn("{broken json", 5, 10, now)
		if result.Valid || result.Reason != "malformed QR code data" {
			t.Errorf("expected malformed rejection, got %+v", result)
		}
	})

	t.Run("url is not a check-in payload", func(t *testing.T) {
		result := ValidateCheckIn("https://events.example.edu/join-team/TEAM-X", 5, 10, now)
		if result.Valid || result.Reason != "malformed QR code data" {
			t.Errorf("expected malformed rejection, got %+v", result)
		}
	})
}

func TestVerificationURL(t *testing.T) {
	got := VerificationURL("https://events.example.edu/", "CODE123")
	want := "https://events.example.edu/verify-certificate/CODE123"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTeamJoinURL(t *testing.T) {
	got := TeamJoinURL("https://events.example.edu", "TEAM-ABC")
	want := "https://events.example.edu/join-team/TEAM-ABC"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
