// Package qr encodes and validates the scannable payloads used for event
// check-in, certificate verification, and team joining.
//
// Check-in payloads are plain JSON, not signed. Validation gives
// tamper-evidence only within the freshness window, not tamper-proofing.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// CheckInType is the type discriminator carried by check-in payloads.
const CheckInType = "event-checkin"

// ValidityWindow is the maximum payload age accepted at check-in.
const ValidityWindow = 24 * time.Hour

const pngSize = 256

// CheckInPayload is the JSON structure embedded in a check-in code.
type CheckInPayload struct {
	Type           string `json:"type"`
	RegistrationID uint   `json:"registrationId"`
	EventID        uint   `json:"eventId"`
	Timestamp      int64  `json:"timestamp"`
}

// NewCheckInPayload builds a payload issued now.
func NewCheckInPayload(registrationID, eventID uint) CheckInPayload {
	return CheckInPayload{
		Type:           CheckInType,
		RegistrationID: registrationID,
		EventID:        eventID,
		Timestamp:      time.Now().UnixMilli(),
	}
}

// EncodeCheckIn renders the payload into a PNG and returns it as a base64
// data URL suitable for direct embedding in API responses.
func EncodeCheckIn(payload CheckInPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal check-in payload: %w", err)
	}
	return encodePNG(string(data))
}

// EncodeURL renders a bare URL (certificate verification, team join) into a
// PNG data URL.
func EncodeURL(rawURL string) (string, error) {
	return encodePNG(rawURL)
}

func encodePNG(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, pngSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr image: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// VerificationURL builds the public certificate verification link.
func VerificationURL(frontendURL, code string) string {
	return fmt.Sprintf("%s/verify-certificate/%s", strings.TrimRight(frontendURL, "/"), code)
}

// TeamJoinURL builds the team join link carried in team invitation codes.
func TeamJoinURL(frontendURL, teamCode string) string {
	return fmt.Sprintf("%s/join-team/%s", strings.TrimRight(frontendURL, "/"), teamCode)
}

// Decoded is the result of decoding scanned data: either a check-in payload
// or a bare URL.
type Decoded struct {
	CheckIn *CheckInPayload
	URL     *url.URL
}

// Decode parses scanned data, trying JSON first and falling back to URL.
func Decode(data string) (*Decoded, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, fmt.Errorf("empty qr data")
	}

	var payload CheckInPayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && payload.Type != "" {
		return &Decoded{CheckIn: &payload}, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" {
		return nil, fmt.Errorf("qr data is neither valid JSON nor a URL")
	}
	return &Decoded{URL: parsed}, nil
}

// ValidationResult carries the outcome of a check-in payload validation. When
// Valid is false, Reason is a distinct human-readable rejection.
type ValidationResult struct {
	Valid  bool
	Reason string
}

// ValidateCheckIn checks a scanned payload against the expected registration.
// Checks run in order: type tag, event match, freshness, registration match.
func ValidateCheckIn(data string, eventID, registrationID uint, now time.Time) ValidationResult {
	decoded, err := Decode(data)
	if err != nil {
		return ValidationResult{Reason: "malformed QR code data"}
	}
	if decoded.CheckIn == nil {
		return ValidationResult{Reason: "malformed QR code data"}
	}

	payload := decoded.CheckIn
	if payload.Type != CheckInType {
		return ValidationResult{Reason: "invalid QR code type"}
	}
	if payload.EventID != eventID {
		return ValidationResult{Reason: "QR code is for a different event"}
	}

	issued := time.UnixMilli(payload.Timestamp)
	if now.Sub(issued) > ValidityWindow {
		return ValidationResult{Reason: "QR code has expired"}
	}
	if payload.RegistrationID != registrationID {
		return ValidationResult{Reason: "QR code does not match this registration"}
	}

	return ValidationResult{Valid: true}
}
