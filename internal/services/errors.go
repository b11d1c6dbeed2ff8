package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	// Not found
	ErrUserNotFound         = errors.New("user not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrCertificateNotFound  = errors.New("certificate not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrApplicationNotFound  = errors.New("application not found")

	// Identity
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Registration lifecycle state conflicts
	ErrRegistrationClosed       = errors.New("registration is closed for this event")
	ErrRegistrationExists       = errors.New("already registered for this event")
	ErrEventFull                = errors.New("event is full")
	ErrAlreadyCheckedIn         = errors.New("already checked in")
	ErrRegistrationCancelled    = errors.New("registration is cancelled")
	ErrRegistrationNotActive    = errors.New("registration is not active")
	ErrTeamFull                 = errors.New("team is full")
	ErrNotTeamEvent             = errors.New("event is not a team event")
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted")
	ErrFeedbackTooEarly         = errors.New("feedback opens after the event ends")
	ErrEventNotApproved         = errors.New("event is not approved")
	ErrCancellationClosed       = errors.New("cancellation window has closed")

	// ErrQRRejected wraps the distinct QR validation reasons; the wrapped
	// message carries the specific rejection.
	ErrQRRejected = errors.New("qr validation failed")

	// Certificates
	ErrCertificateExists   = errors.New("certificate of this type already issued for this registration")
	ErrNotEligible         = errors.New("registration is not eligible for a certificate")
	ErrCertificateRevoked  = errors.New("certificate has been revoked")
	ErrInvalidCertType     = errors.New("invalid certificate type")
	ErrArtifactUnavailable = errors.New("certificate artifact is unavailable")

	// Forum
	ErrAlreadyApplied = errors.New("already applied to this team")
)

// PermissionError carries who tried what on which resource.
type PermissionError struct {
	UserID     string
	ResourceID interface{}
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s (%v): %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// NewPermissionError creates a permission error.
func NewPermissionError(userID string, resourceID interface{}, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsPermissionError reports whether err is a permission denial.
func IsPermissionError(err error) bool {
	var perr *PermissionError
	return errors.As(err, &perr)
}

// IsStateConflictError reports whether err is one of the lifecycle
// state-conflict rejections. These map to HTTP 409.
func IsStateConflictError(err error) bool {
	for _, conflict := range []error{
		ErrRegistrationClosed,
		ErrRegistrationExists,
		ErrEventFull,
		ErrAlreadyCheckedIn,
		ErrRegistrationCancelled,
		ErrRegistrationNotActive,
		ErrTeamFull,
		ErrNotTeamEvent,
		ErrFeedbackAlreadySubmitted,
		ErrFeedbackTooEarly,
		ErrEventNotApproved,
		ErrCancellationClosed,
		ErrQRRejected,
		ErrCertificateExists,
		ErrNotEligible,
		ErrCertificateRevoked,
		ErrEmailTaken,
		ErrAlreadyApplied,
	} {
		if errors.Is(err, conflict) {
			return true
		}
	}
	return false
}

// IsNotFoundError reports whether err is one of the not-found sentinels.
func IsNotFoundError(err error) bool {
	for _, notFound := range []error{
		ErrUserNotFound,
		ErrEventNotFound,
		ErrRegistrationNotFound,
		ErrCertificateNotFound,
		ErrTeamNotFound,
		ErrPostNotFound,
		ErrApplicationNotFound,
	} {
		if errors.Is(err, notFound) {
			return true
		}
	}
	return false
}
