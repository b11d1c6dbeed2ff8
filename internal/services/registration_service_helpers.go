package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/qr"
	"github.com/campus-events/event-service/internal/repositories"
)

// Point awards for lifecycle milestones. Awards are never reversed; a
// cancelled registration keeps its points as a participation record.
const (
	PointsRegistration = 10
	PointsCheckIn      = 20
	PointsFeedback     = 5
)

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

const teamCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateTeamCode derives a code from the current timestamp plus a random
// suffix. Unique enough in practice; the lead lookup scopes it per event.
func generateTeamCode(now time.Time) string {
	var b strings.Builder
	b.WriteString("TEAM-")
	b.WriteString(strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)))
	b.WriteByte('-')
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(teamCodeAlphabet))))
		if err != nil {
			// crypto/rand failure is effectively fatal elsewhere; fall back to
			// a timestamp-derived character rather than panic here.
			b.WriteByte(teamCodeAlphabet[int(now.UnixNano())%len(teamCodeAlphabet)])
			continue
		}
		b.WriteByte(teamCodeAlphabet[n.Int64()])
	}
	return b.String()
}

// attachCheckInToken generates and stores the scannable token. Best-effort:
// the registration stands without it.
func (s *registrationService) attachCheckInToken(ctx context.Context, registration *models.Registration) {
	token, err := qr.EncodeCheckIn(qr.NewCheckInPayload(registration.ID, registration.EventID))
	if err != nil {
		s.logger.Error("Failed to generate check-in token",
			"error", err,
			"registration_id", registration.ID)
		return
	}

	registration.CheckInToken = token
	if err := s.repo.Registration().Update(ctx, s.db, registration); err != nil {
		s.logger.Error("Failed to store check-in token",
			"error", err,
			"registration_id", registration.ID)
	}
}

// recomputeAttendance rederives the attendance figures from the session rows.
func recomputeAttendance(registration *models.Registration, sessions []*models.SessionAttendance) {
	attended := 0
	for _, session := range sessions {
		if session.Attended {
			attended++
		}
	}
	registration.AttendedSessions = attended
	registration.TotalSessions = len(sessions)
	if registration.TotalSessions > 0 {
		registration.AttendancePercentage = float64(attended) / float64(registration.TotalSessions) * 100
	} else {
		registration.AttendancePercentage = 0
	}
}

// loadRegistration maps repository not-found onto the service sentinel.
func (s *registrationService) loadRegistration(ctx context.Context, id uint) (*models.Registration, error) {
	registration, err := s.repo.Registration().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}
	return registration, nil
}

func (s *registrationService) loadEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.repo.Event().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}
