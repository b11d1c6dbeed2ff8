package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/campus-events/event-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateEventCreate validates event creation business rules
func (bv *BusinessValidator) ValidateEventCreate(req *EventCreateRequest, now time.Time) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateEventWindow(req.StartDate, req.EndDate, req.RegistrationDeadline, now)...)

	if req.IsTeamEvent {
		min, max := req.TeamSizeMin, req.TeamSizeMax
		if min < 1 {
			min = 1
		}
		if max < min {
			errors = append(errors, ValidationError{
				Field:   "team_size_max",
				Message: "must be greater than or equal to team_size_min",
				Value:   req.TeamSizeMax,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// validateEventWindow enforces registration_deadline <= start_date < end_date.
func (bv *BusinessValidator) validateEventWindow(start, end, deadline time.Time, now time.Time) ValidationErrors {
	var errors ValidationErrors

	if !start.Before(end) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after start_date",
			Value:   end,
			Rule:    "business_logic",
		})
	}

	if deadline.After(start) {
		errors = append(errors, ValidationError{
			Field:   "registration_deadline",
			Message: "must not be after start_date",
			Value:   deadline,
			Rule:    "business_logic",
		})
	}

	if start.Before(now) {
		errors = append(errors, ValidationError{
			Field:   "start_date",
			Message: "must be in the future",
			Value:   start,
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateEventUpdate validates the resulting time window after applying an
// update to an existing event.
func (bv *BusinessValidator) ValidateEventUpdate(req *EventUpdateRequest, existing *models.Event) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	start := existing.StartDate
	end := existing.EndDate
	deadline := existing.RegistrationDeadline
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if req.RegistrationDeadline != nil {
		deadline = *req.RegistrationDeadline
	}

	if !start.Before(end) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "must be after start_date",
			Value:   end,
			Rule:    "business_logic",
		})
	}
	if deadline.After(start) {
		errors = append(errors, ValidationError{
			Field:   "registration_deadline",
			Message: "must not be after start_date",
			Value:   deadline,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registrationTransitions defines the allowed registration status moves.
// Cancelled and completed are terminal.
var registrationTransitions = map[models.RegistrationStatus][]models.RegistrationStatus{
	models.RegistrationPending:    {models.RegistrationConfirmed, models.RegistrationCancelled, models.RegistrationWaitlisted},
	models.RegistrationConfirmed:  {models.RegistrationCheckedIn, models.RegistrationCancelled},
	models.RegistrationWaitlisted: {models.RegistrationConfirmed, models.RegistrationCancelled},
	models.RegistrationCheckedIn:  {models.RegistrationCompleted, models.RegistrationCancelled},
	models.RegistrationCompleted:  {},
	models.RegistrationCancelled:  {},
}

// ValidateRegistrationTransition validates a registration status move.
func (bv *BusinessValidator) ValidateRegistrationTransition(current, next models.RegistrationStatus) ValidationErrors {
	for _, allowed := range registrationTransitions[current] {
		if next == allowed {
			return nil
		}
	}
	return ValidationErrors{{
		Field:   "status",
		Message: fmt.Sprintf("cannot transition from %s to %s", current, next),
		Value:   next,
		Rule:    "status_transition",
	}}
}

// eventTransitions defines the allowed event status moves through the
// approval workflow.
var eventTransitions = map[models.EventStatus][]models.EventStatus{
	models.EventDraft:     {models.EventPending, models.EventCancelled},
	models.EventPending:   {models.EventApproved, models.EventRejected, models.EventCancelled},
	models.EventApproved:  {models.EventActive, models.EventCancelled},
	models.EventRejected:  {models.EventPending},
	models.EventActive:    {models.EventCompleted, models.EventCancelled},
	models.EventCompleted: {},
	models.EventCancelled: {},
}

// ValidateEventTransition validates an event status move.
func (bv *BusinessValidator) ValidateEventTransition(current, next models.EventStatus) ValidationErrors {
	for _, allowed := range eventTransitions[current] {
		if next == allowed {
			return nil
		}
	}
	return ValidationErrors{{
		Field:   "status",
		Message: fmt.Sprintf("cannot transition from %s to %s", current, next),
		Value:   next,
		Rule:    "status_transition",
	}}
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Team code format: TEAM- prefix plus generated suffix
	bv.validate.RegisterValidation("team_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		return strings.HasPrefix(code, "TEAM-") && len(code) > len("TEAM-")
	})

	// Feedback rating range (1-5)
	bv.validate.RegisterValidation("feedback_rating", func(fl validator.FieldLevel) bool {
		rating := fl.Field().Int()
		return rating >= 1 && rating <= 5
	})

	// Certificate type validation
	bv.validate.RegisterValidation("certificate_type", func(fl validator.FieldLevel) bool {
		return models.ValidCertificateType(models.CertificateType(fl.Field().String()))
	})
}
