package services

import (
	"context"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
	"github.com/campus-events/event-service/internal/validator"
)

// ===== RESPONSE TYPES =====

// AuthResponse carries the issued token and the authenticated user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// VerificationResponse is the public certificate verification result.
type VerificationResponse struct {
	Valid         bool                     `json:"valid"`
	CertificateID string                   `json:"certificate_id"`
	Status        models.CertificateStatus `json:"status"`
	Type          models.CertificateType   `json:"type"`
	RecipientName string                   `json:"recipient_name"`
	EventTitle    string                   `json:"event_title"`
	IssuedAt      string                   `json:"issued_at"`
	Position      string                   `json:"position,omitempty"`
}

// TeamResponse is the normalized team view built from registration rows.
type TeamResponse struct {
	TeamName   string                 `json:"team_name"`
	TeamCode   string                 `json:"team_code"`
	MaxMembers int                    `json:"max_members"`
	Size       int                    `json:"size"`
	Lead       *models.Registration   `json:"lead"`
	Members    []*models.Registration `json:"members"`
	JoinQR     string                 `json:"join_qr,omitempty"`
}

// NotificationRequest is the input for notification fan-out.
type NotificationRequest struct {
	Type     models.NotificationType     `json:"type"`
	Title    string                      `json:"title"`
	Message  string                      `json:"message"`
	Priority models.NotificationPriority `json:"priority"`
}

// ===== SERVICE INTERFACES =====

// UserService covers identity and profile operations.
type UserService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, actor Actor, id string, req *validator.UserUpdateRequest) (*models.User, error)
	List(ctx context.Context, actor Actor, filters repositories.UserFilters) ([]*models.User, int64, error)
	Deactivate(ctx context.Context, actor Actor, id string) error
}

// EventService covers event CRUD and the approval workflow.
type EventService interface {
	Create(ctx context.Context, actor Actor, req *validator.EventCreateRequest) (*models.Event, error)
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	GetWithDetails(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, filters repositories.EventFilters) ([]*models.Event, int64, error)
	Search(ctx context.Context, query string, filters repositories.EventFilters) ([]*models.Event, int64, error)
	Update(ctx context.Context, actor Actor, id uint, req *validator.EventUpdateRequest) (*models.Event, error)
	Submit(ctx context.Context, actor Actor, id uint) error
	Review(ctx context.Context, actor Actor, id uint, req *validator.EventReviewRequest) error
	Cancel(ctx context.Context, actor Actor, id uint) error
	Complete(ctx context.Context, actor Actor, id uint) error
	AddCoOrganizer(ctx context.Context, actor Actor, eventID uint, userID string) error
	GetStats(ctx context.Context, actor Actor, id uint) (*repositories.EventStats, error)
	GetOrganizerStats(ctx context.Context, actor Actor, organizerID string) (*repositories.OrganizerStats, error)
}

// RegistrationService is the registration lifecycle: create, team join,
// check-in, session attendance, feedback, cancellation.
type RegistrationService interface {
	Create(ctx context.Context, actor Actor, req *validator.RegistrationCreateRequest) (*models.Registration, error)
	GetByID(ctx context.Context, actor Actor, id uint) (*models.Registration, error)
	GetMine(ctx context.Context, actor Actor, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error)
	GetByEvent(ctx context.Context, actor Actor, eventID uint, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error)

	JoinTeam(ctx context.Context, actor Actor, req *validator.TeamJoinRequest) (*models.Registration, error)
	GetTeam(ctx context.Context, actor Actor, eventID uint, teamCode string) (*TeamResponse, error)

	CheckIn(ctx context.Context, actor Actor, registrationID uint, req *validator.CheckInRequest) (*models.Registration, error)
	RecordSessionAttendance(ctx context.Context, actor Actor, registrationID uint, req *validator.SessionAttendanceRequest) (*models.Registration, error)
	SubmitFeedback(ctx context.Context, actor Actor, registrationID uint, req *validator.FeedbackRequest) (*models.Registration, error)
	Cancel(ctx context.Context, actor Actor, registrationID uint) (*models.Registration, error)
}

// CertificateService issues, verifies, and revokes certificates.
type CertificateService interface {
	Generate(ctx context.Context, actor Actor, req *validator.CertificateGenerateRequest) (*models.Certificate, error)
	GetByID(ctx context.Context, actor Actor, id uint) (*models.Certificate, error)
	GetMine(ctx context.Context, actor Actor, filters repositories.CertificateFilters) ([]*models.Certificate, int64, error)
	Verify(ctx context.Context, code string) (*VerificationResponse, error)
	Download(ctx context.Context, actor Actor, id uint) ([]byte, string, error)
	RecordShare(ctx context.Context, actor Actor, id uint) error
	Revoke(ctx context.Context, actor Actor, id uint) error
}

// ForumService covers posts, replies, likes, and team-formation applications.
type ForumService interface {
	CreatePost(ctx context.Context, actor Actor, req *validator.ForumPostCreateRequest) (*models.ForumPost, error)
	GetPost(ctx context.Context, id uint) (*models.ForumPost, error)
	ListPosts(ctx context.Context, filters repositories.ForumFilters) ([]*models.ForumPost, int64, error)
	DeletePost(ctx context.Context, actor Actor, id uint) error
	Reply(ctx context.Context, actor Actor, postID uint, req *validator.ForumReplyCreateRequest) (*models.ForumReply, error)
	ToggleLike(ctx context.Context, actor Actor, postID uint) (bool, error)
	Apply(ctx context.Context, actor Actor, postID uint, req *validator.TeamApplicationRequest) (*models.TeamApplication, error)
	Decide(ctx context.Context, actor Actor, applicationID uint, req *validator.TeamApplicationDecisionRequest) (*models.TeamApplication, error)
}

// NotificationEventService persists in-app notifications and publishes the
// matching domain events.
type NotificationEventService interface {
	Notify(ctx context.Context, userID string, req *NotificationRequest) error
	SendBulkNotification(ctx context.Context, userIDs []string, req *NotificationRequest) error
	GetForUser(ctx context.Context, actor Actor, filters repositories.NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, actor Actor, id uint) error
	MarkAllRead(ctx context.Context, actor Actor) error
}

// ExportService produces spreadsheet exports for organizers.
type ExportService interface {
	ExportRegistrations(ctx context.Context, actor Actor, eventID uint) ([]byte, string, error)
}

// ServiceManager wires every service behind one handle.
type ServiceManager interface {
	User() UserService
	Event() EventService
	Registration() RegistrationService
	Certificate() CertificateService
	Forum() ForumService
	Notification() NotificationEventService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
