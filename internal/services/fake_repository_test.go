package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/campus-events/event-service/internal/models"
	"github.com/campus-events/event-service/internal/repositories"
)

// fakeRepository is an in-memory Repository used by the service tests. It
// honors the same contracts as the postgres implementation: guarded seat
// reservation, duplicate detection, cancelled rows blocking re-registration.
type fakeRepository struct {
	mu sync.Mutex

	users         map[string]*models.User
	badges        map[string][]models.Badge
	events        map[uint]*models.Event
	coOrganizers  map[uint][]string
	registrations map[uint]*models.Registration
	sessions      map[uint][]*models.SessionAttendance
	certificates  map[uint]*models.Certificate
	posts         map[uint]*models.ForumPost
	replies       map[uint][]*models.ForumReply
	likes         map[uint]map[string]bool
	applications  map[uint]*models.TeamApplication
	notifications []*models.Notification

	nextRegistrationID uint
	nextCertificateID  uint
	nextPostID         uint
	nextReplyID        uint
	nextApplicationID  uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:              make(map[string]*models.User),
		badges:             make(map[string][]models.Badge),
		events:             make(map[uint]*models.Event),
		coOrganizers:       make(map[uint][]string),
		registrations:      make(map[uint]*models.Registration),
		sessions:           make(map[uint][]*models.SessionAttendance),
		certificates:       make(map[uint]*models.Certificate),
		posts:              make(map[uint]*models.ForumPost),
		replies:            make(map[uint][]*models.ForumReply),
		likes:              make(map[uint]map[string]bool),
		applications:       make(map[uint]*models.TeamApplication),
		nextRegistrationID: 1,
		nextCertificateID:  1,
		nextPostID:         1,
		nextReplyID:        1,
		nextApplicationID:  1,
	}
}

func (f *fakeRepository) User() repositories.UserRepository                 { return &fakeUserRepo{f} }
func (f *fakeRepository) Event() repositories.EventRepository               { return &fakeEventRepo{f} }
func (f *fakeRepository) Registration() repositories.RegistrationRepository { return &fakeRegRepo{f} }
func (f *fakeRepository) Certificate() repositories.CertificateRepository   { return &fakeCertRepo{f} }
func (f *fakeRepository) Forum() repositories.ForumRepository               { return &fakeForumRepo{f} }
func (f *fakeRepository) Notification() repositories.NotificationRepository {
	return &fakeNotifRepo{f}
}

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== USER =====

type fakeUserRepo struct{ f *fakeRepository }

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	r.f.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	user, ok := r.f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	copied.Badges = append([]models.Badge(nil), r.f.badges[id]...)
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, user := range r.f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *user
	r.f.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.User, 0, len(r.f.users))
	for _, user := range r.f.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Deactivate(ctx context.Context, tx *gorm.DB, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	user, ok := r.f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.IsActive = false
	return nil
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, tx *gorm.DB, id string, points int) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	user, ok := r.f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Points += points
	return nil
}

func (r *fakeUserRepo) AddBadge(ctx context.Context, tx *gorm.DB, badge *models.Badge) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.badges[badge.UserID] {
		if existing.Name == badge.Name {
			return false, nil
		}
	}
	r.f.badges[badge.UserID] = append(r.f.badges[badge.UserID], *badge)
	return true, nil
}

// ===== EVENT =====

type fakeEventRepo struct{ f *fakeRepository }

func (r *fakeEventRepo) Create(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if event.ID == 0 {
		event.ID = uint(len(r.f.events) + 1)
	}
	r.f.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	event, ok := r.f.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Event, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *fakeEventRepo) Update(ctx context.Context, tx *gorm.DB, event *models.Event) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.events[event.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *event
	r.f.events[event.ID] = &copied
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.events, id)
	return nil
}

func (r *fakeEventRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.Event, 0, len(r.f.events))
	for _, event := range r.f.events {
		copied := *event
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.EventFilters) ([]*models.Event, int64, error) {
	all, _, _ := r.List(ctx, tx, filters)
	out := make([]*models.Event, 0)
	for _, event := range all {
		if strings.Contains(strings.ToLower(event.Title), strings.ToLower(query)) {
			out = append(out, event)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeEventRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.EventStatus) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	event, ok := r.f.events[id]
	if !ok {
		return repositories.ErrNotFound
	}
	event.Status = status
	return nil
}

func (r *fakeEventRepo) ReserveSeat(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	event, ok := r.f.events[id]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if event.MaxParticipants != nil && event.CurrentParticipants >= *event.MaxParticipants {
		return false, nil
	}
	event.CurrentParticipants++
	return true, nil
}

func (r *fakeEventRepo) ReleaseSeat(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	event, ok := r.f.events[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if event.CurrentParticipants > 0 {
		event.CurrentParticipants--
	}
	return nil
}

func (r *fakeEventRepo) AddCoOrganizer(ctx context.Context, tx *gorm.DB, eventID uint, userID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.coOrganizers[eventID] {
		if existing == userID {
			return nil
		}
	}
	r.f.coOrganizers[eventID] = append(r.f.coOrganizers[eventID], userID)
	return nil
}

func (r *fakeEventRepo) IsOrganizer(ctx context.Context, tx *gorm.DB, eventID uint, userID string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	event, ok := r.f.events[eventID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if event.OrganizerID == userID {
		return true, nil
	}
	for _, co := range r.f.coOrganizers[eventID] {
		if co == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) GetStats(ctx context.Context, tx *gorm.DB, eventID uint) (*repositories.EventStats, error) {
	return &repositories.EventStats{}, nil
}

func (r *fakeEventRepo) GetOrganizerStats(ctx context.Context, tx *gorm.DB, organizerID string) (*repositories.OrganizerStats, error) {
	return &repositories.OrganizerStats{}, nil
}

// ===== REGISTRATION =====

type fakeRegRepo struct{ f *fakeRepository }

func (r *fakeRegRepo) Create(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.registrations {
		if existing.UserID == registration.UserID && existing.EventID == registration.EventID {
			return repositories.ErrDuplicate
		}
	}
	registration.ID = r.f.nextRegistrationID
	r.f.nextRegistrationID++
	registration.CreatedAt = time.Now()
	copied := *registration
	r.f.registrations[registration.ID] = &copied
	return nil
}

func (r *fakeRegRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	registration, ok := r.f.registrations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *registration
	return &copied, nil
}

func (r *fakeRegRepo) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Registration, error) {
	registration, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if user, ok := r.f.users[registration.UserID]; ok {
		registration.User = *user
	}
	if event, ok := r.f.events[registration.EventID]; ok {
		registration.Event = *event
	}
	return registration, nil
}

func (r *fakeRegRepo) Update(ctx context.Context, tx *gorm.DB, registration *models.Registration) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.registrations[registration.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *registration
	r.f.registrations[registration.ID] = &copied
	return nil
}

func (r *fakeRegRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.Registration, 0, len(r.f.registrations))
	for _, registration := range r.f.registrations {
		copied := *registration
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeRegRepo) GetByUserAndEvent(ctx context.Context, tx *gorm.DB, userID string, eventID uint) (*models.Registration, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, registration := range r.f.registrations {
		if registration.UserID == userID && registration.EventID == eventID {
			copied := *registration
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeRegRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	all, _, _ := r.List(ctx, tx, filters)
	out := make([]*models.Registration, 0)
	for _, registration := range all {
		if registration.UserID == userID {
			out = append(out, registration)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRegRepo) GetByEvent(ctx context.Context, tx *gorm.DB, eventID uint, filters repositories.RegistrationFilters) ([]*models.Registration, int64, error) {
	all, _, _ := r.List(ctx, tx, filters)
	out := make([]*models.Registration, 0)
	for _, registration := range all {
		if registration.EventID == eventID {
			out = append(out, registration)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRegRepo) GetTeamLead(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (*models.Registration, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, registration := range r.f.registrations {
		if registration.EventID == eventID && registration.TeamCode == teamCode &&
			registration.IsTeamLead && registration.Status != models.RegistrationCancelled {
			copied := *registration
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeRegRepo) CountByTeamCode(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	count := 0
	for _, registration := range r.f.registrations {
		if registration.EventID == eventID && registration.TeamCode == teamCode &&
			registration.Status != models.RegistrationCancelled {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegRepo) GetTeamRoster(ctx context.Context, tx *gorm.DB, eventID uint, teamCode string) (*repositories.TeamRoster, error) {
	lead, err := r.GetTeamLead(ctx, tx, eventID, teamCode)
	if err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	roster := &repositories.TeamRoster{Lead: lead}
	for _, registration := range r.f.registrations {
		if registration.EventID == eventID && registration.TeamCode == teamCode &&
			!registration.IsTeamLead && registration.Status != models.RegistrationCancelled {
			copied := *registration
			roster.Members = append(roster.Members, &copied)
		}
	}
	return roster, nil
}

func (r *fakeRegRepo) GetSession(ctx context.Context, tx *gorm.DB, registrationID uint, sessionName string) (*models.SessionAttendance, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, session := range r.f.sessions[registrationID] {
		if session.SessionName == sessionName {
			copied := *session
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeRegRepo) UpsertSession(ctx context.Context, tx *gorm.DB, session *models.SessionAttendance) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.sessions[session.RegistrationID] {
		if existing.SessionName == session.SessionName {
			existing.Attended = session.Attended
			existing.RecordedAt = session.RecordedAt
			existing.RecordedBy = session.RecordedBy
			return nil
		}
	}
	copied := *session
	r.f.sessions[session.RegistrationID] = append(r.f.sessions[session.RegistrationID], &copied)
	return nil
}

func (r *fakeRegRepo) ListSessions(ctx context.Context, tx *gorm.DB, registrationID uint) ([]*models.SessionAttendance, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.SessionAttendance, 0, len(r.f.sessions[registrationID]))
	for _, session := range r.f.sessions[registrationID] {
		copied := *session
		out = append(out, &copied)
	}
	return out, nil
}

// ===== CERTIFICATE =====

type fakeCertRepo struct{ f *fakeRepository }

func (r *fakeCertRepo) Create(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.certificates {
		if existing.UserID == certificate.UserID && existing.EventID == certificate.EventID &&
			existing.Type == certificate.Type {
			return repositories.ErrDuplicate
		}
	}
	certificate.ID = r.f.nextCertificateID
	r.f.nextCertificateID++
	copied := *certificate
	r.f.certificates[certificate.ID] = &copied
	return nil
}

func (r *fakeCertRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Certificate, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	certificate, ok := r.f.certificates[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *certificate
	return &copied, nil
}

func (r *fakeCertRepo) GetByCertificateID(ctx context.Context, tx *gorm.DB, certificateID string) (*models.Certificate, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, certificate := range r.f.certificates {
		if certificate.CertificateID == certificateID {
			copied := *certificate
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCertRepo) GetByVerificationCode(ctx context.Context, tx *gorm.DB, code string) (*models.Certificate, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, certificate := range r.f.certificates {
		if certificate.VerificationCode == code {
			copied := *certificate
			if user, ok := r.f.users[certificate.UserID]; ok {
				copied.User = *user
			}
			if event, ok := r.f.events[certificate.EventID]; ok {
				copied.Event = *event
			}
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeCertRepo) Update(ctx context.Context, tx *gorm.DB, certificate *models.Certificate) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.certificates[certificate.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *certificate
	r.f.certificates[certificate.ID] = &copied
	return nil
}

func (r *fakeCertRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.CertificateFilters) ([]*models.Certificate, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.Certificate, 0, len(r.f.certificates))
	for _, certificate := range r.f.certificates {
		if filters.UserID != nil && certificate.UserID != *filters.UserID {
			continue
		}
		copied := *certificate
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeCertRepo) ExistsForUserEventType(ctx context.Context, tx *gorm.DB, userID string, eventID uint, certType models.CertificateType) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, certificate := range r.f.certificates {
		if certificate.UserID == userID && certificate.EventID == eventID && certificate.Type == certType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCertRepo) IncrementDownloadCount(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	certificate, ok := r.f.certificates[id]
	if !ok {
		return repositories.ErrNotFound
	}
	certificate.DownloadCount++
	return nil
}

func (r *fakeCertRepo) IncrementShareCount(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	certificate, ok := r.f.certificates[id]
	if !ok {
		return repositories.ErrNotFound
	}
	certificate.ShareCount++
	return nil
}

// ===== NOTIFICATION =====

type fakeNotifRepo struct{ f *fakeRepository }

func (r *fakeNotifRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	notification.ID = uint(len(r.f.notifications) + 1)
	copied := *notification
	r.f.notifications = append(r.f.notifications, &copied)
	return nil
}

func (r *fakeNotifRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.Notification, 0)
	for _, notification := range r.f.notifications {
		if notification.UserID != userID {
			continue
		}
		if filters.UnreadOnly && notification.Read {
			continue
		}
		copied := *notification
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotifRepo) MarkRead(ctx context.Context, tx *gorm.DB, id uint, userID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, notification := range r.f.notifications {
		if notification.ID == id && notification.UserID == userID {
			notification.Read = true
			now := time.Now()
			notification.ReadAt = &now
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotifRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, userID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	now := time.Now()
	for _, notification := range r.f.notifications {
		if notification.UserID == userID && !notification.Read {
			notification.Read = true
			notification.ReadAt = &now
		}
	}
	return nil
}

// ===== FORUM =====

type fakeForumRepo struct{ f *fakeRepository }

func (r *fakeForumRepo) CreatePost(ctx context.Context, tx *gorm.DB, post *models.ForumPost) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	post.ID = r.f.nextPostID
	r.f.nextPostID++
	post.CreatedAt = time.Now()
	copied := *post
	r.f.posts[post.ID] = &copied
	return nil
}

func (r *fakeForumRepo) GetPostByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumPost, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	post, ok := r.f.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakeForumRepo) GetPostWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumPost, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	post, ok := r.f.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	if author, ok := r.f.users[post.AuthorID]; ok {
		copied.Author = *author
	}
	for _, reply := range r.f.replies[id] {
		copied.Replies = append(copied.Replies, *reply)
	}
	return &copied, nil
}

func (r *fakeForumRepo) UpdatePost(ctx context.Context, tx *gorm.DB, post *models.ForumPost) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *post
	r.f.posts[post.ID] = &copied
	return nil
}

func (r *fakeForumRepo) DeletePost(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.f.posts, id)
	delete(r.f.replies, id)
	delete(r.f.likes, id)
	return nil
}

func (r *fakeForumRepo) ListPosts(ctx context.Context, tx *gorm.DB, filters repositories.ForumFilters) ([]*models.ForumPost, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.ForumPost, 0)
	for _, post := range r.f.posts {
		if filters.Category != nil && post.Category != *filters.Category {
			continue
		}
		if filters.EventID != nil && (post.EventID == nil || *post.EventID != *filters.EventID) {
			continue
		}
		if filters.AuthorID != nil && post.AuthorID != *filters.AuthorID {
			continue
		}
		copied := *post
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeForumRepo) CreateReply(ctx context.Context, tx *gorm.DB, reply *models.ForumReply) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	post, ok := r.f.posts[reply.PostID]
	if !ok {
		return repositories.ErrNotFound
	}
	reply.ID = r.f.nextReplyID
	r.f.nextReplyID++
	reply.CreatedAt = time.Now()
	copied := *reply
	r.f.replies[reply.PostID] = append(r.f.replies[reply.PostID], &copied)
	post.ReplyCount++
	return nil
}

func (r *fakeForumRepo) DeleteReply(ctx context.Context, tx *gorm.DB, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for postID, replies := range r.f.replies {
		for i, reply := range replies {
			if reply.ID == id {
				r.f.replies[postID] = append(replies[:i], replies[i+1:]...)
				if post, ok := r.f.posts[postID]; ok && post.ReplyCount > 0 {
					post.ReplyCount--
				}
				return nil
			}
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeForumRepo) GetReplyByID(ctx context.Context, tx *gorm.DB, id uint) (*models.ForumReply, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, replies := range r.f.replies {
		for _, reply := range replies {
			if reply.ID == id {
				copied := *reply
				return &copied, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeForumRepo) ToggleLike(ctx context.Context, tx *gorm.DB, postID uint, userID string) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	post, ok := r.f.posts[postID]
	if !ok {
		return false, repositories.ErrNotFound
	}
	if r.f.likes[postID] == nil {
		r.f.likes[postID] = make(map[string]bool)
	}
	if r.f.likes[postID][userID] {
		delete(r.f.likes[postID], userID)
		post.LikeCount--
		return false, nil
	}
	r.f.likes[postID][userID] = true
	post.LikeCount++
	return true, nil
}

func (r *fakeForumRepo) CreateApplication(ctx context.Context, tx *gorm.DB, app *models.TeamApplication) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.applications {
		if existing.PostID == app.PostID && existing.ApplicantID == app.ApplicantID {
			return repositories.ErrDuplicate
		}
	}
	app.ID = r.f.nextApplicationID
	r.f.nextApplicationID++
	app.CreatedAt = time.Now()
	copied := *app
	r.f.applications[app.ID] = &copied
	return nil
}

func (r *fakeForumRepo) GetApplicationByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TeamApplication, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	app, ok := r.f.applications[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeForumRepo) UpdateApplication(ctx context.Context, tx *gorm.DB, app *models.TeamApplication) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.applications[app.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *app
	r.f.applications[app.ID] = &copied
	return nil
}

func (r *fakeForumRepo) ListApplications(ctx context.Context, tx *gorm.DB, postID uint) ([]*models.TeamApplication, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	out := make([]*models.TeamApplication, 0)
	for _, app := range r.f.applications {
		if app.PostID == postID {
			copied := *app
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
