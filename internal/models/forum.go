package models

import (
	"time"

	"gorm.io/gorm"
)

type ForumCategory string

const (
	ForumGeneral       ForumCategory = "general"
	ForumEventDiscussion ForumCategory = "event-discussion"
	ForumTeamFormation ForumCategory = "team-formation"
	ForumAnnouncement  ForumCategory = "announcement"
)

// ForumPost is an independent community feature. It reuses User/Event for
// display only and carries none of the registration lifecycle's invariants.
type ForumPost struct {
	ID       uint          `json:"id" gorm:"primaryKey"`
	AuthorID string        `json:"author_id" gorm:"not null;size:255;index"`
	EventID  *uint         `json:"event_id,omitempty" gorm:"index"`
	Category ForumCategory `json:"category" gorm:"not null;default:general;size:30;index" validate:"omitempty,oneof=general event-discussion team-formation announcement"`

	Title   string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Content string `json:"content" gorm:"type:text" validate:"required,max=10000"`

	LikeCount  int `json:"like_count" gorm:"not null;default:0"`
	ReplyCount int `json:"reply_count" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Author  User         `json:"author" gorm:"foreignKey:AuthorID"`
	Event   *Event       `json:"event,omitempty" gorm:"foreignKey:EventID"`
	Replies []ForumReply `json:"replies" gorm:"foreignKey:PostID"`
	Likes   []ForumLike  `json:"-" gorm:"foreignKey:PostID"`
}

type ForumReply struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	PostID   uint   `json:"post_id" gorm:"not null;index"`
	AuthorID string `json:"author_id" gorm:"not null;size:255"`
	Content  string `json:"content" gorm:"type:text" validate:"required,max=5000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author User `json:"author" gorm:"foreignKey:AuthorID"`
}

// ForumLike is a toggle; one row per (post, user).
type ForumLike struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	PostID uint   `json:"post_id" gorm:"not null;uniqueIndex:idx_post_user_like"`
	UserID string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_post_user_like"`

	CreatedAt time.Time `json:"created_at"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// TeamApplication is a team-formation request made against a team-formation
// post. Acceptance only signals intent; joining the team still goes through
// the registration join-team operation.
type TeamApplication struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	PostID      uint              `json:"post_id" gorm:"not null;uniqueIndex:idx_post_applicant"`
	ApplicantID string            `json:"applicant_id" gorm:"not null;size:255;uniqueIndex:idx_post_applicant"`
	Message     string            `json:"message" gorm:"size:1000" validate:"omitempty,max=1000"`
	Status      ApplicationStatus `json:"status" gorm:"not null;default:pending;size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Applicant User `json:"applicant" gorm:"foreignKey:ApplicantID"`
}

func (ForumPost) TableName() string {
	return "forum_posts"
}

func (ForumReply) TableName() string {
	return "forum_replies"
}

func (ForumLike) TableName() string {
	return "forum_likes"
}

func (TeamApplication) TableName() string {
	return "team_applications"
}
