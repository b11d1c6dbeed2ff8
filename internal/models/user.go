package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:255"`
	FullName     string   `json:"full_name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Role         UserRole `json:"role" gorm:"not null;default:student;size:20" validate:"omitempty,oneof=student organizer admin"`
	Department   string   `json:"department" gorm:"size:100;index"`

	// Gamification wallet. Points are non-negative and only move through
	// server-side award operations.
	Points int `json:"points" gorm:"not null;default:0"`

	// Status
	IsActive      bool `json:"is_active" gorm:"default:true"`
	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Badges        []Badge        `json:"badges" gorm:"foreignKey:UserID"`
	Registrations []Registration `json:"-" gorm:"foreignKey:UserID"`
}

// Badge is an earned achievement. Names are unique per user; awarding an
// already-held badge is a no-op.
type Badge struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_badge_name"`
	Name        string    `json:"name" gorm:"not null;size:100;uniqueIndex:idx_user_badge_name"`
	Icon        string    `json:"icon" gorm:"size:100"`
	Description string    `json:"description" gorm:"size:500"`
	EarnedAt    time.Time `json:"earned_at"`
}

func (User) TableName() string {
	return "users"
}

func (Badge) TableName() string {
	return "badges"
}
