package models

import (
	"time"
)

type CertificateType string

const (
	CertParticipation CertificateType = "participation"
	CertCompletion    CertificateType = "completion"
	CertAppreciation  CertificateType = "appreciation"
	CertAchievement   CertificateType = "achievement"
	CertWinner        CertificateType = "winner"
)

type CertificateStatus string

const (
	CertificateActive  CertificateStatus = "active"
	CertificateRevoked CertificateStatus = "revoked"
	CertificateExpired CertificateStatus = "expired"
	CertificatePending CertificateStatus = "pending"
)

// CertificatePoints maps certificate type to the point award granted on issue.
var CertificatePoints = map[CertificateType]int{
	CertParticipation: 25,
	CertCompletion:    50,
	CertAppreciation:  30,
	CertAchievement:   75,
	CertWinner:        100,
}

// WinnerBadgeName is granted once per user on first winner certificate.
const WinnerBadgeName = "Event Winner"

// Certificate is an issuance record, one per (user, event, type). The rendered
// artifact is immutable once written; revocation flips only the status flag.
type Certificate struct {
	ID uint `json:"id" gorm:"primaryKey"`

	CertificateID    string `json:"certificate_id" gorm:"uniqueIndex;not null;size:64"`
	VerificationCode string `json:"verification_code" gorm:"uniqueIndex;not null;size:64"`

	UserID         string          `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_event_cert_type"`
	EventID        uint            `json:"event_id" gorm:"not null;uniqueIndex:idx_user_event_cert_type"`
	RegistrationID uint            `json:"registration_id" gorm:"not null;index"`
	Type           CertificateType `json:"type" gorm:"not null;size:20;uniqueIndex:idx_user_event_cert_type" validate:"required,oneof=participation completion appreciation achievement winner"`

	Title    string   `json:"title,omitempty" gorm:"size:200"`
	Position string   `json:"position,omitempty" gorm:"size:50"`
	Score    *float64 `json:"score,omitempty"`

	Status CertificateStatus `json:"status" gorm:"not null;default:active;size:20;index"`

	// Object-storage key of the rendered PDF.
	ArtifactPath string `json:"artifact_path" gorm:"size:500"`

	DownloadCount int `json:"download_count" gorm:"not null;default:0"`
	ShareCount    int `json:"share_count" gorm:"not null;default:0"`

	IssuedAt  time.Time  `json:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	RevokedBy string     `json:"revoked_by,omitempty" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  User  `json:"user" gorm:"foreignKey:UserID"`
	Event Event `json:"event" gorm:"foreignKey:EventID"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// ValidCertificateType reports whether t is one of the five issued kinds.
func ValidCertificateType(t CertificateType) bool {
	_, ok := CertificatePoints[t]
	return ok
}
