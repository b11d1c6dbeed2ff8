package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound wraps gorm's record-not-found for callers outside the
	// persistence layer.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate signals a uniqueness violation (duplicate registration,
	// duplicate certificate triple, duplicate badge name).
	ErrDuplicate = errors.New("duplicate record")
)

// IsNotFoundError reports whether err means the entity does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a uniqueness violation, either our
// sentinel or the database's constraint error.
func IsDuplicateError(err error) bool {
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if err == nil {
		return false
	}
	// pgx surfaces 23505 unique_violation in the message
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key value")
}
