package service

import (
	"errors"
	"fmt"

	"budget-planner/internal/models"

	"gorm.io/gorm"
)

// Failure variants returned by the services. Callers match with errors.Is.
// A row owned by another user is reported exactly like a missing row.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidCategory   = errors.New("category does not exist")
	ErrDeleteBlocked     = errors.New("category still has transactions")
	ErrAuthFailed        = errors.New("invalid username or password")
	ErrInvalidPassword   = errors.New("password must be at most 72 bytes")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrSessionInvalid    = errors.New("session expired or revoked")
)

// lookupErr maps gorm's not-found to ErrNotFound and wraps anything else.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func userExists(tx *gorm.DB, userID uint) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
