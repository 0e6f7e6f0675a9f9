package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budget-planner/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionService tracks login sessions. Each access token carries its
// session id, so a token dies with its session.
type SessionService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl, now: time.Now}
}

func (s *SessionService) TTL() time.Duration { return s.ttl }

func (s *SessionService) Start(ctx context.Context, userID uint) (*models.Session, error) {
	sess := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

// Validate returns ErrSessionInvalid unless the session exists, belongs to
// userID, and is neither revoked nor expired.
func (s *SessionService) Validate(ctx context.Context, sessionID string, userID uint) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", sessionID, userID).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Active(s.now()) {
		return nil, ErrSessionInvalid
	}
	return &sess, nil
}

func (s *SessionService) Revoke(ctx context.Context, sessionID string, userID uint) error {
	res := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Update("revoked", true)
	if res.Error != nil {
		return fmt.Errorf("revoke session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSessionInvalid
	}
	return nil
}

// RevokeOthers revokes every session of the user except keepID.
func (s *SessionService) RevokeOthers(ctx context.Context, userID uint, keepID string) error {
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("user_id = ? AND id <> ? AND revoked = ?", userID, keepID, false).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// PurgeExpired deletes revoked and expired sessions and returns how many.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("revoked = ? OR expires_at < ?", true, s.now().UTC()).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
