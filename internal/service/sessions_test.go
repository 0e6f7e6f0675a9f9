package service

import (
	"time"

	"budget-planner/internal/models"
)

func (s *ServiceSuite) TestSessionLifecycle() {
	alice := s.mustUser("alice")
	bob := s.mustUser("bob")

	sess, err := s.sessions.Start(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Len(sess.ID, 36)

	_, err = s.sessions.Validate(s.ctx, sess.ID, alice.ID)
	s.NoError(err)
	_, err = s.sessions.Validate(s.ctx, sess.ID, bob.ID)
	s.ErrorIs(err, ErrSessionInvalid)
	_, err = s.sessions.Validate(s.ctx, "missing", alice.ID)
	s.ErrorIs(err, ErrSessionInvalid)

	s.ErrorIs(s.sessions.Revoke(s.ctx, sess.ID, bob.ID), ErrSessionInvalid)
	s.Require().NoError(s.sessions.Revoke(s.ctx, sess.ID, alice.ID))
	_, err = s.sessions.Validate(s.ctx, sess.ID, alice.ID)
	s.ErrorIs(err, ErrSessionInvalid)
}

func (s *ServiceSuite) TestSessionExpiry() {
	alice := s.mustUser("alice")
	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.sessions.now = fixedClock(start)

	sess, err := s.sessions.Start(s.ctx, alice.ID)
	s.Require().NoError(err)

	s.sessions.now = fixedClock(start.Add(59 * time.Minute))
	_, err = s.sessions.Validate(s.ctx, sess.ID, alice.ID)
	s.NoError(err)

	s.sessions.now = fixedClock(start.Add(time.Hour + time.Second))
	_, err = s.sessions.Validate(s.ctx, sess.ID, alice.ID)
	s.ErrorIs(err, ErrSessionInvalid)
}

func (s *ServiceSuite) TestSessionRevokeOthersAndPurge() {
	alice := s.mustUser("alice")
	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.sessions.now = fixedClock(start)

	keep, err := s.sessions.Start(s.ctx, alice.ID)
	s.Require().NoError(err)
	other, err := s.sessions.Start(s.ctx, alice.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.sessions.RevokeOthers(s.ctx, alice.ID, keep.ID))
	_, err = s.sessions.Validate(s.ctx, other.ID, alice.ID)
	s.ErrorIs(err, ErrSessionInvalid)
	_, err = s.sessions.Validate(s.ctx, keep.ID, alice.ID)
	s.NoError(err)

	n, err := s.sessions.PurgeExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	s.sessions.now = fixedClock(start.Add(2 * time.Hour))
	n, err = s.sessions.PurgeExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	var count int64
	s.Require().NoError(s.db.Model(&models.Session{}).Count(&count).Error)
	s.Zero(count)
}
