package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"budget-planner/internal/models"
	"budget-planner/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	db   *gorm.DB
	cost int

	// compared against when the username is unknown, so a miss costs
	// the same as a wrong password
	dummyHash func() string
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	s := &UserService{db: db, cost: bcryptCost}
	s.dummyHash = sync.OnceValue(func() string {
		h, _ := util.HashPassword("budget-planner-dummy", s.cost)
		return h
	})
	return s
}

// hashPassword maps the bcrypt length limit to ErrInvalidPassword.
func hashPassword(password string, cost int) (string, error) {
	hash, err := util.HashPassword(password, cost)
	if errors.Is(err, util.ErrPasswordTooLong) {
		return "", ErrInvalidPassword
	}
	return hash, err
}

// Create registers a user. Usernames are matched exactly (case-sensitive).
func (s *UserService) Create(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := hashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: username, PasswordHash: hash}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if count > 0 {
			return ErrDuplicateUsername
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateUsername
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate returns ErrAuthFailed for both an unknown user and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		util.CheckPassword(password, s.dummyHash())
		return nil, ErrAuthFailed
	}
	if err != nil {
		return nil, err
	}
	if !util.CheckPassword(password, user.PasswordHash) {
		return nil, ErrAuthFailed
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &user, nil
}

// ChangePassword replaces the hash after checking the current password.
func (s *UserService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	hash, err := hashPassword(newPassword, s.cost)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return lookupErr(err, "user")
		}
		if !util.CheckPassword(oldPassword, user.PasswordHash) {
			return ErrAuthFailed
		}
		if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return nil
	})
}
