package service

import (
	"context"
	"fmt"
	"time"

	"budget-planner/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GoalInput struct {
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	TargetDate    *time.Time
}

// GoalUpdate holds optional fields; nil means unchanged.
// ClearTargetDate wins over TargetDate.
type GoalUpdate struct {
	Name            *string
	TargetAmount    *float64
	CurrentAmount   *float64
	TargetDate      *time.Time
	ClearTargetDate bool
}

type GoalService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db, now: time.Now}
}

func nonNegativeCents(amount float64) (int64, error) {
	cents, err := boundedCents(amount)
	if err != nil {
		return 0, err
	}
	if cents < 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *GoalService) Create(ctx context.Context, userID uint, in GoalInput) (*models.Goal, error) {
	target, err := positiveCents(in.TargetAmount)
	if err != nil {
		return nil, err
	}
	current, err := nonNegativeCents(in.CurrentAmount)
	if err != nil {
		return nil, err
	}

	g := models.Goal{
		UserID:       userID,
		Name:         in.Name,
		TargetCents:  target,
		CurrentCents: current,
		TargetDate:   utcPtr(in.TargetDate),
		CreationDate: s.now().UTC(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&g).Error; err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GoalService) Update(ctx context.Context, id, userID uint, in GoalUpdate) (*models.Goal, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.TargetAmount != nil {
		cents, err := positiveCents(*in.TargetAmount)
		if err != nil {
			return nil, err
		}
		updates["target_cents"] = cents
	}
	if in.CurrentAmount != nil {
		cents, err := nonNegativeCents(*in.CurrentAmount)
		if err != nil {
			return nil, err
		}
		updates["current_cents"] = cents
	}
	switch {
	case in.ClearTargetDate:
		updates["target_date"] = nil
	case in.TargetDate != nil:
		updates["target_date"] = in.TargetDate.UTC()
	}

	var g models.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
			return lookupErr(err, "goal")
		}
		if len(updates) > 0 {
			err := tx.Model(&models.Goal{}).
				Where("id = ? AND user_id = ?", id, userID).
				Updates(updates).Error
			if err != nil {
				return fmt.Errorf("update goal: %w", err)
			}
		}
		g = models.Goal{}
		return tx.Where("id = ? AND user_id = ?", id, userID).First(&g).Error
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Contribute adds amount to the goal's current amount. The result may pass
// the target.
func (s *GoalService) Contribute(ctx context.Context, id, userID uint, amount float64) (*models.Goal, error) {
	cents, err := positiveCents(amount)
	if err != nil {
		return nil, err
	}

	var g models.Goal
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
			return lookupErr(err, "goal")
		}
		err := tx.Model(&models.Goal{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("current_cents", gorm.Expr("current_cents + ?", cents)).Error
		if err != nil {
			return fmt.Errorf("contribute to goal: %w", err)
		}
		g = models.Goal{}
		return tx.Where("id = ? AND user_id = ?", id, userID).First(&g).Error
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GoalService) Get(ctx context.Context, id, userID uint) (*models.Goal, error) {
	var g models.Goal
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
		return nil, lookupErr(err, "goal")
	}
	return &g, nil
}

// List returns the user's goals, newest first.
func (s *GoalService) List(ctx context.Context, userID uint) ([]models.Goal, error) {
	goals := []models.Goal{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("creation_date DESC").Order("id DESC").
		Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (s *GoalService) Delete(ctx context.Context, id, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Goal{})
		if res.Error != nil {
			return fmt.Errorf("delete goal: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
