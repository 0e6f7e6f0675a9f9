package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"budget-planner/internal/models"
	"budget-planner/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultPageSize = 100

// TransactionInput carries the fields of a new transaction. A zero Date means now.
type TransactionInput struct {
	CategoryID  uint
	Amount      float64
	Type        models.TransactionType
	Date        time.Time
	Description *string
}

// TransactionUpdate holds optional fields; nil means unchanged.
// An empty Description clears it.
type TransactionUpdate struct {
	CategoryID  *uint
	Amount      *float64
	Type        *models.TransactionType
	Date        *time.Time
	Description *string
}

type TransactionService struct {
	db       *gorm.DB
	pageSize int
	now      func() time.Time
}

// NewTransactionService builds the service. pageSize is the List limit used
// when the caller passes none.
func NewTransactionService(db *gorm.DB, pageSize int) *TransactionService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &TransactionService{db: db, pageSize: pageSize, now: time.Now}
}

// resolveCategory confirms the category exists and belongs to userID.
func resolveCategory(tx *gorm.DB, categoryID, userID uint) error {
	var cat models.Category
	err := tx.Select("id").Where("id = ? AND user_id = ?", categoryID, userID).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCategory
		}
		return fmt.Errorf("resolve category: %w", err)
	}
	return nil
}

// boundedCents converts amount to cents, rejecting NaN and anything at or
// beyond util.MaxAmount in either direction.
func boundedCents(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.Abs(amount) >= util.MaxAmount {
		return 0, ErrInvalidAmount
	}
	return models.ToCents(amount), nil
}

func positiveCents(amount float64) (int64, error) {
	cents, err := boundedCents(amount)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func normDescription(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	return d
}

func (s *TransactionService) Create(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error) {
	cents, err := positiveCents(in.Amount)
	if err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	t := models.Transaction{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		AmountCents: cents,
		Date:        date.UTC(),
		Description: normDescription(in.Description),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolveCategory(tx, in.CategoryID, userID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&t).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return tx.Preload("Category").First(&t, t.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update validates every supplied field before writing any of them.
func (s *TransactionService) Update(ctx context.Context, id, userID uint, in TransactionUpdate) (*models.Transaction, error) {
	updates := map[string]interface{}{}
	if in.Amount != nil {
		cents, err := positiveCents(*in.Amount)
		if err != nil {
			return nil, err
		}
		updates["amount_cents"] = cents
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, ErrInvalidType
		}
		updates["type"] = *in.Type
	}
	if in.Date != nil {
		updates["date"] = in.Date.UTC()
	}
	if in.Description != nil {
		updates["description"] = normDescription(in.Description)
	}

	var t models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
			return lookupErr(err, "transaction")
		}
		if in.CategoryID != nil {
			if err := resolveCategory(tx, *in.CategoryID, userID); err != nil {
				return err
			}
			updates["category_id"] = *in.CategoryID
		}
		if len(updates) > 0 {
			err := tx.Model(&models.Transaction{}).
				Where("id = ? AND user_id = ?", id, userID).
				Updates(updates).Error
			if err != nil {
				return fmt.Errorf("update transaction: %w", err)
			}
		}
		t = models.Transaction{}
		return tx.Preload("Category").Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns a page of the user's transactions, newest first.
// limit <= 0 selects the configured page size.
func (s *TransactionService) List(ctx context.Context, userID uint, skip, limit int) ([]models.Transaction, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	list := []models.Transaction{}
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

// ListAll returns every transaction of the user, newest first.
func (s *TransactionService) ListAll(ctx context.Context, userID uint) ([]models.Transaction, error) {
	list := []models.Transaction{}
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return list, nil
}

func (s *TransactionService) Get(ctx context.Context, id, userID uint) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.WithContext(ctx).Preload("Category").Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		return nil, lookupErr(err, "transaction")
	}
	return &t, nil
}

func (s *TransactionService) Delete(ctx context.Context, id, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
		if res.Error != nil {
			return fmt.Errorf("delete transaction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
