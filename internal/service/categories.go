package service

import (
	"context"
	"errors"
	"fmt"

	"budget-planner/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryService manages per-user categories. Names are unique per user,
// ignoring case.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func nameTaken(tx *gorm.DB, userID uint, name string, exceptID uint) (bool, error) {
	q := tx.Model(&models.Category{}).Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return count > 0, nil
}

func (s *CategoryService) Create(ctx context.Context, userID uint, name string) (*models.Category, error) {
	cat := models.Category{UserID: userID, Name: name}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		taken, err := nameTaken(tx, userID, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		if err := tx.Omit(clause.Associations).Create(&cat).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Rename changes the name. Renaming to the current name, in any case, succeeds.
func (s *CategoryService) Rename(ctx context.Context, id, userID uint, newName string) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
			return lookupErr(err, "category")
		}
		taken, err := nameTaken(tx, userID, newName, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateName
		}
		if err := tx.Model(&cat).Update("name", newName).Error; err != nil {
			return fmt.Errorf("rename category: %w", err)
		}
		cat.Name = newName
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Delete refuses with ErrDeleteBlocked while any transaction references the category.
func (s *CategoryService) Delete(ctx context.Context, id, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
			return lookupErr(err, "category")
		}

		var linked int64
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", cat.ID).Count(&linked).Error; err != nil {
			return fmt.Errorf("count transactions: %w", err)
		}
		if linked > 0 {
			return ErrDeleteBlocked
		}

		if err := tx.Delete(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return ErrDeleteBlocked
			}
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

func (s *CategoryService) Get(ctx context.Context, id, userID uint) (*models.Category, error) {
	var cat models.Category
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		return nil, lookupErr(err, "category")
	}
	return &cat, nil
}

// GetByName looks a category up case-insensitively within the user's set.
func (s *CategoryService) GetByName(ctx context.Context, userID uint, name string) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&cat).Error
	if err != nil {
		return nil, lookupErr(err, "category")
	}
	return &cat, nil
}

func (s *CategoryService) List(ctx context.Context, userID uint) ([]models.Category, error) {
	cats := []models.Category{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Order("id ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
