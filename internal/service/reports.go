package service

import (
	"context"
	"fmt"
	"time"

	"budget-planner/internal/models"

	"gorm.io/gorm"
)

// MonthlySummary aggregates one calendar month (UTC) of a user's transactions.
type MonthlySummary struct {
	Year               int                `json:"year"`
	Month              int                `json:"month"`
	TotalIncome        float64            `json:"total_income"`
	TotalExpenses      float64            `json:"total_expenses"`
	ExpensesByCategory map[string]float64 `json:"expenses_by_category"`
	NetSavings         float64            `json:"net_savings"`
}

type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

// monthBounds returns [start, next) for the month in UTC.
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// prevMonth steps back one calendar month, rolling January over to December.
func prevMonth(year, month int) (int, int) {
	month--
	if month < 1 {
		month = 12
		year--
	}
	return year, month
}

func (s *ReportService) MonthlySummary(ctx context.Context, userID uint, year, month int) (*MonthlySummary, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}
	var out *MonthlySummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		var err error
		out, err = summarize(tx, userID, year, month)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SpendingTrend returns periods consecutive monthly summaries ending at the
// current month, most recent first.
func (s *ReportService) SpendingTrend(ctx context.Context, userID uint, periods int) ([]MonthlySummary, error) {
	trend := []MonthlySummary{}
	if periods <= 0 {
		return trend, nil
	}

	now := s.now().UTC()
	year, month := now.Year(), int(now.Month())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := userExists(tx, userID); err != nil {
			return err
		}
		for i := 0; i < periods; i++ {
			sum, err := summarize(tx, userID, year, month)
			if err != nil {
				return err
			}
			trend = append(trend, *sum)
			year, month = prevMonth(year, month)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trend, nil
}

type typeTotal struct {
	Type  models.TransactionType
	Total int64
}

type categoryTotal struct {
	Name  string
	Total int64
}

func summarize(tx *gorm.DB, userID uint, year, month int) (*MonthlySummary, error) {
	start, end := monthBounds(year, month)

	var totals []typeTotal
	err := tx.Model(&models.Transaction{}).
		Select("type, CAST(SUM(amount_cents) AS BIGINT) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("type").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("sum transactions: %w", err)
	}

	var byCategory []categoryTotal
	err = tx.Model(&models.Transaction{}).
		Select("categories.name AS name, CAST(SUM(transactions.amount_cents) AS BIGINT) AS total").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.type = ? AND transactions.date >= ? AND transactions.date < ?",
			userID, models.TransactionExpense, start, end).
		Group("categories.name").
		Scan(&byCategory).Error
	if err != nil {
		return nil, fmt.Errorf("sum expenses by category: %w", err)
	}

	var income, expense int64
	for _, t := range totals {
		switch t.Type {
		case models.TransactionIncome:
			income = t.Total
		case models.TransactionExpense:
			expense = t.Total
		}
	}

	sum := &MonthlySummary{
		Year:               year,
		Month:              month,
		TotalIncome:        models.FromCents(income),
		TotalExpenses:      models.FromCents(expense),
		ExpensesByCategory: make(map[string]float64, len(byCategory)),
		NetSavings:         models.FromCents(income - expense),
	}
	for _, c := range byCategory {
		sum.ExpensesByCategory[c.Name] = models.FromCents(c.Total)
	}
	return sum, nil
}
