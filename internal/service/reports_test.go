package service

import (
	"time"

	"budget-planner/internal/models"
)

func (s *ServiceSuite) TestMonthlySummaryScenario() {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	s.reports.now = fixedClock(now)

	alice, err := s.users.Create(s.ctx, "alice", "secret1")
	s.Require().NoError(err)
	food := s.mustCategory(alice.ID, "Food")
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 30.0, now)

	sum, err := s.reports.MonthlySummary(s.ctx, alice.ID, 2025, 3)
	s.Require().NoError(err)
	s.Equal(30.0, sum.TotalExpenses)
	s.Equal(0.0, sum.TotalIncome)
	s.Equal(map[string]float64{"Food": 30.0}, sum.ExpensesByCategory)
	s.Equal(-30.0, sum.NetSavings)
}

func (s *ServiceSuite) TestMonthlySummaryTotals() {
	alice := s.mustUser("alice")
	bob := s.mustUser("bob")
	food := s.mustCategory(alice.ID, "Food")
	rent := s.mustCategory(alice.ID, "Rent")
	salary := s.mustCategory(alice.ID, "Salary")
	bobFood := s.mustCategory(bob.ID, "Food")

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.mustTransaction(alice.ID, salary.ID, models.TransactionIncome, 2500.10, march)
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 10.10, march.AddDate(0, 0, 3))
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 20.20, march.AddDate(0, 0, 4))
	s.mustTransaction(alice.ID, rent.ID, models.TransactionExpense, 1000, march.Add(31*24*time.Hour-time.Second))
	// outside the month
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 7, march.Add(-time.Second))
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 7, march.AddDate(0, 1, 0))
	// another user
	s.mustTransaction(bob.ID, bobFood.ID, models.TransactionExpense, 500, march.AddDate(0, 0, 2))

	sum, err := s.reports.MonthlySummary(s.ctx, alice.ID, 2025, 3)
	s.Require().NoError(err)
	s.Equal(2025, sum.Year)
	s.Equal(3, sum.Month)
	s.Equal(2500.10, sum.TotalIncome)
	s.Equal(1030.30, sum.TotalExpenses)
	s.Equal(map[string]float64{"Food": 30.30, "Rent": 1000}, sum.ExpensesByCategory)
	s.Equal(1469.80, sum.NetSavings)
}

func (s *ServiceSuite) TestMonthlySummaryEmptyAndInvalid() {
	alice := s.mustUser("alice")

	sum, err := s.reports.MonthlySummary(s.ctx, alice.ID, 2024, 2)
	s.Require().NoError(err)
	s.Zero(sum.TotalIncome)
	s.Zero(sum.TotalExpenses)
	s.Zero(sum.NetSavings)
	s.NotNil(sum.ExpensesByCategory)
	s.Empty(sum.ExpensesByCategory)

	_, err = s.reports.MonthlySummary(s.ctx, alice.ID, 2024, 13)
	s.ErrorIs(err, ErrInvalidPeriod)
	_, err = s.reports.MonthlySummary(s.ctx, alice.ID, 2024, 0)
	s.ErrorIs(err, ErrInvalidPeriod)
	_, err = s.reports.MonthlySummary(s.ctx, 9999, 2024, 1)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestSpendingTrendInMarch() {
	s.reports.now = fixedClock(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	alice := s.mustUser("alice")
	food := s.mustCategory(alice.ID, "Food")
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 40, time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC))

	trend, err := s.reports.SpendingTrend(s.ctx, alice.ID, 3)
	s.Require().NoError(err)
	s.Require().Len(trend, 3)
	s.Equal([2]int{2025, 3}, [2]int{trend[0].Year, trend[0].Month})
	s.Equal([2]int{2025, 2}, [2]int{trend[1].Year, trend[1].Month})
	s.Equal([2]int{2025, 1}, [2]int{trend[2].Year, trend[2].Month})
	s.Equal(40.0, trend[1].TotalExpenses)
	s.Zero(trend[0].TotalExpenses)
}

func (s *ServiceSuite) TestSpendingTrendCrossesYear() {
	s.reports.now = fixedClock(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))
	alice := s.mustUser("alice")
	food := s.mustCategory(alice.ID, "Food")
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 12, time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))

	trend, err := s.reports.SpendingTrend(s.ctx, alice.ID, 3)
	s.Require().NoError(err)
	s.Require().Len(trend, 3)
	s.Equal([2]int{2025, 1}, [2]int{trend[0].Year, trend[0].Month})
	s.Equal([2]int{2024, 12}, [2]int{trend[1].Year, trend[1].Month})
	s.Equal([2]int{2024, 11}, [2]int{trend[2].Year, trend[2].Month})
	s.Equal(map[string]float64{"Food": 12}, trend[1].ExpensesByCategory)
}

func (s *ServiceSuite) TestSpendingTrendNoPeriods() {
	alice := s.mustUser("alice")

	trend, err := s.reports.SpendingTrend(s.ctx, alice.ID, 0)
	s.Require().NoError(err)
	s.NotNil(trend)
	s.Empty(trend)
}
