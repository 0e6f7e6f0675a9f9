package service

import (
	"time"

	"budget-planner/internal/models"
)

func (s *ServiceSuite) TestTransactionCreate() {
	alice := s.mustUser("alice")
	food := s.mustCategory(alice.ID, "Food")
	desc := "lunch"
	date := time.Date(2025, 3, 10, 12, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))

	t, err := s.transactions.Create(s.ctx, alice.ID, TransactionInput{
		CategoryID:  food.ID,
		Amount:      12.346,
		Type:        models.TransactionExpense,
		Date:        date,
		Description: &desc,
	})
	s.Require().NoError(err)
	s.Equal(int64(1235), t.AmountCents)
	s.Equal(12.35, t.Amount())
	s.Equal("Food", t.Category.Name)
	s.True(date.Equal(t.Date))
	s.Require().NotNil(t.Description)
	s.Equal("lunch", *t.Description)
}

func (s *ServiceSuite) TestTransactionCreateDefaultsDate() {
	alice := s.mustUser("alice")
	food := s.mustCategory(alice.ID, "Food")
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	s.transactions.now = fixedClock(now)

	t := s.mustTransaction(alice.ID, food.ID, models.TransactionIncome, 5, time.Time{})
	s.True(now.Equal(t.Date))
	s.Nil(t.Description)
}

func (s *ServiceSuite) TestTransactionCreateForeignCategory() {
	alice := s.mustUser("alice")
	bob := s.mustUser("bob")
	bobs := s.mustCategory(bob.ID, "Bob's")

	_, err := s.transactions.Create(s.ctx, alice.ID, TransactionInput{
		CategoryID: bobs.ID,
		Amount:     10,
		Type:       models.TransactionExpense,
	})
	s.ErrorIs(err, ErrInvalidCategory)

	_, err = s.transactions.Create(s.ctx, alice.ID, TransactionInput{
		CategoryID: 9999,
		Amount:     10,
		Type:       models.TransactionExpense,
	})
	s.ErrorIs(err, ErrInvalidCategory)

	var count int64
	s.Require().NoError(s.db.Model(&models.Transaction{}).Count(&count).Error)
	s.Zero(count)
}

func (s *ServiceSuite) TestTransactionCreateValidation() {
	alice := s.mustUser("alice")
	food := s.mustCategory(alice.ID, "Food")

	for _, amount := range []float64{0, -1, 0.004} {
		_, err := s.transactions.Create(s.ctx, alice.ID, TransactionInput{
			CategoryID: food.ID, Amount: amount, Type: models.TransactionExpense,
		})
		s.ErrorIs(err, ErrInvalidAmount, "amount %v", amount)
	}

	_, err := s.transactions.Create(s.ctx, alice.ID, TransactionInput{
		CategoryID: food.ID, Amount: 1, Type: models.TransactionType("transfer"),
	})
	s.ErrorIs(err, ErrInvalidType)
}

func (s *ServiceSuite) TestTransactionUpdateForeignCategoryIsAtomic() {
	alice := s.mustUser("alice")
	bob := s.mustUser("bob")
	food := s.mustCategory(alice.ID, "Food")
	bobs := s.mustCategory(bob.ID, "Bob's")
	t := s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 30, time.Now())

	amount := 99.0
	_, err := s.transactions.Update(s.ctx, t.ID, alice.ID, TransactionUpdate{
		CategoryID: &bobs.ID,
		Amount:     &amount,
	})
	s.ErrorIs(err, ErrInvalidCategory)

	got, err := s.transactions.Get(s.ctx, t.ID, alice.ID)
	s.Require().NoError(err)
	s.Equal(food.ID, got.CategoryID)
	s.Equal(30.0, got.Amount())

	bad := -5.0
	rent := s.mustCategory(alice.ID, "Rent")
	_, err = s.transactions.Update(s.ctx, t.ID, alice.ID, TransactionUpdate{
		CategoryID: &rent.ID,
		Amount:     &bad,
	})
	s.ErrorIs(err, ErrInvalidAmount)

	got, err = s.transactions.Get(s.ctx, t.ID, alice.ID)
	s.Require().NoError(err)
	s.Equal(food.ID, got.CategoryID)
}

func (s *ServiceSuite) TestTransactionUpdate() {
	alice := s.mustUser("alice")
	food := s.mustCategory(alice.ID, "Food")
	rent := s.mustCategory(alice.ID, "Rent")
	desc := "old"
	t, err := s.transactions.Create(s.ctx, alice.ID, TransactionInput{
		CategoryID: food.ID, Amount: 10, Type: models.TransactionExpense,
		Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Description: &desc,
	})
	s.Require().NoError(err)

	income := models.TransactionIncome
	date := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	empty := ""
	got, err := s.transactions.Update(s.ctx, t.ID, alice.ID, TransactionUpdate{
		CategoryID:  &rent.ID,
		Type:        &income,
		Date:        &date,
		Description: &empty,
	})
	s.Require().NoError(err)
	s.Equal(rent.ID, got.CategoryID)
	s.Equal("Rent", got.Category.Name)
	s.Equal(models.TransactionIncome, got.Type)
	s.True(date.Equal(got.Date))
	s.Nil(got.Description)
	s.Equal(10.0, got.Amount())

	// nothing to change
	got, err = s.transactions.Update(s.ctx, t.ID, alice.ID, TransactionUpdate{})
	s.Require().NoError(err)
	s.Equal(rent.ID, got.CategoryID)

	bob := s.mustUser("bob")
	_, err = s.transactions.Update(s.ctx, t.ID, bob.ID, TransactionUpdate{Type: &income})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestTransactionListOrderAndPaging() {
	alice := s.mustUser("alice")
	bob := s.mustUser("bob")
	food := s.mustCategory(alice.ID, "Food")
	bobFood := s.mustCategory(bob.ID, "Food")

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 1, base)
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 3, base.AddDate(0, 0, 2))
	s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 2, base.AddDate(0, 0, 1))
	s.mustTransaction(bob.ID, bobFood.ID, models.TransactionExpense, 50, base.AddDate(0, 0, 5))

	list, err := s.transactions.List(s.ctx, alice.ID, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]float64{3, 2, 1}, []float64{list[0].Amount(), list[1].Amount(), list[2].Amount()})
	s.Equal("Food", list[0].Category.Name)

	page, err := s.transactions.List(s.ctx, alice.ID, 1, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(2.0, page[0].Amount())

	all, err := s.transactions.ListAll(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *ServiceSuite) TestTransactionGetAndDeleteScoped() {
	alice := s.mustUser("alice")
	bob := s.mustUser("bob")
	food := s.mustCategory(alice.ID, "Food")
	t := s.mustTransaction(alice.ID, food.ID, models.TransactionExpense, 5, time.Now())

	_, err := s.transactions.Get(s.ctx, t.ID, bob.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.transactions.Delete(s.ctx, t.ID, bob.ID), ErrNotFound)

	s.Require().NoError(s.transactions.Delete(s.ctx, t.ID, alice.ID))
	_, err = s.transactions.Get(s.ctx, t.ID, alice.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.transactions.Delete(s.ctx, t.ID, alice.ID), ErrNotFound)
}
