package service

import (
	"math"
	"time"

	"budget-planner/internal/util"
)

func (s *ServiceSuite) TestGoalCreate() {
	alice := s.mustUser("alice")
	s.goals.now = fixedClock(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	due := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	g, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Bike", TargetAmount: 500, TargetDate: &due})
	s.Require().NoError(err)
	s.Equal(500.0, g.TargetAmount())
	s.Equal(0.0, g.CurrentAmount())
	s.Equal(0.0, g.ProgressPercentage())
	s.Require().NotNil(g.TargetDate)
	s.True(due.Equal(*g.TargetDate))

	g, err = s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Seeded", TargetAmount: 200, CurrentAmount: 50})
	s.Require().NoError(err)
	s.Equal(25.0, g.ProgressPercentage())

	_, err = s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Bad", TargetAmount: 0})
	s.ErrorIs(err, ErrInvalidAmount)
	_, err = s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Bad", TargetAmount: 10, CurrentAmount: -1})
	s.ErrorIs(err, ErrInvalidAmount)
	_, err = s.goals.Create(s.ctx, 9999, GoalInput{Name: "Ghost", TargetAmount: 10})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestGoalContributeIsAdditive() {
	alice := s.mustUser("alice")
	a, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "A", TargetAmount: 1000})
	s.Require().NoError(err)
	b, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "B", TargetAmount: 1000})
	s.Require().NoError(err)

	_, err = s.goals.Contribute(s.ctx, a.ID, alice.ID, 100)
	s.Require().NoError(err)
	a, err = s.goals.Contribute(s.ctx, a.ID, alice.ID, 50)
	s.Require().NoError(err)

	b, err = s.goals.Contribute(s.ctx, b.ID, alice.ID, 150)
	s.Require().NoError(err)

	s.Equal(b.CurrentCents, a.CurrentCents)
	s.Equal(150.0, a.CurrentAmount())
}

func (s *ServiceSuite) TestGoalContributePastTarget() {
	alice := s.mustUser("alice")
	g, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Trip", TargetAmount: 100, CurrentAmount: 90})
	s.Require().NoError(err)

	g, err = s.goals.Contribute(s.ctx, g.ID, alice.ID, 60)
	s.Require().NoError(err)
	s.Equal(150.0, g.CurrentAmount())
	s.Equal(100.0, g.ProgressPercentage())

	_, err = s.goals.Contribute(s.ctx, g.ID, alice.ID, 0)
	s.ErrorIs(err, ErrInvalidAmount)

	bob := s.mustUser("bob")
	_, err = s.goals.Contribute(s.ctx, g.ID, bob.ID, 10)
	s.ErrorIs(err, ErrNotFound)

	g, err = s.goals.Get(s.ctx, g.ID, alice.ID)
	s.Require().NoError(err)
	s.Equal(150.0, g.CurrentAmount())
}

func (s *ServiceSuite) TestGoalAmountBounds() {
	alice := s.mustUser("alice")

	_, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Huge", TargetAmount: 10, CurrentAmount: 92233720368547000})
	s.ErrorIs(err, ErrInvalidAmount)
	_, err = s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Huge", TargetAmount: util.MaxAmount})
	s.ErrorIs(err, ErrInvalidAmount)
	_, err = s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "NaN", TargetAmount: math.NaN()})
	s.ErrorIs(err, ErrInvalidAmount)

	g, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Max", TargetAmount: 100, CurrentAmount: util.MaxAmount - 0.01})
	s.Require().NoError(err)

	huge := 1e300
	_, err = s.goals.Update(s.ctx, g.ID, alice.ID, GoalUpdate{CurrentAmount: &huge})
	s.ErrorIs(err, ErrInvalidAmount)
	_, err = s.goals.Update(s.ctx, g.ID, alice.ID, GoalUpdate{TargetAmount: &huge})
	s.ErrorIs(err, ErrInvalidAmount)
	_, err = s.goals.Contribute(s.ctx, g.ID, alice.ID, huge)
	s.ErrorIs(err, ErrInvalidAmount)

	// rejected updates leave the row alone
	g, err = s.goals.Contribute(s.ctx, g.ID, alice.ID, util.MaxAmount-0.01)
	s.Require().NoError(err)
	s.Equal(int64(2*(util.MaxAmount*100-1)), g.CurrentCents)
	s.Equal(int64(10000), g.TargetCents)
}

func (s *ServiceSuite) TestGoalUpdate() {
	alice := s.mustUser("alice")
	due := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	g, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: "Car", TargetAmount: 5000, TargetDate: &due})
	s.Require().NoError(err)

	name := "New car"
	target := 8000.0
	g, err = s.goals.Update(s.ctx, g.ID, alice.ID, GoalUpdate{Name: &name, TargetAmount: &target})
	s.Require().NoError(err)
	s.Equal("New car", g.Name)
	s.Equal(8000.0, g.TargetAmount())
	s.Require().NotNil(g.TargetDate)

	// clearing wins over a supplied date
	later := due.AddDate(1, 0, 0)
	g, err = s.goals.Update(s.ctx, g.ID, alice.ID, GoalUpdate{TargetDate: &later, ClearTargetDate: true})
	s.Require().NoError(err)
	s.Nil(g.TargetDate)

	g, err = s.goals.Update(s.ctx, g.ID, alice.ID, GoalUpdate{TargetDate: &later})
	s.Require().NoError(err)
	s.Require().NotNil(g.TargetDate)
	s.True(later.Equal(*g.TargetDate))

	zero := 0.0
	_, err = s.goals.Update(s.ctx, g.ID, alice.ID, GoalUpdate{TargetAmount: &zero})
	s.ErrorIs(err, ErrInvalidAmount)

	bob := s.mustUser("bob")
	_, err = s.goals.Update(s.ctx, g.ID, bob.ID, GoalUpdate{Name: &name})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestGoalListAndDelete() {
	alice := s.mustUser("alice")
	bob := s.mustUser("bob")
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uint
	for i, name := range []string{"first", "second", "third"} {
		s.goals.now = fixedClock(base.AddDate(0, 0, i))
		g, err := s.goals.Create(s.ctx, alice.ID, GoalInput{Name: name, TargetAmount: 10})
		s.Require().NoError(err)
		ids = append(ids, g.ID)
	}
	_, err := s.goals.Create(s.ctx, bob.ID, GoalInput{Name: "bob", TargetAmount: 10})
	s.Require().NoError(err)

	list, err := s.goals.List(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"third", "second", "first"}, []string{list[0].Name, list[1].Name, list[2].Name})

	s.ErrorIs(s.goals.Delete(s.ctx, ids[0], bob.ID), ErrNotFound)
	s.Require().NoError(s.goals.Delete(s.ctx, ids[0], alice.ID))
	_, err = s.goals.Get(s.ctx, ids[0], alice.ID)
	s.ErrorIs(err, ErrNotFound)
}
