package models

import "time"

// Goal is a savings target. CurrentCents may grow past TargetCents.
type Goal struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       uint       `gorm:"index;not null"`
	Name         string     `gorm:"size:100;index;not null"`
	TargetCents  int64      `gorm:"not null"`
	CurrentCents int64      `gorm:"not null;default:0"`
	TargetDate   *time.Time
	CreationDate time.Time `gorm:"index;not null"`
	UpdatedAt    time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

func (g *Goal) TargetAmount() float64  { return FromCents(g.TargetCents) }
func (g *Goal) CurrentAmount() float64 { return FromCents(g.CurrentCents) }

// ProgressPercentage is derived on every read, never persisted.
func (g *Goal) ProgressPercentage() float64 {
	return ProgressPercentage(g.CurrentAmount(), g.TargetAmount())
}

// ProgressPercentage returns current/target as a percentage clamped to 100
// and rounded to 2 decimals. A non-positive target yields 0.
func ProgressPercentage(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return Round2(min(current/target, 1) * 100)
}
