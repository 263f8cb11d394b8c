package models

import "time"

// MonthlyBudget stores a user's budgeted income and expense totals for
// one calendar month. One row per (user, month, year).
type MonthlyBudget struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"not null;uniqueIndex:uniq_budget_per_period"`
	Month  int  `gorm:"not null;uniqueIndex:uniq_budget_per_period"`
	Year   int  `gorm:"not null;uniqueIndex:uniq_budget_per_period"`

	BudgetedIncomeCents  int64 `gorm:"not null;default:0"`
	BudgetedExpenseCents int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// BudgetedNetCents returns budgeted income minus budgeted expenses.
func (b *MonthlyBudget) BudgetedNetCents() int64 {
	return b.BudgetedIncomeCents - b.BudgetedExpenseCents
}
