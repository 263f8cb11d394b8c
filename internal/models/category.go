package models

import "time"

// Category kinds.
const (
	CategoryIncome     = "income"
	CategoryExpense    = "expense"
	CategoryInvestment = "investment"
)

// Category represents an income/expense/investment category.
// Names are unique per user.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:uniq_category_per_user"`
	Name      string `gorm:"size:100;not null;uniqueIndex:uniq_category_per_user"`
	Kind      string `gorm:"size:16;index;not null"` // income / expense / investment
	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// ValidCategoryKind reports whether s is a known category kind.
func ValidCategoryKind(s string) bool {
	switch s {
	case CategoryIncome, CategoryExpense, CategoryInvestment:
		return true
	}
	return false
}
