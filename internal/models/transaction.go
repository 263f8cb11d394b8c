package models

import "time"

// Transaction kinds.
const (
	TransactionIncome   = "income"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

// Transaction is a single ledger movement against an account.
// AmountCents is always stored positive; the sign of the balance
// effect is determined by the kind.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	AccountID   uint      `gorm:"index;not null"`
	CategoryID  *uint     `gorm:"index"`
	Date        time.Time `gorm:"index;not null"`
	Description string    `gorm:"size:200;not null"`
	AmountCents int64     `gorm:"not null"` // store in cents to avoid float
	Kind        string    `gorm:"size:16;index;not null"` // income / expense / transfer
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Account  Account   `gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"constraint:OnDelete:RESTRICT"`
}

// ValidTransactionKind reports whether s is a known transaction kind.
func ValidTransactionKind(s string) bool {
	switch s {
	case TransactionIncome, TransactionExpense, TransactionTransfer:
		return true
	}
	return false
}
