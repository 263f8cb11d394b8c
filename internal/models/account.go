package models

import "time"

// Account kinds.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
	AccountCredit     = "credit"
)

// Account is a bank or investment account owned by one user.
// BalanceCents must always equal the opening balance plus the signed
// sum of the account's income/expense transactions.
type Account struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index;not null"`
	Name         string `gorm:"size:100;not null"`
	Kind         string `gorm:"size:16;index;not null"` // checking / savings / investment / credit
	BalanceCents int64  `gorm:"not null;default:0"`

	BankName      string `gorm:"size:100"`
	RoutingNumber string `gorm:"size:9"`

	AccountNumberEnc   string `gorm:"size:255"` // full account number, AES-GCM + base64
	AccountNumberLast4 string `gorm:"size:4"`   // derived from the full value, never edited directly

	CreatedAt time.Time
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// ValidAccountKind reports whether s is a known account kind.
func ValidAccountKind(s string) bool {
	switch s {
	case AccountChecking, AccountSavings, AccountInvestment, AccountCredit:
		return true
	}
	return false
}
