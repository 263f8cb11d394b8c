package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a holding attached to an investment account.
// Shares and prices are decimals because fractional shares exist.
type Investment struct {
	ID            uint            `gorm:"primaryKey"`
	AccountID     uint            `gorm:"index;not null"`
	Symbol        string          `gorm:"size:10;not null"`
	Name          string          `gorm:"size:200;not null"`
	Shares        decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	CurrentPrice  decimal.NullDecimal `gorm:"type:decimal(20,8)"` // user-supplied, no price feed
	PurchaseDate  time.Time       `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Account Account `gorm:"constraint:OnDelete:CASCADE"`
}

// EffectivePrice is the current price when set, else the purchase price.
func (i *Investment) EffectivePrice() decimal.Decimal {
	if i.CurrentPrice.Valid {
		return i.CurrentPrice.Decimal
	}
	return i.PurchasePrice
}

// TotalValue returns shares x effective price.
func (i *Investment) TotalValue() decimal.Decimal {
	return i.Shares.Mul(i.EffectivePrice())
}

// GainLoss returns (effective price - purchase price) x shares.
// Zero while no current price has been recorded.
func (i *Investment) GainLoss() decimal.Decimal {
	return i.EffectivePrice().Sub(i.PurchasePrice).Mul(i.Shares)
}
