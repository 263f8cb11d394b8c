// Package ledger keeps account balances consistent with the net
// effect of their transactions. Every mutation path goes through one
// of the Apply functions inside a store transaction, so the balance
// adjustment and the row write commit together or not at all.
package ledger

import (
	"fmt"

	"github.com/robertoraimondo/budget/internal/models"

	"gorm.io/gorm"
)

// Effect returns the signed balance effect of a transaction:
// +amount for income, -amount for expense. Transfers deliberately
// have no single-account effect.
func Effect(amountCents int64, kind string) int64 {
	switch kind {
	case models.TransactionIncome:
		return amountCents
	case models.TransactionExpense:
		return -amountCents
	default:
		return 0
	}
}

// ApplyCreate writes a new transaction and applies its effect to the
// target account. Must run inside tx.
func ApplyCreate(tx *gorm.DB, t *models.Transaction) error {
	if err := adjustBalance(tx, t.AccountID, Effect(t.AmountCents, t.Kind)); err != nil {
		return err
	}
	if err := tx.Create(t).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ApplyUpdate reverts the stored transaction's effect on its old
// account, applies the new effect to the new account, and saves the
// updated row. Both adjustments run even when the account is
// unchanged; the deltas collapse correctly because addition commutes.
func ApplyUpdate(tx *gorm.DB, old, updated *models.Transaction) error {
	if old.ID != updated.ID {
		return fmt.Errorf("update id mismatch: %d vs %d", old.ID, updated.ID)
	}
	if err := adjustBalance(tx, old.AccountID, -Effect(old.AmountCents, old.Kind)); err != nil {
		return err
	}
	if err := adjustBalance(tx, updated.AccountID, Effect(updated.AmountCents, updated.Kind)); err != nil {
		return err
	}
	if err := tx.Save(updated).Error; err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

// ApplyDelete reverts the transaction's effect, then removes the row.
func ApplyDelete(tx *gorm.DB, t *models.Transaction) error {
	if err := adjustBalance(tx, t.AccountID, -Effect(t.AmountCents, t.Kind)); err != nil {
		return err
	}
	if err := tx.Delete(&models.Transaction{}, t.ID).Error; err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// adjustBalance adds delta to the account balance with a single
// relative UPDATE, so concurrent adjustments cannot lose writes.
func adjustBalance(tx *gorm.DB, accountID uint, delta int64) error {
	if delta == 0 {
		return nil
	}
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		UpdateColumn("balance_cents", gorm.Expr("balance_cents + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("adjust balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("adjust balance: account %d not found", accountID)
	}
	return nil
}
