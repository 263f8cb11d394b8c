package database

import (
	"fmt"

	"github.com/robertoraimondo/budget/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Investment{},
		&models.MonthlyBudget{},
		&models.Session{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
