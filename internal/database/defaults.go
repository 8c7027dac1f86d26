package database

import (
	"context"
	"fmt"

	"expensetracker/internal/models"
	"expensetracker/internal/uuid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var defaultCategories = []struct {
	Name string
	Type models.CategoryType
}{
	{"Food", models.CategoryTypeExpense},
	{"Transport", models.CategoryTypeExpense},
	{"Shopping", models.CategoryTypeExpense},
	{"Housing", models.CategoryTypeExpense},
	{"Entertainment", models.CategoryTypeExpense},
	{"Health", models.CategoryTypeExpense},
	{"Salary", models.CategoryTypeIncome},
	{"Bonus", models.CategoryTypeIncome},
	{"Investment", models.CategoryTypeIncome},
}

var defaultAccounts = []string{"Cash", "Bank"}

// DefaultCategoryID returns the fixed id of the system category with name.
func DefaultCategoryID(name string) uuid.UUID {
	return uuid.FromName("category:" + name)
}

// DefaultAccountID returns the fixed id of the system account with name.
func DefaultAccountID(name string) uuid.UUID {
	return uuid.FromName("account:" + name)
}

// SeedDefaults ensures the system categories and accounts exist.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Session(&gorm.Session{})

	for _, d := range defaultCategories {
		cat := models.Category{
			Base:  models.Base{ID: DefaultCategoryID(d.Name)},
			Owner: models.SystemOwner(),
			Name:  d.Name,
			Type:  d.Type,
		}
		if err := tx.Create(&cat).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", d.Name, err)
		}
	}
	for _, name := range defaultAccounts {
		acc := models.Account{
			Base:  models.Base{ID: DefaultAccountID(name)},
			Owner: models.SystemOwner(),
			Name:  name,
		}
		if err := tx.Create(&acc).Error; err != nil {
			return fmt.Errorf("seed account %s: %w", name, err)
		}
	}
	return nil
}
