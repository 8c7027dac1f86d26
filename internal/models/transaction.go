package models

import (
	"time"

	"expensetracker/internal/uuid"

	"github.com/shopspring/decimal"
)

// Transaction represents a single money movement recorded by one user.
type Transaction struct {
	Base
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transactionDate"`
	Notes           *string         `json:"notes,omitempty"`
	CategoryID      uuid.UUID       `gorm:"type:uuid;not null" json:"categoryId"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null" json:"accountId"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
	Account  Account  `gorm:"foreignKey:AccountID" json:"-"`
}
