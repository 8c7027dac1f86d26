package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "Expense"
	CategoryTypeIncome  CategoryType = "Income"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeExpense || t == CategoryTypeIncome
}

// Category represents a transaction category. System categories are shared
// by every user; owned categories are private to one.
type Category struct {
	Base
	Owner Owner        `gorm:"column:user_id;type:uuid;index" json:"-"`
	Name  string       `gorm:"not null" json:"name"`
	Type  CategoryType `gorm:"not null;default:Expense" json:"type"`
}
