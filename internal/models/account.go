package models

// Account represents a money container such as a wallet or a bank account.
// Visibility follows the same system/owned rule as Category.
type Account struct {
	Base
	Owner Owner  `gorm:"column:user_id;type:uuid;index" json:"-"`
	Name  string `gorm:"not null" json:"name"`
}
