package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/uuid"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every user made by CreateTestUser.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a password user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a password user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	hashed := string(hash)

	user := &models.User{
		Email:        email,
		DisplayName:  fmt.Sprintf("Test User %d", nextID()),
		PasswordHash: &hashed,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGoogleUser creates a federated-only user linked to subject.
func CreateTestGoogleUser(t *testing.T, db *gorm.DB, subject, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:           email,
		DisplayName:     fmt.Sprintf("Google User %d", nextID()),
		GoogleSubjectID: &subject,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test google user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category of the given type for owner.
func CreateTestCategory(t *testing.T, db *gorm.DB, owner models.Owner, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Owner: owner,
		Name:  fmt.Sprintf("Test Category %d", nextID()),
		Type:  categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestAccount creates an account for owner.
func CreateTestAccount(t *testing.T, db *gorm.DB, owner models.Owner) *models.Account {
	t.Helper()

	account := &models.Account{
		Owner: owner,
		Name:  fmt.Sprintf("Test Account %d", nextID()),
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction records amount against the given category and account.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, categoryID, accountID uuid.UUID, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date.UTC(),
		CategoryID:      categoryID,
		AccountID:       accountID,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
