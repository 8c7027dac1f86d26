package testutil_test

import (
	"testing"
	"time"

	"expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "accounts", "categories", "transactions"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestUser(t, a)

	var count int64
	b.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, got %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupSeededTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if !user.HasPassword() {
		t.Fatal("password user should have a hash")
	}

	google := testutil.CreateTestGoogleUser(t, db, "sub-1", "g@test.com")
	if google.HasPassword() || !google.HasGoogleLink() {
		t.Error("google user should be federated only")
	}

	category := testutil.CreateTestCategory(t, db, models.OwnedBy(user.ID), models.CategoryTypeIncome)
	if category.Type != models.CategoryTypeIncome {
		t.Errorf("expected income category, got %s", category.Type)
	}

	account := testutil.CreateTestAccount(t, db, models.OwnedBy(user.ID))
	var reloaded models.Account
	if err := db.First(&reloaded, "id = ?", account.ID).Error; err != nil {
		t.Fatalf("failed to reload account: %v", err)
	}
	if id, ok := reloaded.Owner.UserID(); !ok || id != user.ID {
		t.Errorf("expected account owned by %s, got %s", user.ID, reloaded.Owner)
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, category.ID, account.ID, "10.25", time.Now())
	if tx.Amount.String() != "10.25" {
		t.Errorf("expected amount 10.25, got %s", tx.Amount)
	}

	var systemCount int64
	db.Model(&models.Category{}).Where("user_id IS NULL").Count(&systemCount)
	if systemCount == 0 {
		t.Error("seeded database should contain system categories")
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrUnknownAccount, "custom message")
	testutil.AssertAppError(t, err, "UNKNOWN_ACCOUNT")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
