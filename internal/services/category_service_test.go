package services

import (
	"context"
	"strings"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(ctx, user.ID, "  Groceries ", models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)

		if cat.Name != "Groceries" {
			t.Errorf("expected trimmed name Groceries, got %q", cat.Name)
		}
		if id, ok := cat.Owner.UserID(); !ok || id != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, cat.Owner)
		}
	})

	t.Run("defaults_to_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(ctx, user.ID, "Gifts", "")
		testutil.AssertNoError(t, err)
		if cat.Type != models.CategoryTypeExpense {
			t.Errorf("expected type Expense, got %s", cat.Type)
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(ctx, user.ID, "Gifts", "expense")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(ctx, user.ID, "   ", models.CategoryTypeExpense)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("name_length_counts_characters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(ctx, user.ID, strings.Repeat("餐", 50), models.CategoryTypeExpense)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(ctx, user.ID, strings.Repeat("a", 51), models.CategoryTypeExpense)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("system_and_own_only", func(t *testing.T) {
		db := testutil.SetupSeededTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		var systemCount int64
		db.Model(&models.Category{}).Where("user_id IS NULL").Count(&systemCount)

		mine := testutil.CreateTestCategory(t, db, models.OwnedBy(user1.ID), models.CategoryTypeExpense)
		theirs := testutil.CreateTestCategory(t, db, models.OwnedBy(user2.ID), models.CategoryTypeExpense)

		cats, err := svc.ListCategories(ctx, user1.ID)
		testutil.AssertNoError(t, err)

		if int64(len(cats)) != systemCount+1 {
			t.Fatalf("expected %d categories, got %d", systemCount+1, len(cats))
		}
		var sawMine bool
		for _, c := range cats {
			if c.ID == theirs.ID {
				t.Error("another user's category must not be listed")
			}
			if c.ID == mine.ID {
				sawMine = true
			}
			if !c.Owner.VisibleTo(user1.ID) {
				t.Errorf("category %s is not visible to caller", c.Name)
			}
		}
		if !sawMine {
			t.Error("caller's own category missing from list")
		}
	})

	t.Run("new_user_sees_defaults", func(t *testing.T) {
		db := testutil.SetupSeededTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cats, err := svc.ListCategories(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if len(cats) == 0 {
			t.Fatal("expected system categories")
		}
	})
}
