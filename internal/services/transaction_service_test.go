package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"expensetracker/internal/database"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/testutil"
	"expensetracker/internal/uuid"
)

type ledgerFixture struct {
	db       *gorm.DB
	svc      TransactionServicer
	owner    *models.User
	other    *models.User
	category *models.Category
	account  *models.Account
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := testutil.SetupSeededTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	owner := testutil.CreateTestUser(t, db)
	return &ledgerFixture{
		db:       db,
		svc:      NewTransactionService(db),
		owner:    owner,
		other:    testutil.CreateTestUser(t, db),
		category: testutil.CreateTestCategory(t, db, models.OwnedBy(owner.ID), models.CategoryTypeExpense),
		account:  testutil.CreateTestAccount(t, db, models.OwnedBy(owner.ID)),
	}
}

func (f *ledgerFixture) input(amount string, date time.Time) TransactionInput {
	return TransactionInput{
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date,
		CategoryID:      f.category.ID,
		AccountID:       f.account.ID,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves_display_fields", func(t *testing.T) {
		f := newLedgerFixture(t)
		notes := "lunch"
		in := f.input("42.50", day(2024, 1, 1))
		in.Notes = &notes

		tx, err := f.svc.CreateTransaction(ctx, f.owner.ID, in)
		testutil.AssertNoError(t, err)

		if tx.ID == uuid.Nil {
			t.Fatal("expected transaction ID")
		}
		if !tx.Amount.Equal(decimal.RequireFromString("42.50")) {
			t.Errorf("expected amount 42.50, got %s", tx.Amount)
		}
		if tx.Category.Name != f.category.Name {
			t.Errorf("expected category name %q, got %q", f.category.Name, tx.Category.Name)
		}
		if tx.Category.Type != models.CategoryTypeExpense {
			t.Errorf("expected category type Expense, got %s", tx.Category.Type)
		}
		if tx.Account.Name != f.account.Name {
			t.Errorf("expected account name %q, got %q", f.account.Name, tx.Account.Name)
		}
		if tx.UserID != f.owner.ID {
			t.Errorf("expected owner %s, got %s", f.owner.ID, tx.UserID)
		}
	})

	t.Run("system_references_allowed", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input("-12.00", day(2024, 2, 1))
		in.CategoryID = database.DefaultCategoryID("Food")
		in.AccountID = database.DefaultAccountID("Cash")

		tx, err := f.svc.CreateTransaction(ctx, f.other.ID, in)
		testutil.AssertNoError(t, err)
		if tx.Category.Name != "Food" || tx.Account.Name != "Cash" {
			t.Errorf("expected Food/Cash, got %s/%s", tx.Category.Name, tx.Account.Name)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input("1.00", day(2024, 1, 1))
		in.CategoryID = uuid.New()

		_, err := f.svc.CreateTransaction(ctx, f.owner.ID, in)
		testutil.AssertAppError(t, err, "UNKNOWN_CATEGORY")
	})

	t.Run("unknown_account", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input("1.00", day(2024, 1, 1))
		in.AccountID = uuid.New()

		_, err := f.svc.CreateTransaction(ctx, f.owner.ID, in)
		testutil.AssertAppError(t, err, "UNKNOWN_ACCOUNT")
	})

	t.Run("other_users_category_is_unknown", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateTransaction(ctx, f.other.ID, f.input("1.00", day(2024, 1, 1)))
		testutil.AssertAppError(t, err, "UNKNOWN_CATEGORY")
	})

	t.Run("other_users_account_is_unknown", func(t *testing.T) {
		f := newLedgerFixture(t)
		in := f.input("1.00", day(2024, 1, 1))
		in.CategoryID = database.DefaultCategoryID("Food")

		_, err := f.svc.CreateTransaction(ctx, f.other.ID, in)
		testutil.AssertAppError(t, err, "UNKNOWN_ACCOUNT")
	})

	t.Run("too_many_decimals", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("1.005", day(2024, 1, 1)))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_date", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("1.00", time.Time{}))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("owner_only_newest_first", func(t *testing.T) {
		f := newLedgerFixture(t)
		dates := []time.Time{day(2024, 1, 5), day(2024, 3, 1), day(2023, 12, 31)}
		for _, d := range dates {
			_, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("10.00", d))
			testutil.AssertNoError(t, err)
		}
		foodCash := TransactionInput{
			Amount:          decimal.RequireFromString("5.00"),
			TransactionDate: day(2024, 6, 1),
			CategoryID:      database.DefaultCategoryID("Food"),
			AccountID:       database.DefaultAccountID("Cash"),
		}
		_, err := f.svc.CreateTransaction(ctx, f.other.ID, foodCash)
		testutil.AssertNoError(t, err)

		txs, total, err := f.svc.ListTransactions(ctx, f.owner.ID, nil)
		testutil.AssertNoError(t, err)

		if total != 3 || len(txs) != 3 {
			t.Fatalf("expected 3 transactions, got %d (total %d)", len(txs), total)
		}
		for i := 1; i < len(txs); i++ {
			if txs[i].TransactionDate.After(txs[i-1].TransactionDate) {
				t.Errorf("transactions not ordered newest first at index %d", i)
			}
		}
		if txs[0].Category.Name == "" || txs[0].Account.Name == "" {
			t.Error("expected category and account to be loaded")
		}
	})

	t.Run("empty", func(t *testing.T) {
		f := newLedgerFixture(t)

		txs, total, err := f.svc.ListTransactions(ctx, f.owner.ID, nil)
		testutil.AssertNoError(t, err)
		if txs == nil || len(txs) != 0 || total != 0 {
			t.Errorf("expected empty non-nil list, got %v (total %d)", txs, total)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		f := newLedgerFixture(t)
		for i := 1; i <= 5; i++ {
			testutil.CreateTestTransaction(t, f.db, f.owner.ID, f.category.ID, f.account.ID, "1.00", day(2024, 1, i))
		}

		txs, total, err := f.svc.ListTransactions(ctx, f.owner.ID, &pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
		if len(txs) != 2 {
			t.Fatalf("expected 2 items on page 2, got %d", len(txs))
		}
		if !txs[0].TransactionDate.Equal(day(2024, 1, 3)) {
			t.Errorf("expected page 2 to start at 2024-01-03, got %s", txs[0].TransactionDate)
		}
	})
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	notes := "雜貨 groceries"
	in := f.input("42.50", day(2024, 1, 1))
	in.Notes = &notes

	created, err := f.svc.CreateTransaction(ctx, f.owner.ID, in)
	testutil.AssertNoError(t, err)

	txs, _, err := f.svc.ListTransactions(ctx, f.owner.ID, nil)
	testutil.AssertNoError(t, err)

	var got *models.Transaction
	for i := range txs {
		if txs[i].ID == created.ID {
			got = &txs[i]
		}
	}
	if got == nil {
		t.Fatal("created transaction not found in list")
	}
	if got.Amount.StringFixed(2) != "42.50" {
		t.Errorf("amount = %s, want 42.50", got.Amount.StringFixed(2))
	}
	if !got.TransactionDate.Equal(in.TransactionDate) {
		t.Errorf("date = %s, want %s", got.TransactionDate, in.TransactionDate)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Errorf("notes = %v, want %q", got.Notes, notes)
	}
	if got.CategoryID != in.CategoryID || got.AccountID != in.AccountID {
		t.Error("category/account ids changed on round trip")
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("owner_overwrites_all_fields", func(t *testing.T) {
		f := newLedgerFixture(t)
		created, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("10.00", day(2024, 1, 1)))
		testutil.AssertNoError(t, err)

		income := testutil.CreateTestCategory(t, f.db, models.OwnedBy(f.owner.ID), models.CategoryTypeIncome)
		notes := "refund"
		updated, err := f.svc.UpdateTransaction(ctx, f.owner.ID, created.ID, TransactionInput{
			Amount:          decimal.RequireFromString("99.99"),
			TransactionDate: day(2024, 2, 2),
			Notes:           &notes,
			CategoryID:      income.ID,
			AccountID:       database.DefaultAccountID("Bank"),
		})
		testutil.AssertNoError(t, err)

		if !updated.Amount.Equal(decimal.RequireFromString("99.99")) {
			t.Errorf("expected amount 99.99, got %s", updated.Amount)
		}
		if updated.Category.Name != income.Name || updated.Category.Type != models.CategoryTypeIncome {
			t.Errorf("expected category %s/Income, got %s/%s", income.Name, updated.Category.Name, updated.Category.Type)
		}
		if updated.Account.Name != "Bank" {
			t.Errorf("expected account Bank, got %s", updated.Account.Name)
		}
		if updated.UserID != f.owner.ID || updated.ID != created.ID {
			t.Error("id and owner must not change")
		}

		txs, _, err := f.svc.ListTransactions(ctx, f.owner.ID, nil)
		testutil.AssertNoError(t, err)
		if len(txs) != 1 || !txs[0].TransactionDate.Equal(day(2024, 2, 2)) {
			t.Error("update not reflected in list")
		}
	})

	t.Run("clears_notes", func(t *testing.T) {
		f := newLedgerFixture(t)
		notes := "temp"
		in := f.input("10.00", day(2024, 1, 1))
		in.Notes = &notes
		created, err := f.svc.CreateTransaction(ctx, f.owner.ID, in)
		testutil.AssertNoError(t, err)

		updated, err := f.svc.UpdateTransaction(ctx, f.owner.ID, created.ID, f.input("10.00", day(2024, 1, 1)))
		testutil.AssertNoError(t, err)
		if updated.Notes != nil {
			t.Errorf("expected notes cleared, got %q", *updated.Notes)
		}
	})

	t.Run("not_owner_forbidden", func(t *testing.T) {
		f := newLedgerFixture(t)
		created, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("10.00", day(2024, 1, 1)))
		testutil.AssertNoError(t, err)

		in := f.input("1.00", day(2024, 1, 1))
		in.CategoryID = database.DefaultCategoryID("Food")
		in.AccountID = database.DefaultAccountID("Cash")
		_, err = f.svc.UpdateTransaction(ctx, f.other.ID, created.ID, in)
		testutil.AssertAppError(t, err, "FORBIDDEN")

		var stored models.Transaction
		f.db.First(&stored, "id = ?", created.ID)
		if !stored.Amount.Equal(decimal.RequireFromString("10.00")) {
			t.Errorf("forbidden update must not change the row, amount is %s", stored.Amount)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		f := newLedgerFixture(t)

		_, err := f.svc.UpdateTransaction(ctx, f.owner.ID, uuid.New(), f.input("1.00", day(2024, 1, 1)))
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("invisible_reference", func(t *testing.T) {
		f := newLedgerFixture(t)
		created, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("10.00", day(2024, 1, 1)))
		testutil.AssertNoError(t, err)

		foreign := testutil.CreateTestCategory(t, f.db, models.OwnedBy(f.other.ID), models.CategoryTypeExpense)
		in := f.input("10.00", day(2024, 1, 1))
		in.CategoryID = foreign.ID
		_, err = f.svc.UpdateTransaction(ctx, f.owner.ID, created.ID, in)
		testutil.AssertAppError(t, err, "UNKNOWN_CATEGORY")
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("owner_deletes", func(t *testing.T) {
		f := newLedgerFixture(t)
		created, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("10.00", day(2024, 1, 1)))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, f.svc.DeleteTransaction(ctx, f.owner.ID, created.ID))

		var count int64
		f.db.Model(&models.Transaction{}).Where("id = ?", created.ID).Count(&count)
		if count != 0 {
			t.Error("expected row to be removed permanently")
		}

		err = f.svc.DeleteTransaction(ctx, f.owner.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("not_owner_forbidden", func(t *testing.T) {
		f := newLedgerFixture(t)
		created, err := f.svc.CreateTransaction(ctx, f.owner.ID, f.input("10.00", day(2024, 1, 1)))
		testutil.AssertNoError(t, err)

		err = f.svc.DeleteTransaction(ctx, f.other.ID, created.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")

		txs, _, err := f.svc.ListTransactions(ctx, f.owner.ID, nil)
		testutil.AssertNoError(t, err)
		if len(txs) != 1 {
			t.Error("forbidden delete must not remove the row")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		f := newLedgerFixture(t)

		err := f.svc.DeleteTransaction(ctx, f.owner.ID, uuid.New())
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
