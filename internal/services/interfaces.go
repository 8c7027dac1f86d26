package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/federated"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/uuid"
)

// AuthServicer defines the contract for sign-up and sign-in.
type AuthServicer interface {
	Register(ctx context.Context, email, displayName, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	GoogleLogin(ctx context.Context, idToken string) (string, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// FederatedVerifier validates an external ID token. Implemented by
// federated.GoogleVerifier.
type FederatedVerifier interface {
	Verify(ctx context.Context, idToken string) (*federated.Identity, error)
}

// IdentityReconciler maps a verified external identity to a local user.
type IdentityReconciler interface {
	Reconcile(ctx context.Context, identity *federated.Identity) (*models.User, error)
}

// TokenIssuer mints session tokens. Implemented by token.Issuer.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	ListCategories(ctx context.Context, callerID uuid.UUID) ([]models.Category, error)
	CreateCategory(ctx context.Context, callerID uuid.UUID, name string, categoryType models.CategoryType) (*models.Category, error)
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	ListAccounts(ctx context.Context, callerID uuid.UUID) ([]models.Account, error)
	CreateAccount(ctx context.Context, callerID uuid.UUID, name string, initialBalance decimal.Decimal) (*models.Account, error)
}

// TransactionInput carries every field a caller may set on a transaction.
type TransactionInput struct {
	Amount          decimal.Decimal
	TransactionDate time.Time
	Notes           *string
	CategoryID      uuid.UUID
	AccountID       uuid.UUID
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	// ListTransactions returns the caller's transactions, newest first, and the
	// total count. A nil page returns every row.
	ListTransactions(ctx context.Context, callerID uuid.UUID, page *pagination.PageRequest) ([]models.Transaction, int64, error)
	CreateTransaction(ctx context.Context, callerID uuid.UUID, input TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, callerID, transactionID uuid.UUID, input TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, callerID, transactionID uuid.UUID) error
}
