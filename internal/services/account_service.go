package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

// accountService handles account-related business logic.
type accountService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db, log: logger.Named("accounts")}
}

// ListAccounts returns the system accounts and the caller's own, in
// insertion order.
func (s *accountService) ListAccounts(ctx context.Context, callerID uuid.UUID) ([]models.Account, error) {
	accounts := []models.Account{}
	if err := s.db.WithContext(ctx).
		Scopes(visibleTo(callerID)).
		Order("created_at ASC, id ASC").
		Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// CreateAccount creates an account owned by the caller.
//
// initialBalance is accepted for compatibility with existing clients but not
// stored: the ledger keeps no balances.
func (s *accountService) CreateAccount(ctx context.Context, callerID uuid.UUID, name string, initialBalance decimal.Decimal) (*models.Account, error) {
	name, err := validateName("account", name)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Owner: models.OwnedBy(callerID),
		Name:  name,
	}
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !initialBalance.IsZero() {
		s.log.Debugw("initial balance ignored", "account_id", account.ID, "initial_balance", initialBalance.String())
	}
	return account, nil
}
