package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/pagination"
	"expensetracker/internal/uuid"
)

// maxAmount is the first magnitude numeric(18,2) cannot hold.
var maxAmount = decimal.New(1, 16)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// ListTransactions returns the caller's transactions ordered by date, newest
// first, with category and account loaded. Rows sharing a date come back in
// no particular order.
func (s *transactionService) ListTransactions(ctx context.Context, callerID uuid.UUID, page *pagination.PageRequest) ([]models.Transaction, int64, error) {
	owned := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", callerID)
	}

	var total int64
	if err := owned().Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	q := owned().Preload("Category").Preload("Account").Order("transaction_date DESC")
	if page != nil {
		page.Defaults()
		q = q.Scopes(pagination.Paginate(*page))
	}

	transactions := []models.Transaction{}
	if err := q.Find(&transactions).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, total, nil
}

// CreateTransaction records a transaction for the caller. The category and
// account must be visible to the caller.
func (s *transactionService) CreateTransaction(ctx context.Context, callerID uuid.UUID, input TransactionInput) (*models.Transaction, error) {
	if err := s.validate(ctx, callerID, input); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:          callerID,
		Amount:          input.Amount,
		TransactionDate: input.TransactionDate.UTC(),
		Notes:           input.Notes,
		CategoryID:      input.CategoryID,
		AccountID:       input.AccountID,
	}
	if err := s.db.WithContext(ctx).Omit("Category", "Account").Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.reload(ctx, transaction.ID)
}

// UpdateTransaction overwrites every mutable field of a transaction the
// caller owns. Ownership is matched in the UPDATE itself.
func (s *transactionService) UpdateTransaction(ctx context.Context, callerID, transactionID uuid.UUID, input TransactionInput) (*models.Transaction, error) {
	if err := s.validate(ctx, callerID, input); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", transactionID, callerID).
		Updates(map[string]interface{}{
			"amount":           input.Amount,
			"transaction_date": input.TransactionDate.UTC(),
			"notes":            input.Notes,
			"category_id":      input.CategoryID,
			"account_id":       input.AccountID,
		})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, s.missingOrForbidden(ctx, transactionID)
	}

	return s.reload(ctx, transactionID)
}

// DeleteTransaction permanently removes a transaction the caller owns.
func (s *transactionService) DeleteTransaction(ctx context.Context, callerID, transactionID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", transactionID, callerID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return s.missingOrForbidden(ctx, transactionID)
	}
	return nil
}

// missingOrForbidden explains why a conditional write matched nothing: the
// row either does not exist or belongs to someone else.
func (s *transactionService) missingOrForbidden(ctx context.Context, transactionID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ?", transactionID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return apperrors.ErrForbidden
}

func (s *transactionService) validate(ctx context.Context, callerID uuid.UUID, input TransactionInput) error {
	if input.TransactionDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction date is required")
	}
	if !input.Amount.Equal(input.Amount.Round(2)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most two decimal places")
	}
	if input.Amount.Abs().GreaterThanOrEqual(maxAmount) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount is out of range")
	}

	if err := s.requireVisible(ctx, &models.Category{}, callerID, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUnknownCategory
		}
		return err
	}
	if err := s.requireVisible(ctx, &models.Account{}, callerID, input.AccountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUnknownAccount
		}
		return err
	}
	return nil
}

// requireVisible returns gorm.ErrRecordNotFound when no row of model with id
// is visible to the caller.
func (s *transactionService) requireVisible(ctx context.Context, model interface{}, callerID, id uuid.UUID) error {
	if id == uuid.Nil {
		return gorm.ErrRecordNotFound
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(model).
		Scopes(visibleTo(callerID)).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// reload reads a transaction back with its category and account so the
// response reflects what is stored.
func (s *transactionService) reload(ctx context.Context, transactionID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Account").
		First(&transaction, "id = ?", transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
