package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

// maxNameLength bounds category and account names, in characters.
const maxNameLength = 50

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// visibleTo scopes a query to system rows plus the caller's own rows.
func visibleTo(callerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(user_id IS NULL OR user_id = ?)", callerID)
	}
}

// ListCategories returns the system categories and the caller's own, in
// insertion order.
func (s *categoryService) ListCategories(ctx context.Context, callerID uuid.UUID) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).
		Scopes(visibleTo(callerID)).
		Order("created_at ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// CreateCategory creates a category owned by the caller. An empty type
// defaults to Expense.
func (s *categoryService) CreateCategory(ctx context.Context, callerID uuid.UUID, name string, categoryType models.CategoryType) (*models.Category, error) {
	name, err := validateName("category", name)
	if err != nil {
		return nil, err
	}
	if categoryType == "" {
		categoryType = models.CategoryTypeExpense
	}
	if !categoryType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be Expense or Income")
	}

	category := &models.Category{
		Owner: models.OwnedBy(callerID),
		Name:  name,
		Type:  categoryType,
	}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// validateName trims name and enforces 1..maxNameLength characters.
func validateName(kind, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, kind+" name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, kind+" name must be at most 50 characters")
	}
	return name, nil
}
