package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

// ExpenseUpdate carries a partial expense update. Nil fields are left as is.
type ExpenseUpdate struct {
	Amount      *decimal.Decimal
	CategoryID  *uint
	Description *string
	Date        *time.Time
	Notes       *string
}

// ExpenseService handles expense operations. Every operation is scoped to the
// calling user; an expense owned by someone else behaves exactly like one
// that does not exist.
type ExpenseService interface {
	Create(ctx context.Context, userID uint, expense *model.Expense) (*model.Expense, error)
	List(ctx context.Context, userID uint, filter repository.ExpenseFilter) ([]model.Expense, error)
	Get(ctx context.Context, userID, id uint) (*model.Expense, error)
	Update(ctx context.Context, userID, id uint, update ExpenseUpdate) (*model.Expense, error)
	Delete(ctx context.Context, userID, id uint) error
}

type expenseService struct {
	expenses   repository.ExpenseRepository
	categories repository.CategoryRepository
}

// NewExpenseService creates a new expense service.
func NewExpenseService(expenses repository.ExpenseRepository, categories repository.CategoryRepository) ExpenseService {
	return &expenseService{expenses: expenses, categories: categories}
}

// checkCategory verifies the category exists and is active.
func (s *expenseService) checkCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	if !category.Active {
		return nil, apperrors.ErrCategoryInactive
	}
	return category, nil
}

// Create records a new expense for the user.
func (s *expenseService) Create(ctx context.Context, userID uint, expense *model.Expense) (*model.Expense, error) {
	if !expense.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	category, err := s.checkCategory(ctx, expense.CategoryID)
	if err != nil {
		return nil, err
	}

	expense.UserID = userID
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	expense.Category = *category
	return expense, nil
}

// List returns the user's expenses matching the filter, most recent first.
func (s *expenseService) List(ctx context.Context, userID uint, filter repository.ExpenseFilter) ([]model.Expense, error) {
	expenses, err := s.expenses.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Get retrieves one of the user's expenses by ID.
func (s *expenseService) Get(ctx context.Context, userID, id uint) (*model.Expense, error) {
	expense, err := s.expenses.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return expense, nil
}

// Update applies a partial update to one of the user's expenses.
func (s *expenseService) Update(ctx context.Context, userID, id uint, update ExpenseUpdate) (*model.Expense, error) {
	expense, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Amount != nil {
		if !update.Amount.IsPositive() {
			return nil, apperrors.ErrInvalidAmount
		}
		expense.Amount = *update.Amount
	}
	if update.CategoryID != nil && *update.CategoryID != expense.CategoryID {
		category, err := s.checkCategory(ctx, *update.CategoryID)
		if err != nil {
			return nil, err
		}
		expense.CategoryID = *update.CategoryID
		expense.Category = *category
	}
	if update.Description != nil {
		expense.Description = *update.Description
	}
	if update.Date != nil {
		expense.Date = *update.Date
	}
	if update.Notes != nil {
		expense.Notes = *update.Notes
	}

	if err := s.expenses.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return expense, nil
}

// Delete removes one of the user's expenses.
func (s *expenseService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.expenses.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrExpenseNotFound
		}
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}
