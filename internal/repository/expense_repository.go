package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spendtrack/internal/model"
)

// ExpenseFilter narrows an owner-scoped expense listing. Nil fields are
// not applied.
type ExpenseFilter struct {
	CategoryID *uint
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Skip       int
	Limit      int
}

// ExpenseRepository defines expense persistence operations. Every lookup is
// constrained by the owning user ID.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Expense, error)
	ListByUser(ctx context.Context, userID uint, filter ExpenseFilter) ([]model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id, userID uint) error
}

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository builds a GORM-backed expense repository.
func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.WithContext(ctx).Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&expense).Error
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListByUser returns the user's expenses, most recent date first.
func (r *expenseRepository) ListByUser(ctx context.Context, userID uint, filter ExpenseFilter) ([]model.Expense, error) {
	query := r.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}

	var expenses []model.Expense
	err := query.Order("date DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(expense).Error
}

// Delete removes an expense owned by the user. Deleting someone else's
// expense reports gorm.ErrRecordNotFound.
func (r *expenseRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
