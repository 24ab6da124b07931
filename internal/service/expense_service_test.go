package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

// MockExpenseRepository is a mock implementation of ExpenseRepository.
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Expense, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListByUser(ctx context.Context, userID uint, filter repository.ExpenseFilter) ([]model.Expense, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id, userID uint) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

var activeCategory = &model.Category{ID: 3, Name: "Food & Dining", Active: true}

func TestExpenseService_Create(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		expense       *model.Expense
		setupMock     func(e *MockExpenseRepository, c *MockCategoryRepository)
		expectedError error
	}{
		{
			name: "successful create",
			expense: &model.Expense{
				Amount:      decimal.NewFromFloat(12.50),
				CategoryID:  3,
				Description: "lunch",
				Date:        date,
			},
			setupMock: func(e *MockExpenseRepository, c *MockCategoryRepository) {
				c.On("FindByID", mock.Anything, uint(3)).Return(activeCategory, nil)
				e.On("Create", mock.Anything, mock.AnythingOfType("*model.Expense")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "non-positive amount",
			expense: &model.Expense{
				Amount:      decimal.Zero,
				CategoryID:  3,
				Description: "lunch",
				Date:        date,
			},
			setupMock:     func(e *MockExpenseRepository, c *MockCategoryRepository) {},
			expectedError: apperrors.ErrInvalidAmount,
		},
		{
			name: "unknown category",
			expense: &model.Expense{
				Amount:      decimal.NewFromFloat(12.50),
				CategoryID:  99,
				Description: "lunch",
				Date:        date,
			},
			setupMock: func(e *MockExpenseRepository, c *MockCategoryRepository) {
				c.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrCategoryNotFound,
		},
		{
			name: "inactive category",
			expense: &model.Expense{
				Amount:      decimal.NewFromFloat(12.50),
				CategoryID:  4,
				Description: "lunch",
				Date:        date,
			},
			setupMock: func(e *MockExpenseRepository, c *MockCategoryRepository) {
				c.On("FindByID", mock.Anything, uint(4)).Return(&model.Category{ID: 4, Active: false}, nil)
			},
			expectedError: apperrors.ErrCategoryInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expenses := new(MockExpenseRepository)
			categories := new(MockCategoryRepository)
			tt.setupMock(expenses, categories)

			service := NewExpenseService(expenses, categories)
			expense, err := service.Create(context.Background(), 42, tt.expense)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, expense)
			} else {
				require.NoError(t, err)
				require.NotNil(t, expense)
				assert.Equal(t, uint(42), expense.UserID)
				assert.Equal(t, activeCategory.Name, expense.Category.Name)
			}

			expenses.AssertExpectations(t)
			categories.AssertExpectations(t)
		})
	}
}

func TestExpenseService_Get_OtherUsersExpenseIsNotFound(t *testing.T) {
	expenses := new(MockExpenseRepository)
	categories := new(MockCategoryRepository)

	// The repository scopes lookups by owner, so user 7 asking for user 42's
	// expense sees a plain not-found.
	expenses.On("FindByIDAndUser", mock.Anything, uint(1), uint(7)).Return(nil, gorm.ErrRecordNotFound)

	service := NewExpenseService(expenses, categories)
	_, err := service.Get(context.Background(), 7, 1)
	assert.ErrorIs(t, err, apperrors.ErrExpenseNotFound)

	expenses.AssertExpectations(t)
}

func TestExpenseService_Update(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	existing := func() *model.Expense {
		return &model.Expense{
			ID:          1,
			Amount:      decimal.NewFromFloat(12.50),
			CategoryID:  3,
			Description: "lunch",
			Date:        date,
			UserID:      42,
			Category:    *activeCategory,
		}
	}

	t.Run("partial update leaves other fields", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		categories := new(MockCategoryRepository)
		expenses.On("FindByIDAndUser", mock.Anything, uint(1), uint(42)).Return(existing(), nil)
		expenses.On("Update", mock.Anything, mock.AnythingOfType("*model.Expense")).Return(nil)

		newAmount := decimal.NewFromFloat(20)
		service := NewExpenseService(expenses, categories)
		updated, err := service.Update(context.Background(), 42, 1, ExpenseUpdate{Amount: &newAmount})

		require.NoError(t, err)
		assert.True(t, updated.Amount.Equal(newAmount))
		assert.Equal(t, "lunch", updated.Description)
		assert.Equal(t, uint(3), updated.CategoryID)
	})

	t.Run("category change is re-validated", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		categories := new(MockCategoryRepository)
		expenses.On("FindByIDAndUser", mock.Anything, uint(1), uint(42)).Return(existing(), nil)
		categories.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		newCategory := uint(9)
		service := NewExpenseService(expenses, categories)
		_, err := service.Update(context.Background(), 42, 1, ExpenseUpdate{CategoryID: &newCategory})

		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		categories := new(MockCategoryRepository)
		expenses.On("FindByIDAndUser", mock.Anything, uint(1), uint(42)).Return(existing(), nil)

		negative := decimal.NewFromFloat(-1)
		service := NewExpenseService(expenses, categories)
		_, err := service.Update(context.Background(), 42, 1, ExpenseUpdate{Amount: &negative})

		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("missing expense", func(t *testing.T) {
		expenses := new(MockExpenseRepository)
		categories := new(MockCategoryRepository)
		expenses.On("FindByIDAndUser", mock.Anything, uint(5), uint(42)).Return(nil, gorm.ErrRecordNotFound)

		service := NewExpenseService(expenses, categories)
		_, err := service.Update(context.Background(), 42, 5, ExpenseUpdate{})

		assert.ErrorIs(t, err, apperrors.ErrExpenseNotFound)
	})
}

func TestExpenseService_Delete(t *testing.T) {
	expenses := new(MockExpenseRepository)
	categories := new(MockCategoryRepository)
	expenses.On("Delete", mock.Anything, uint(1), uint(42)).Return(nil)
	expenses.On("Delete", mock.Anything, uint(2), uint(42)).Return(gorm.ErrRecordNotFound)

	service := NewExpenseService(expenses, categories)

	require.NoError(t, service.Delete(context.Background(), 42, 1))
	assert.ErrorIs(t, service.Delete(context.Background(), 42, 2), apperrors.ErrExpenseNotFound)

	expenses.AssertExpectations(t)
}

func TestExpenseService_ListPassesFilter(t *testing.T) {
	expenses := new(MockExpenseRepository)
	categories := new(MockCategoryRepository)

	categoryID := uint(3)
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	filter := repository.ExpenseFilter{
		CategoryID: &categoryID,
		StartDate:  &start,
		Limit:      100,
	}

	expenses.On("ListByUser", mock.Anything, uint(42), filter).Return([]model.Expense{{ID: 1, UserID: 42}}, nil)

	service := NewExpenseService(expenses, categories)
	got, err := service.List(context.Background(), 42, filter)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	expenses.AssertExpectations(t)
}
