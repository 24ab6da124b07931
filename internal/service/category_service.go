package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"spendtrack/internal/cache"
	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/model"
	"spendtrack/internal/repository"
)

const categoryCacheTTL = 5 * time.Minute

const (
	categoriesActiveKey = "categories:active"
	categoriesAllKey    = "categories:all"
)

// CategoryService handles category operations.
type CategoryService interface {
	Create(ctx context.Context, category *model.Category) (*model.Category, error)
	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{repo: repo, cache: cache}
}

// Create stores a new category. Names are unique; the index is the authority,
// so a duplicate-key error from a concurrent create also maps to the conflict
// error.
func (s *categoryService) Create(ctx context.Context, category *model.Category) (*model.Category, error) {
	if _, err := s.repo.FindByName(ctx, category.Name); err == nil {
		return nil, apperrors.ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check category name: %w", err)
	}

	category.Active = true
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.cache.Delete(ctx, categoriesActiveKey, categoriesAllKey)
	return category, nil
}

// List returns categories ordered by name, read through the cache.
func (s *categoryService) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	key := categoriesActiveKey
	if includeInactive {
		key = categoriesAllKey
	}

	var cached []model.Category
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	categories, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	s.cache.SetJSON(ctx, key, categories, categoryCacheTTL)
	return categories, nil
}

// Get retrieves a single category by ID.
func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}
