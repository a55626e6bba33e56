package services

import (
	"context"
	"fmt"

	"jangbu/internal/core"
)

type BudgetStore interface {
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	BudgetByID(ctx context.Context, userID, id int64) (core.Budget, error)
	BudgetsForMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, userID, id int64) error
}

type BudgetService struct {
	store      BudgetStore
	categories CategoryStore
}

func NewBudgetService(store BudgetStore, categories CategoryStore) *BudgetService {
	return &BudgetService{store: store, categories: categories}
}

// Create sets a budget for one category and month. One budget per user,
// month and category; a second attempt reports ErrDuplicate.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	// The category must be visible to the user: a shared default or their own.
	if _, err := s.categories.CategoryByID(ctx, b.UserID, b.CategoryID); err != nil {
		return core.Budget{}, fmt.Errorf("resolve category %d: %w", b.CategoryID, err)
	}

	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}
	return created, nil
}

func (s *BudgetService) Get(ctx context.Context, userID, id int64) (core.Budget, error) {
	return s.store.BudgetByID(ctx, userID, id)
}

func (s *BudgetService) ListMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Budget, error) {
	return s.store.BudgetsForMonth(ctx, userID, month)
}

// Update changes a budget's amount. Month and category are identity, not
// state; moving a budget means deleting and recreating it.
func (s *BudgetService) Update(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Amount.Validate(); err != nil {
		return core.Budget{}, err
	}

	existing, err := s.store.BudgetByID(ctx, b.UserID, b.ID)
	if err != nil {
		return core.Budget{}, err
	}
	existing.Amount = b.Amount

	if err := s.store.UpdateBudget(ctx, existing); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return existing, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}
