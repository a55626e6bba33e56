package services

import (
	"context"
	"fmt"

	"jangbu/internal/core"
)

type CategoryStore interface {
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	CategoriesForUser(ctx context.Context, userID int64) ([]core.Category, error)
	CategoryByID(ctx context.Context, userID, id int64) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, userID, id int64) error
}

type CategoryService struct {
	store CategoryStore
}

func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store}
}

// Create adds a user-defined category. Callers can never create defaults.
func (s *CategoryService) Create(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	c.IsDefault = false

	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	return created, nil
}

func (s *CategoryService) List(ctx context.Context, userID int64) ([]core.Category, error) {
	return s.store.CategoriesForUser(ctx, userID)
}

func (s *CategoryService) Get(ctx context.Context, userID, id int64) (core.Category, error) {
	return s.store.CategoryByID(ctx, userID, id)
}

// Update edits one of the user's own categories. Defaults are shared and
// read-only, so editing one reports ErrForbidden.
func (s *CategoryService) Update(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	existing, err := s.store.CategoryByID(ctx, c.UserID, c.ID)
	if err != nil {
		return core.Category{}, err
	}
	if existing.IsDefault {
		return core.Category{}, core.ErrForbidden
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.store.CategoryByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing.IsDefault {
		return core.ErrForbidden
	}

	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
