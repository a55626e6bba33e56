package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jangbu/internal/core"
)

func budgetFixtures() (*BudgetService, *fakeCategoryStore) {
	cats := newFakeCategoryStore()
	return NewBudgetService(newFakeBudgetStore(), cats), cats
}

func TestBudgetCreate(t *testing.T) {
	svc, cats := budgetFixtures()
	cat := cats.add(core.Category{UserID: 0, Name: "식비", IsDefault: true})
	ctx := context.Background()

	b := core.Budget{
		UserID:     1,
		Month:      core.MonthKey{Year: 2024, Month: time.March},
		CategoryID: cat.ID,
		Amount:     core.Money{Cents: 50_000_000},
	}
	created, err := svc.Create(ctx, b)
	if err != nil {
		t.Fatalf("create budget: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	// Same user, month and category again: rejected.
	if _, err := svc.Create(ctx, b); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Next month is a separate budget.
	b.Month = b.Month.Next()
	if _, err := svc.Create(ctx, b); err != nil {
		t.Fatalf("next month budget: %v", err)
	}
}

func TestBudgetCreateUnknownCategory(t *testing.T) {
	svc, _ := budgetFixtures()

	b := core.Budget{
		UserID:     1,
		Month:      core.MonthKey{Year: 2024, Month: time.March},
		CategoryID: 42,
		Amount:     core.Money{Cents: 100},
	}
	if _, err := svc.Create(context.Background(), b); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown category, got %v", err)
	}
}

func TestBudgetCreateForeignCategory(t *testing.T) {
	svc, cats := budgetFixtures()
	foreign := cats.add(core.Category{UserID: 99, Name: "비밀"})

	b := core.Budget{
		UserID:     1,
		Month:      core.MonthKey{Year: 2024, Month: time.March},
		CategoryID: foreign.ID,
		Amount:     core.Money{Cents: 100},
	}
	if _, err := svc.Create(context.Background(), b); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("another user's category should read as not found, got %v", err)
	}
}

func TestBudgetUpdateAmountOnly(t *testing.T) {
	svc, cats := budgetFixtures()
	cat := cats.add(core.Category{UserID: 0, Name: "식비", IsDefault: true})
	ctx := context.Background()

	created, err := svc.Create(ctx, core.Budget{
		UserID:     1,
		Month:      core.MonthKey{Year: 2024, Month: time.March},
		CategoryID: cat.ID,
		Amount:     core.Money{Cents: 100},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, core.Budget{
		ID:     created.ID,
		UserID: 1,
		// Month and category on the request are ignored; identity wins.
		Month:  core.MonthKey{Year: 2030, Month: time.December},
		Amount: core.Money{Cents: 250},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 250 {
		t.Fatalf("amount not updated: %+v", updated)
	}
	if updated.Month != created.Month || updated.CategoryID != created.CategoryID {
		t.Fatalf("identity fields must not change: %+v", updated)
	}
}
