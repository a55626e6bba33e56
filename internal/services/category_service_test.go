package services

import (
	"context"
	"errors"
	"testing"

	"jangbu/internal/core"
)

func TestCategoryCreateNeverDefault(t *testing.T) {
	store := newFakeCategoryStore()
	svc := NewCategoryService(store)

	created, err := svc.Create(context.Background(), core.Category{
		UserID:    1,
		Name:      "반려동물",
		IsDefault: true, // callers cannot mint defaults
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.IsDefault {
		t.Fatal("created category must not be a default")
	}
}

func TestCategoryDefaultIsReadOnly(t *testing.T) {
	store := newFakeCategoryStore()
	def := store.add(core.Category{UserID: 0, Name: "식비", IsDefault: true})
	svc := NewCategoryService(store)
	ctx := context.Background()

	edit := def
	edit.UserID = 1
	edit.Name = "내맘대로"
	if _, err := svc.Update(ctx, edit); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("editing a default should be forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, 1, def.ID); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("deleting a default should be forbidden, got %v", err)
	}
}

func TestCategoryListIncludesDefaults(t *testing.T) {
	store := newFakeCategoryStore()
	store.add(core.Category{UserID: 0, Name: "식비", IsDefault: true})
	store.add(core.Category{UserID: 1, Name: "반려동물"})
	store.add(core.Category{UserID: 2, Name: "남의것"})
	svc := NewCategoryService(store)

	got, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected default + own category, got %d", len(got))
	}
}

func TestCategoryUpdateOwn(t *testing.T) {
	store := newFakeCategoryStore()
	own := store.add(core.Category{UserID: 1, Name: "반려동물"})
	svc := NewCategoryService(store)

	own.Color = "#00FF00"
	updated, err := svc.Update(context.Background(), own)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Color != "#00FF00" {
		t.Fatalf("color not updated: %+v", updated)
	}
}
