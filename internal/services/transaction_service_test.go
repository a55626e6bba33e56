package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"jangbu/internal/amqp"
	"jangbu/internal/core"
)

func validTx() core.Transaction {
	return core.Transaction{
		UserID:      1,
		Type:        core.Expense,
		Category:    "식비",
		Amount:      core.Money{Cents: 1_200_000},
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "점심",
	}
}

func TestTransactionCreatePublishesEvent(t *testing.T) {
	store := newFakeTransactionStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	created, err := svc.Create(context.Background(), validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.published))
	}
	evt := pub.published[0]
	if evt.Action != amqp.ActionCreated || evt.TransactionID != created.ID {
		t.Fatalf("unexpected event: %+v", evt)
	}
	if evt.YearMonth != "2024-03" {
		t.Fatalf("expected yearMonth 2024-03, got %s", evt.YearMonth)
	}
}

func TestTransactionCreateInvalidSkipsStore(t *testing.T) {
	store := newFakeTransactionStore()
	svc := NewTransactionService(store, &fakePublisher{})

	tx := validTx()
	tx.Amount = core.Money{}
	if _, err := svc.Create(context.Background(), tx); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if len(store.byID) != 0 {
		t.Fatal("invalid transaction must not reach the store")
	}
}

// Publishing is best-effort: the broker being down never fails the request.
func TestTransactionCreatePublishFailureIsNotFatal(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionStore(), &fakePublisher{err: errors.New("broker down")})

	if _, err := svc.Create(context.Background(), validTx()); err != nil {
		t.Fatalf("publish failure should not fail the create: %v", err)
	}
}

func TestTransactionCreateNilPublisher(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionStore(), nil)
	if _, err := svc.Create(context.Background(), validTx()); err != nil {
		t.Fatalf("nil publisher should be tolerated: %v", err)
	}
}

func TestTransactionDeletePublishesEvent(t *testing.T) {
	store := newFakeTransactionStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	created, err := svc.Create(context.Background(), validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	last := pub.published[len(pub.published)-1]
	if last.Action != amqp.ActionDeleted || last.TransactionID != created.ID {
		t.Fatalf("unexpected event: %+v", last)
	}
}

func TestTransactionDeleteNotFound(t *testing.T) {
	svc := NewTransactionService(newFakeTransactionStore(), &fakePublisher{})
	if err := svc.Delete(context.Background(), 1, 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Moving a transaction to another month publishes an event for both months
// so stale aggregates on each side get refreshed.
func TestTransactionUpdateAcrossMonths(t *testing.T) {
	store := newFakeTransactionStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	created, err := svc.Create(context.Background(), validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	pub.published = nil

	created.Date = time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Update(context.Background(), created); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("expected events for both months, got %d", len(pub.published))
	}
	months := map[string]bool{}
	for _, evt := range pub.published {
		months[evt.YearMonth] = true
	}
	if !months["2024-03"] || !months["2024-04"] {
		t.Fatalf("expected 2024-03 and 2024-04, got %v", months)
	}
}

func TestTransactionListMonth(t *testing.T) {
	store := newFakeTransactionStore()
	svc := NewTransactionService(store, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validTx()); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := validTx()
	other.Date = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.ListMonth(ctx, 1, core.MonthKey{Year: 2024, Month: time.March})
	if err != nil {
		t.Fatalf("list month: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 march transaction, got %d", len(got))
	}
}
