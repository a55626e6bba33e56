// Package services orchestrates domain operations across storage and the
// event broker. Each service validates input, writes through its store, and
// publishes events after the write commits; a publish failure is logged and
// never fails the request.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"jangbu/internal/amqp"
	"jangbu/internal/core"
)

// TransactionStore is the persistence surface the transaction service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	TransactionByID(ctx context.Context, userID, id int64) (core.Transaction, error)
	TransactionsByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// EventPublisher pushes transaction events to the alert worker.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error
}

type TransactionService struct {
	store  TransactionStore
	events EventPublisher
}

func NewTransactionService(store TransactionStore, events EventPublisher) *TransactionService {
	return &TransactionService{store: store, events: events}
}

func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", created.ID,
		"user_id", created.UserID,
		"type", created.Type,
		"category", created.Category,
		"amount_cents", created.Amount.Cents)

	s.publishEvent(ctx, created, amqp.ActionCreated)
	return created, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.store.TransactionByID(ctx, userID, id)
}

// ListMonth returns the user's transactions for one month in date order.
func (s *TransactionService) ListMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Transaction, error) {
	start, end := month.Bounds()
	return s.store.TransactionsByDateRange(ctx, userID, start, end)
}

func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	// Fetch the stored row first so a move between months invalidates both.
	previous, err := s.store.TransactionByID(ctx, tx.UserID, tx.ID)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	s.publishEvent(ctx, tx, amqp.ActionUpdated)
	if prevMonth := core.MonthKeyOf(previous.Date); prevMonth != core.MonthKeyOf(tx.Date) {
		s.publishEvent(ctx, previous, amqp.ActionUpdated)
	}
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	tx, err := s.store.TransactionByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishEvent(ctx, tx, amqp.ActionDeleted)
	return nil
}

func (s *TransactionService) publishEvent(ctx context.Context, tx core.Transaction, action string) {
	if s.events == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping transaction event")
		return
	}

	msg := amqp.NewTransactionEventMessage(tx.ID, tx.UserID, core.MonthKeyOf(tx.Date).String(), action)
	if err := s.events.PublishTransactionEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", tx.ID, "action", action, "error", err)
	}
}
