// Package worker watches budget consumption and raises log alerts when a
// user's spending approaches or passes the monthly plan.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jangbu/internal/amqp"
	"jangbu/internal/core"
	"jangbu/internal/log"
	"jangbu/internal/stats"
)

// StatsProvider computes the budget-versus-actual comparison the alerts are
// based on.
type StatsProvider interface {
	BudgetComparison(ctx context.Context, userID int64, month core.MonthKey) (stats.BudgetComparison, error)
}

// UserLister enumerates the users the periodic sweep visits.
type UserLister interface {
	UserIDs(ctx context.Context) ([]int64, error)
}

type AlertConfig struct {
	WarnPercent   int // warn at or above this spend ratio
	ExceedPercent int // alert at or above this spend ratio
	Concurrency   int // parallel users per sweep
}

// AlertWorker evaluates budget thresholds, either on demand when a
// transaction event arrives or for every user during a periodic sweep.
type AlertWorker struct {
	statistics StatsProvider
	users      UserLister
	cfg        AlertConfig
}

func NewAlertWorker(statistics StatsProvider, users UserLister, cfg AlertConfig) *AlertWorker {
	if cfg.WarnPercent <= 0 {
		cfg.WarnPercent = 80
	}
	if cfg.ExceedPercent <= 0 {
		cfg.ExceedPercent = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &AlertWorker{statistics: statistics, users: users, cfg: cfg}
}

// HandleTransactionEvent re-evaluates the month a transaction event points
// at. Events carry only identifiers, so replays and out-of-order delivery
// just re-check current state.
func (w *AlertWorker) HandleTransactionEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	month, err := core.ParseMonthKey(msg.YearMonth)
	if err != nil {
		return fmt.Errorf("event for transaction %d: %w", msg.TransactionID, err)
	}

	slog.InfoContext(ctx, "Processing transaction event",
		log.FieldUserID, msg.UserID,
		log.FieldYearMonth, msg.YearMonth,
		"action", msg.Action)

	return w.CheckUser(ctx, msg.UserID, month)
}

// CheckUser fetches the user's budget comparison for the month and logs a
// warning or an alert per threshold crossed, overall and per category.
// Months without a budget plan are skipped.
func (w *AlertWorker) CheckUser(ctx context.Context, userID int64, month core.MonthKey) error {
	comparison, err := w.statistics.BudgetComparison(ctx, userID, month)
	if err != nil {
		return fmt.Errorf("budget comparison for user %d: %w", userID, err)
	}

	if comparison.TotalBudget.Cents > 0 {
		w.logThreshold(ctx, userID, month, "total", comparison.ExpenseRatio,
			comparison.TotalExpense, comparison.TotalBudget)
	}
	for _, cat := range comparison.Categories {
		if cat.Budget.Cents == 0 {
			continue
		}
		w.logThreshold(ctx, userID, month, cat.CategoryName, cat.Ratio,
			cat.Expense, cat.Budget)
	}
	return nil
}

func (w *AlertWorker) logThreshold(ctx context.Context, userID int64, month core.MonthKey, category string, ratio float64, expense, budget core.Money) {
	attrs := []any{
		log.FieldUserID, userID,
		log.FieldYearMonth, month.String(),
		log.FieldCategory, category,
		log.FieldRatio, ratio,
		log.FieldAmountCents, expense.Cents,
		"budget_cents", budget.Cents,
	}
	switch {
	case ratio >= float64(w.cfg.ExceedPercent):
		slog.ErrorContext(ctx, "Budget exceeded", attrs...)
	case ratio >= float64(w.cfg.WarnPercent):
		slog.WarnContext(ctx, "Budget nearly exhausted", attrs...)
	}
}

// Sweep checks every user's current standing for the month. Users are
// processed concurrently; one failing user does not stop the others, but the
// first error is reported after the sweep finishes.
func (w *AlertWorker) Sweep(ctx context.Context, month core.MonthKey) error {
	userIDs, err := w.users.UserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users for sweep: %w", err)
	}

	slog.InfoContext(ctx, "Starting budget sweep",
		log.FieldOperation, log.OpSweep,
		log.FieldYearMonth, month.String(),
		"users", len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Concurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			if err := w.CheckUser(gctx, userID, month); err != nil {
				slog.ErrorContext(gctx, "Budget check failed",
					log.FieldUserID, userID,
					log.FieldError, err)
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// Run sweeps the current month on the given interval until ctx is cancelled.
// Sweep errors are already logged per user, so they never stop the loop.
func (w *AlertWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Budget sweep loop stopped")
			return
		case <-ticker.C:
			_ = w.Sweep(ctx, core.MonthKeyOf(time.Now()))
		}
	}
}
