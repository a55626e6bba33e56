package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"jangbu/internal/core"
)

// trendFetchLimit bounds the number of concurrent per-month fetches during a
// trend query. Each month is independent, so fetching them in parallel is
// safe; the limit keeps long ranges from flooding the store.
const trendFetchLimit = 4

// TransactionSource supplies a user's transactions in an inclusive date
// range. No ordering is required and an empty slice is a valid answer.
type TransactionSource interface {
	TransactionsByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Transaction, error)
}

// BudgetSource supplies the budget plan for a user and month.
type BudgetSource interface {
	BudgetPlan(ctx context.Context, userID int64, month core.MonthKey) (BudgetPlan, error)
}

// MonthlyTrend is one month's entry in a period trend.
type MonthlyTrend struct {
	Month     core.MonthKey
	Income    core.Money
	Expense   core.Money
	NetIncome core.Money
}

// PeriodTrend is a chronologically ordered series of monthly summaries over
// a closed month range.
type PeriodTrend struct {
	Start         core.MonthKey
	End           core.MonthKey
	MonthlyTrends []MonthlyTrend
}

// Service resolves period identifiers to date ranges, fetches transactions
// and budgets from its collaborators, and runs the aggregation. All
// operations are read-only and idempotent.
type Service struct {
	transactions TransactionSource
	budgets      BudgetSource
}

func NewService(transactions TransactionSource, budgets BudgetSource) *Service {
	return &Service{
		transactions: transactions,
		budgets:      budgets,
	}
}

// Monthly returns the statistics for one month.
func (s *Service) Monthly(ctx context.Context, userID int64, month core.MonthKey) (MonthlyStatistics, error) {
	start, end := month.Bounds()
	txs, err := s.transactions.TransactionsByDateRange(ctx, userID, start, end)
	if err != nil {
		return MonthlyStatistics{}, fmt.Errorf("fetch transactions for %s: %w", month, err)
	}
	return SummarizeMonth(txs, month), nil
}

// Trend summarizes every month in the closed range [start, end] in
// chronological order. A start after end yields an empty series rather than
// an error; the reversed range simply contains no months. Months are fetched
// concurrently since each one is an independent read of an immutable
// snapshot.
func (s *Service) Trend(ctx context.Context, userID int64, start, end core.MonthKey) (PeriodTrend, error) {
	trend := PeriodTrend{Start: start, End: end}
	if end.Before(start) {
		return trend, nil
	}

	var months []core.MonthKey
	for m := start; !m.After(end); m = m.Next() {
		months = append(months, m)
	}

	results := make([]MonthlyTrend, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(trendFetchLimit)
	for i, m := range months {
		g.Go(func() error {
			summary, err := s.Monthly(gctx, userID, m)
			if err != nil {
				return err
			}
			results[i] = MonthlyTrend{
				Month:     m,
				Income:    summary.TotalIncome,
				Expense:   summary.TotalExpense,
				NetIncome: summary.NetIncome,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PeriodTrend{Start: start, End: end}, err
	}

	trend.MonthlyTrends = results
	return trend, nil
}

// BudgetComparison compares one month's spending against the user's budget
// plan for that month.
func (s *Service) BudgetComparison(ctx context.Context, userID int64, month core.MonthKey) (BudgetComparison, error) {
	plan, err := s.budgets.BudgetPlan(ctx, userID, month)
	if err != nil {
		return BudgetComparison{}, fmt.Errorf("fetch budget plan for %s: %w", month, err)
	}
	start, end := month.Bounds()
	txs, err := s.transactions.TransactionsByDateRange(ctx, userID, start, end)
	if err != nil {
		return BudgetComparison{}, fmt.Errorf("fetch transactions for %s: %w", month, err)
	}
	return CompareToBudget(txs, month, plan), nil
}
