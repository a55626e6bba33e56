package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jangbu/internal/amqp"
	"jangbu/internal/core"
	"jangbu/internal/stats"
)

type fakeComparisonProvider struct {
	mu          sync.Mutex
	comparisons map[int64]stats.BudgetComparison
	errs        map[int64]error
	calls       atomic.Int64
	lastMonth   core.MonthKey
}

func (f *fakeComparisonProvider) BudgetComparison(_ context.Context, userID int64, month core.MonthKey) (stats.BudgetComparison, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastMonth = month
	f.mu.Unlock()
	if err := f.errs[userID]; err != nil {
		return stats.BudgetComparison{}, err
	}
	c := f.comparisons[userID]
	c.Month = month
	return c, nil
}

type fakeUserLister struct {
	ids []int64
	err error
}

func (f *fakeUserLister) UserIDs(_ context.Context) ([]int64, error) {
	return f.ids, f.err
}

func won(units int64) core.Money { return core.Money{Cents: units * 100} }

// captureLogs routes slog output to a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func overspent() stats.BudgetComparison {
	return stats.BudgetComparison{
		TotalBudget:  won(1_000_000),
		TotalExpense: won(1_200_000),
		ExpenseRatio: 120,
		Categories: []stats.CategoryComparison{
			{CategoryName: "식비", Budget: won(500_000), Expense: won(600_000), Ratio: 120},
			{CategoryName: "교통비", Budget: won(500_000), Expense: won(425_000), Ratio: 85},
			{CategoryName: "쇼핑", Budget: won(0), Expense: won(100_000), Ratio: 0},
		},
	}
}

func TestHandleTransactionEvent(t *testing.T) {
	provider := &fakeComparisonProvider{comparisons: map[int64]stats.BudgetComparison{}}
	w := NewAlertWorker(provider, &fakeUserLister{}, AlertConfig{})

	msg := amqp.NewTransactionEventMessage(42, 7, "2024-03", amqp.ActionCreated)
	if err := w.HandleTransactionEvent(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := provider.calls.Load(); got != 1 {
		t.Fatalf("expected 1 comparison fetch, got %d", got)
	}
	want := core.MonthKey{Year: 2024, Month: time.March}
	if provider.lastMonth != want {
		t.Fatalf("expected month %s, got %s", want, provider.lastMonth)
	}
}

func TestHandleTransactionEventBadMonth(t *testing.T) {
	provider := &fakeComparisonProvider{comparisons: map[int64]stats.BudgetComparison{}}
	w := NewAlertWorker(provider, &fakeUserLister{}, AlertConfig{})

	msg := amqp.NewTransactionEventMessage(42, 7, "not-a-month", amqp.ActionCreated)
	if err := w.HandleTransactionEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error for malformed month")
	}
	if got := provider.calls.Load(); got != 0 {
		t.Fatalf("comparison should not be fetched, got %d calls", got)
	}
}

func TestCheckUserThresholds(t *testing.T) {
	buf := captureLogs(t)
	provider := &fakeComparisonProvider{comparisons: map[int64]stats.BudgetComparison{1: overspent()}}
	w := NewAlertWorker(provider, &fakeUserLister{}, AlertConfig{WarnPercent: 80, ExceedPercent: 100})

	month := core.MonthKey{Year: 2024, Month: time.March}
	if err := w.CheckUser(context.Background(), 1, month); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	// Overall and 식비 are past the limit, 교통비 is in the warn band, and the
	// unbudgeted 쇼핑 category stays quiet.
	if got := strings.Count(out, "Budget exceeded"); got != 2 {
		t.Fatalf("expected 2 exceeded alerts, got %d (logs: %s)", got, out)
	}
	if got := strings.Count(out, "Budget nearly exhausted"); got != 1 {
		t.Fatalf("expected 1 warning, got %d (logs: %s)", got, out)
	}
	if strings.Contains(out, "쇼핑") {
		t.Fatalf("unbudgeted category should not alert (logs: %s)", out)
	}
}

func TestCheckUserNoBudget(t *testing.T) {
	buf := captureLogs(t)
	provider := &fakeComparisonProvider{comparisons: map[int64]stats.BudgetComparison{
		1: {TotalExpense: won(500_000), ExpenseRatio: 0},
	}}
	w := NewAlertWorker(provider, &fakeUserLister{}, AlertConfig{})

	if err := w.CheckUser(context.Background(), 1, core.MonthKey{Year: 2024, Month: time.March}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out := buf.String(); strings.Contains(out, "Budget") {
		t.Fatalf("month without a plan should not alert (logs: %s)", out)
	}
}

func TestSweepVisitsEveryUser(t *testing.T) {
	captureLogs(t)
	provider := &fakeComparisonProvider{comparisons: map[int64]stats.BudgetComparison{}}
	users := &fakeUserLister{ids: []int64{1, 2, 3, 4, 5}}
	w := NewAlertWorker(provider, users, AlertConfig{Concurrency: 2})

	if err := w.Sweep(context.Background(), core.MonthKey{Year: 2024, Month: time.March}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := provider.calls.Load(); got != 5 {
		t.Fatalf("expected 5 checks, got %d", got)
	}
}

func TestSweepReportsUserError(t *testing.T) {
	captureLogs(t)
	wantErr := errors.New("storage gone")
	provider := &fakeComparisonProvider{
		comparisons: map[int64]stats.BudgetComparison{},
		errs:        map[int64]error{2: wantErr},
	}
	w := NewAlertWorker(provider, &fakeUserLister{ids: []int64{1, 2, 3}}, AlertConfig{Concurrency: 1})

	err := w.Sweep(context.Background(), core.MonthKey{Year: 2024, Month: time.March})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}

func TestSweepListError(t *testing.T) {
	provider := &fakeComparisonProvider{comparisons: map[int64]stats.BudgetComparison{}}
	w := NewAlertWorker(provider, &fakeUserLister{err: errors.New("db down")}, AlertConfig{})

	if err := w.Sweep(context.Background(), core.MonthKey{Year: 2024, Month: time.March}); err == nil {
		t.Fatal("expected error when user listing fails")
	}
	if got := provider.calls.Load(); got != 0 {
		t.Fatalf("no checks expected, got %d", got)
	}
}
