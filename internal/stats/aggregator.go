// Package stats computes monthly statistics, period trends and
// budget-vs-actual comparisons over recorded transactions.
//
// The aggregation functions in this file are pure: they take a snapshot of
// transactions already fetched into memory and return derived records. They
// never touch I/O and never fail on well-formed input; malformed transactions
// are rejected upstream by validation.
package stats

import "jangbu/internal/core"

// CategoryExpense is one category's share of a month's spending.
type CategoryExpense struct {
	CategoryName string
	Amount       core.Money
	// Percentage of the month's total expense, half-up to two decimals.
	// Zero when the month has no expenses.
	Percentage float64
}

// MonthlyStatistics summarizes one month. Derived on every query, never
// persisted.
type MonthlyStatistics struct {
	Month            core.MonthKey
	TotalIncome      core.Money
	TotalExpense     core.Money
	NetIncome        core.Money
	CategoryExpenses []CategoryExpense
}

// BudgetPlan is a user's budget for one month: the overall limit plus
// per-category limits keyed by category name.
type BudgetPlan struct {
	Total      core.Money
	ByCategory map[string]core.Money
}

// CategoryComparison holds one category's budget against its actual spend.
type CategoryComparison struct {
	CategoryName string
	Budget       core.Money
	Expense      core.Money
	Ratio        float64
}

// BudgetComparison compares a month's spending with its budget plan.
type BudgetComparison struct {
	Month        core.MonthKey
	TotalBudget  core.Money
	TotalExpense core.Money
	ExpenseRatio float64
	Categories   []CategoryComparison
}

// SummarizeMonth aggregates the given transactions into a monthly summary.
// Only the amounts matter here; callers are expected to pass the transactions
// belonging to month. The category breakdown carries no ordering guarantee.
func SummarizeMonth(txs []core.Transaction, month core.MonthKey) MonthlyStatistics {
	var income, expense int64
	byCategory := make(map[string]int64)

	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			income += tx.Amount.Cents
		case core.Expense:
			expense += tx.Amount.Cents
			byCategory[tx.Category] += tx.Amount.Cents
		}
	}

	breakdown := make([]CategoryExpense, 0, len(byCategory))
	for name, cents := range byCategory {
		breakdown = append(breakdown, CategoryExpense{
			CategoryName: name,
			Amount:       core.Money{Cents: cents},
			Percentage:   ratioPercent(cents, expense),
		})
	}

	return MonthlyStatistics{
		Month:            month,
		TotalIncome:      core.Money{Cents: income},
		TotalExpense:     core.Money{Cents: expense},
		NetIncome:        core.Money{Cents: income - expense},
		CategoryExpenses: breakdown,
	}
}

// CompareToBudget measures the month's expenses against a budget plan. Every
// category in the plan appears in the result; categories without matching
// transactions report a zero expense.
func CompareToBudget(txs []core.Transaction, month core.MonthKey, plan BudgetPlan) BudgetComparison {
	var totalExpense int64
	byCategory := make(map[string]int64)

	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		totalExpense += tx.Amount.Cents
		byCategory[tx.Category] += tx.Amount.Cents
	}

	comparisons := make([]CategoryComparison, 0, len(plan.ByCategory))
	for name, budget := range plan.ByCategory {
		spent := byCategory[name]
		comparisons = append(comparisons, CategoryComparison{
			CategoryName: name,
			Budget:       budget,
			Expense:      core.Money{Cents: spent},
			Ratio:        ratioPercent(spent, budget.Cents),
		})
	}

	return BudgetComparison{
		Month:        month,
		TotalBudget:  plan.Total,
		TotalExpense: core.Money{Cents: totalExpense},
		ExpenseRatio: ratioPercent(totalExpense, plan.Total.Cents),
		Categories:   comparisons,
	}
}

// ratioPercent returns num/denom as a percentage rounded half-up to two
// decimal places. A zero denominator yields 0 rather than dividing. The
// rounding is done in integer hundredths of a percent so money never passes
// through floating point.
func ratioPercent(num, denom int64) float64 {
	if denom == 0 {
		return 0
	}
	hundredths := (num*10000 + denom/2) / denom
	return float64(hundredths) / 100
}
