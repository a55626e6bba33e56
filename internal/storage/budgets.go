package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jangbu/internal/core"
	"jangbu/internal/stats"
)

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, year_month, category_id, amount_cents)
		VALUES (?, ?, ?, ?)`,
		b.UserID, b.Month.String(), b.CategoryID, b.Amount.Cents)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", mapConstraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (r *SQLiteRepository) BudgetByID(ctx context.Context, userID, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, year_month, category_id, amount_cents
		FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget %d: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) BudgetsForMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, year_month, category_id, amount_cents
		FROM budgets
		WHERE user_id = ? AND year_month = ?
		ORDER BY id`, userID, month.String())
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// BudgetPlan aggregates a user's budgets for one month into the shape the
// statistics engine compares against: a total plus per-category limits keyed
// by category name.
func (r *SQLiteRepository) BudgetPlan(ctx context.Context, userID int64, month core.MonthKey) (stats.BudgetPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, b.amount_cents
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = ? AND b.year_month = ?`, userID, month.String())
	if err != nil {
		return stats.BudgetPlan{}, fmt.Errorf("query budget plan: %w", err)
	}
	defer rows.Close()

	plan := stats.BudgetPlan{ByCategory: make(map[string]core.Money)}
	for rows.Next() {
		var (
			name  string
			cents int64
		)
		if err := rows.Scan(&name, &cents); err != nil {
			return stats.BudgetPlan{}, fmt.Errorf("scan budget plan: %w", err)
		}
		plan.ByCategory[name] = core.Money{Cents: cents}
		plan.Total.Cents += cents
	}
	return plan, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET amount_cents = ?
		WHERE id = ? AND user_id = ?`,
		b.Amount.Cents, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget %d: %w", b.ID, err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget %d: %w", id, err)
	}
	return requireRow(res)
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b        core.Budget
		rawMonth string
	)
	if err := row.Scan(&b.ID, &b.UserID, &rawMonth, &b.CategoryID, &b.Amount.Cents); err != nil {
		return core.Budget{}, err
	}
	month, err := core.ParseMonthKey(rawMonth)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse year_month %q: %w", rawMonth, err)
	}
	b.Month = month
	return b, nil
}
