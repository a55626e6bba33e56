package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jangbu/internal/core"
)

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, type, category, amount_cents, tx_date, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.UserID, string(tx.Type), tx.Category, tx.Amount.Cents, formatDate(tx.Date), tx.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	tx.ID = id
	return tx, nil
}

func (r *SQLiteRepository) TransactionByID(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, category, amount_cents, tx_date, description
		FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// TransactionsByDateRange returns the user's transactions dated within
// [start, end], both bounds inclusive.
func (r *SQLiteRepository) TransactionsByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, category, amount_cents, tx_date, description
		FROM transactions
		WHERE user_id = ? AND tx_date BETWEEN ? AND ?
		ORDER BY tx_date, id`,
		userID, formatDate(start), formatDate(end))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, category = ?, amount_cents = ?, tx_date = ?, description = ?
		WHERE id = ? AND user_id = ?`,
		string(tx.Type), tx.Category, tx.Amount.Cents, formatDate(tx.Date), tx.Description,
		tx.ID, tx.UserID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		typ     string
		rawDate string
	)
	if err := row.Scan(&tx.ID, &tx.UserID, &typ, &tx.Category, &tx.Amount.Cents, &rawDate, &tx.Description); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TransactionType(typ)
	date, err := parseDate(rawDate)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse tx_date %q: %w", rawDate, err)
	}
	tx.Date = date
	return tx, nil
}

// requireRow maps a zero-row write to ErrNotFound. Writes are always scoped
// by user id, so a row owned by someone else also reads as not found.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
