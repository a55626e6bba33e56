package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jangbu/internal/core"
)

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, description, icon, color, is_default)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Description, c.Icon, c.Color, c.IsDefault)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", mapConstraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}
	c.ID = id
	return c, nil
}

// CategoriesForUser lists the shared default categories followed by the
// user's own, defaults first.
func (r *SQLiteRepository) CategoriesForUser(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, icon, color, is_default
		FROM categories
		WHERE user_id = 0 OR user_id = ?
		ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// CategoryByID fetches one category visible to the user, either a shared
// default or one of their own.
func (r *SQLiteRepository) CategoryByID(ctx context.Context, userID, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, icon, color, is_default
		FROM categories
		WHERE id = ? AND (user_id = 0 OR user_id = ?)`, id, userID)

	var c core.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Icon, &c.Color, &c.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// UpdateCategory updates one of the user's own categories. Defaults belong
// to user 0 and never match the WHERE clause.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, description = ?, icon = ?, color = ?
		WHERE id = ? AND user_id = ? AND is_default = 0`,
		c.Name, c.Description, c.Icon, c.Color, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, mapConstraintErr(err))
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM categories WHERE id = ? AND user_id = ? AND is_default = 0`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return requireRow(res)
}
