package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jangbu/internal/core"
)

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, nickname, password_hash)
		VALUES (?, ?, ?)`,
		u.Email, u.Nickname, u.PasswordHash)
	if err != nil {
		return core.User{}, fmt.Errorf("insert user: %w", mapConstraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}
	u.ID = id
	return u, nil
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, nickname, password_hash FROM users WHERE email = ?`, email)

	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, nickname, password_hash FROM users WHERE id = ?`, id)

	var u core.User
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}
