package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

type (
	TransactionType string

	// Transaction is a single income or expense entry. Once recorded it is
	// read-only for statistics purposes.
	Transaction struct {
		ID          int64
		UserID      int64
		Type        TransactionType
		Category    string
		Amount      Money
		Date        time.Time
		Description string
	}

	// Category labels transactions. Default categories are shared across all
	// users and carry UserID == 0.
	Category struct {
		ID          int64
		UserID      int64
		Name        string
		Description string
		Icon        string
		Color       string
		IsDefault   bool
	}

	// Budget is a monthly spending limit for one category.
	Budget struct {
		ID         int64
		UserID     int64
		Month      MonthKey
		CategoryID int64
		Amount     Money
	}

	User struct {
		ID           int64
		Email        string
		Nickname     string
		PasswordHash string
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidMonthKey = errors.New("invalid month key")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyName       = errors.New("empty name")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrForbidden       = errors.New("forbidden")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (tx Transaction) Validate() error {
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(tx.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	return nil
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 50 {
		return errors.New("name too long (max 50 characters)")
	}
	if len(c.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Month.Valid() {
		return ErrInvalidMonthKey
	}
	if b.CategoryID <= 0 {
		return ErrEmptyCategory
	}
	return b.Amount.Validate()
}
