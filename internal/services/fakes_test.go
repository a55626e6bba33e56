package services

import (
	"context"
	"time"

	"jangbu/internal/amqp"
	"jangbu/internal/core"
)

type fakeTransactionStore struct {
	nextID int64
	byID   map[int64]core.Transaction

	createErr error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{byID: make(map[int64]core.Transaction)}
}

func (f *fakeTransactionStore) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if f.createErr != nil {
		return core.Transaction{}, f.createErr
	}
	f.nextID++
	tx.ID = f.nextID
	f.byID[tx.ID] = tx
	return tx, nil
}

func (f *fakeTransactionStore) TransactionByID(_ context.Context, userID, id int64) (core.Transaction, error) {
	tx, ok := f.byID[id]
	if !ok || tx.UserID != userID {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (f *fakeTransactionStore) TransactionsByDateRange(_ context.Context, userID int64, start, end time.Time) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, tx := range f.byID {
		if tx.UserID == userID && !tx.Date.Before(start) && !tx.Date.After(end) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	existing, ok := f.byID[tx.ID]
	if !ok || existing.UserID != tx.UserID {
		return core.ErrNotFound
	}
	f.byID[tx.ID] = tx
	return nil
}

func (f *fakeTransactionStore) DeleteTransaction(_ context.Context, userID, id int64) error {
	tx, ok := f.byID[id]
	if !ok || tx.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakePublisher struct {
	published []*amqp.TransactionEventMessage
	err       error
}

func (f *fakePublisher) PublishTransactionEvent(_ context.Context, msg *amqp.TransactionEventMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeCategoryStore struct {
	nextID int64
	byID   map[int64]core.Category

	createErr error
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{byID: make(map[int64]core.Category)}
}

func (f *fakeCategoryStore) add(c core.Category) core.Category {
	f.nextID++
	c.ID = f.nextID
	f.byID[c.ID] = c
	return c
}

func (f *fakeCategoryStore) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if f.createErr != nil {
		return core.Category{}, f.createErr
	}
	return f.add(c), nil
}

func (f *fakeCategoryStore) CategoriesForUser(_ context.Context, userID int64) ([]core.Category, error) {
	var out []core.Category
	for _, c := range f.byID {
		if c.UserID == 0 || c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) CategoryByID(_ context.Context, userID, id int64) (core.Category, error) {
	c, ok := f.byID[id]
	if !ok || (c.UserID != 0 && c.UserID != userID) {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryStore) UpdateCategory(_ context.Context, c core.Category) error {
	existing, ok := f.byID[c.ID]
	if !ok || existing.UserID != c.UserID || existing.IsDefault {
		return core.ErrNotFound
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategoryStore) DeleteCategory(_ context.Context, userID, id int64) error {
	c, ok := f.byID[id]
	if !ok || c.UserID != userID || c.IsDefault {
		return core.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeBudgetStore struct {
	nextID int64
	byID   map[int64]core.Budget
}

func newFakeBudgetStore() *fakeBudgetStore {
	return &fakeBudgetStore{byID: make(map[int64]core.Budget)}
}

func (f *fakeBudgetStore) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	for _, existing := range f.byID {
		if existing.UserID == b.UserID && existing.Month == b.Month && existing.CategoryID == b.CategoryID {
			return core.Budget{}, core.ErrDuplicate
		}
	}
	f.nextID++
	b.ID = f.nextID
	f.byID[b.ID] = b
	return b, nil
}

func (f *fakeBudgetStore) BudgetByID(_ context.Context, userID, id int64) (core.Budget, error) {
	b, ok := f.byID[id]
	if !ok || b.UserID != userID {
		return core.Budget{}, core.ErrNotFound
	}
	return b, nil
}

func (f *fakeBudgetStore) BudgetsForMonth(_ context.Context, userID int64, month core.MonthKey) ([]core.Budget, error) {
	var out []core.Budget
	for _, b := range f.byID {
		if b.UserID == userID && b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBudgetStore) UpdateBudget(_ context.Context, b core.Budget) error {
	existing, ok := f.byID[b.ID]
	if !ok || existing.UserID != b.UserID {
		return core.ErrNotFound
	}
	f.byID[b.ID] = b
	return nil
}

func (f *fakeBudgetStore) DeleteBudget(_ context.Context, userID, id int64) error {
	b, ok := f.byID[id]
	if !ok || b.UserID != userID {
		return core.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeUserStore struct {
	nextID  int64
	byEmail map[string]core.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]core.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u core.User) (core.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return core.User{}, core.ErrDuplicate
	}
	f.nextID++
	u.ID = f.nextID
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (core.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(userID int64) (string, error) {
	return "token-for-user", nil
}
