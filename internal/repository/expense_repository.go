package repository

import (
	"context"

	"pocket-planner/internal/model"
	"pocket-planner/internal/storage"
)

// ExpenseRepository handles the expenses collection.
type ExpenseRepository struct {
	store *storage.Service
}

func NewExpenseRepository(store *storage.Service) *ExpenseRepository {
	return &ExpenseRepository{store: store}
}

func (r *ExpenseRepository) GetAll(ctx context.Context) ([]model.Expense, error) {
	expenses, err := storage.GetAll[model.Expense](ctx, r.store)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i] = expenses[i].Normalized()
	}
	return expenses, nil
}

func (r *ExpenseRepository) Get(ctx context.Context, id string) (model.Expense, bool, error) {
	return storage.Get[model.Expense](ctx, r.store, id)
}

func (r *ExpenseRepository) Put(ctx context.Context, expense *model.Expense) (string, error) {
	return storage.Put(ctx, r.store, expense)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	return storage.Delete[model.Expense](ctx, r.store, id)
}
