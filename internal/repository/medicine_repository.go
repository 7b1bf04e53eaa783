package repository

import (
	"context"

	"pocket-planner/internal/model"
	"pocket-planner/internal/storage"
)

// MedicineRepository handles the medicines collection.
type MedicineRepository struct {
	store *storage.Service
}

func NewMedicineRepository(store *storage.Service) *MedicineRepository {
	return &MedicineRepository{store: store}
}

func (r *MedicineRepository) GetAll(ctx context.Context) ([]model.Medicine, error) {
	return storage.GetAll[model.Medicine](ctx, r.store)
}

func (r *MedicineRepository) Get(ctx context.Context, id string) (model.Medicine, bool, error) {
	return storage.Get[model.Medicine](ctx, r.store, id)
}

func (r *MedicineRepository) Put(ctx context.Context, med *model.Medicine) (string, error) {
	return storage.Put(ctx, r.store, med)
}

func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	return storage.Delete[model.Medicine](ctx, r.store, id)
}
