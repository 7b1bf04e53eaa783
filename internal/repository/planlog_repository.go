package repository

import (
	"context"
	"time"

	"pocket-planner/internal/model"
	"pocket-planner/internal/storage"
)

// PlanLogRepository appends AI planning results to their log collection.
type PlanLogRepository struct {
	store *storage.Service
}

func NewPlanLogRepository(store *storage.Service) *PlanLogRepository {
	return &PlanLogRepository{store: store}
}

func (r *PlanLogRepository) Append(ctx context.Context, prompt, result string, at time.Time) (string, error) {
	entry := model.PlanLog{Prompt: prompt, Result: result, CreatedAt: at}
	return storage.Put(ctx, r.store, &entry)
}

func (r *PlanLogRepository) GetAll(ctx context.Context) ([]model.PlanLog, error) {
	return storage.GetAll[model.PlanLog](ctx, r.store)
}
