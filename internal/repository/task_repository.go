package repository

import (
	"context"
	"fmt"
	"time"

	"pocket-planner/internal/model"
	"pocket-planner/internal/storage"
)

// TaskRepository handles the todos and deleted_todos collections.
type TaskRepository struct {
	store *storage.Service
}

func NewTaskRepository(store *storage.Service) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) GetAll(ctx context.Context) ([]model.Task, error) {
	tasks, err := storage.GetAll[model.Task](ctx, r.store)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i] = tasks[i].Normalized()
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (model.Task, bool, error) {
	task, ok, err := storage.Get[model.Task](ctx, r.store, id)
	if err != nil || !ok {
		return task, ok, err
	}
	return task.Normalized(), true, nil
}

func (r *TaskRepository) Put(ctx context.Context, task *model.Task) (string, error) {
	return storage.Put(ctx, r.store, task)
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return storage.Delete[model.Task](ctx, r.store, id)
}

// SoftDelete moves a task into the deleted_todos collection instead of
// erasing it. The copy is written before the original is removed, so a
// crash in between leaves the task in both collections rather than in
// neither.
func (r *TaskRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	task, ok, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	deleted := model.DeletedTask{Task: task, DeletedAt: deletedAt}
	if _, err := storage.Put(ctx, r.store, &deleted); err != nil {
		return fmt.Errorf("park deleted task: %w", err)
	}
	if err := storage.Delete[model.Task](ctx, r.store, id); err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	return nil
}

// Restore moves a soft-deleted task back into the live collection.
func (r *TaskRepository) Restore(ctx context.Context, id string) (model.Task, bool, error) {
	deleted, ok, err := storage.Get[model.DeletedTask](ctx, r.store, id)
	if err != nil || !ok {
		return model.Task{}, ok, err
	}
	task := deleted.Task
	if _, err := storage.Put(ctx, r.store, &task); err != nil {
		return model.Task{}, false, fmt.Errorf("restore task: %w", err)
	}
	if err := storage.Delete[model.DeletedTask](ctx, r.store, id); err != nil {
		return model.Task{}, false, fmt.Errorf("unpark deleted task: %w", err)
	}
	return task, true, nil
}

func (r *TaskRepository) GetDeleted(ctx context.Context) ([]model.DeletedTask, error) {
	return storage.GetAll[model.DeletedTask](ctx, r.store)
}
