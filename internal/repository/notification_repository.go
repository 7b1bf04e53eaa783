package repository

import (
	"context"

	"pocket-planner/internal/model"
	"pocket-planner/internal/storage"
)

// NotificationRepository handles the notifications collection.
type NotificationRepository struct {
	store *storage.Service
}

func NewNotificationRepository(store *storage.Service) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) GetAll(ctx context.Context) ([]model.Notification, error) {
	return storage.GetAll[model.Notification](ctx, r.store)
}

func (r *NotificationRepository) Get(ctx context.Context, id string) (model.Notification, bool, error) {
	return storage.Get[model.Notification](ctx, r.store, id)
}

func (r *NotificationRepository) Put(ctx context.Context, n *model.Notification) (string, error) {
	return storage.Put(ctx, r.store, n)
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	return storage.Delete[model.Notification](ctx, r.store, id)
}
