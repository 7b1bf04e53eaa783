package repository

import (
	"context"

	"pocket-planner/internal/model"
	"pocket-planner/internal/storage"
)

// AttachmentRepository stores attachment blobs. Unlike the other
// collections it never degrades silently: the fallback store cannot hold
// binary payloads, so operations fail loudly while degraded.
type AttachmentRepository struct {
	store *storage.Service
}

func NewAttachmentRepository(store *storage.Service) *AttachmentRepository {
	return &AttachmentRepository{store: store}
}

func (r *AttachmentRepository) Put(ctx context.Context, att *model.Attachment) (string, error) {
	if r.store.Degraded() {
		return "", storage.ErrAttachmentsUnavailable
	}
	return storage.Put(ctx, r.store, att)
}

func (r *AttachmentRepository) Get(ctx context.Context, id string) (model.Attachment, bool, error) {
	if r.store.Degraded() {
		return model.Attachment{}, false, storage.ErrAttachmentsUnavailable
	}
	return storage.Get[model.Attachment](ctx, r.store, id)
}

func (r *AttachmentRepository) Delete(ctx context.Context, id string) error {
	if r.store.Degraded() {
		return storage.ErrAttachmentsUnavailable
	}
	return storage.Delete[model.Attachment](ctx, r.store, id)
}
