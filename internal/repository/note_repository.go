package repository

import (
	"context"

	"pocket-planner/internal/model"
	"pocket-planner/internal/storage"
)

// NoteRepository handles the notes and note_folders collections.
type NoteRepository struct {
	store *storage.Service
}

func NewNoteRepository(store *storage.Service) *NoteRepository {
	return &NoteRepository{store: store}
}

func (r *NoteRepository) GetAll(ctx context.Context) ([]model.NoteDoc, error) {
	return storage.GetAll[model.NoteDoc](ctx, r.store)
}

func (r *NoteRepository) Get(ctx context.Context, id string) (model.NoteDoc, bool, error) {
	return storage.Get[model.NoteDoc](ctx, r.store, id)
}

func (r *NoteRepository) Put(ctx context.Context, note *model.NoteDoc) (string, error) {
	return storage.Put(ctx, r.store, note)
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return storage.Delete[model.NoteDoc](ctx, r.store, id)
}

func (r *NoteRepository) GetFolders(ctx context.Context) ([]model.NoteFolder, error) {
	return storage.GetAll[model.NoteFolder](ctx, r.store)
}

func (r *NoteRepository) PutFolder(ctx context.Context, folder *model.NoteFolder) (string, error) {
	return storage.Put(ctx, r.store, folder)
}

func (r *NoteRepository) DeleteFolder(ctx context.Context, id string) error {
	return storage.Delete[model.NoteFolder](ctx, r.store, id)
}
