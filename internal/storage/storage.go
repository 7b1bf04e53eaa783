package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAttachmentsUnavailable is returned for attachment blob operations
// while the service runs on the fallback store, which cannot hold
// binary payloads.
var ErrAttachmentsUnavailable = errors.New("attachments require the primary store")

// primaryOnly lists collections whose records the fallback store cannot
// hold economically. Operations on them fail loudly while degraded
// instead of quietly landing in memory.
var primaryOnly = map[string]bool{
	"attachments": true,
}

// Record is implemented by every persisted entity.
type Record interface {
	GetID() string
	SetID(id string)
	TableName() string
}

// Service routes collection operations to the SQLite primary, falling
// back permanently to an in-memory store on the first primary failure.
// The fallback flag is sticky: once degraded, the process never switches
// back, and the user is warned exactly once.
type Service struct {
	mu       sync.Mutex
	db       *gorm.DB
	mem      map[string][]byte // collection name -> JSON array blob
	degraded bool
	warned   bool
	log      *log.Logger
}

// NewService wraps the given primary connection. A nil db means the
// primary failed to open; the service then starts degraded.
func NewService(db *gorm.DB, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		db:  db,
		mem: make(map[string][]byte),
		log: logger,
	}
	if db == nil {
		s.degrade(errors.New("primary store not opened"))
	}
	return s
}

// Degraded reports whether the service has fallen back.
func (s *Service) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// degrade flips the sticky flag. Only the first failure is surfaced;
// repeating the warning on every call would just drown the log.
func (s *Service) degrade(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded = true
	if !s.warned {
		s.warned = true
		s.log.Printf("[warn] primary store unavailable, switching to in-memory fallback: %v", err)
	}
}

func (s *Service) primary() *gorm.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded {
		return nil
	}
	return s.db
}

// GetAll returns every record in T's collection.
func GetAll[T any, PT interface {
	Record
	*T
}](ctx context.Context, s *Service) ([]T, error) {
	table := PT(new(T)).TableName()

	if db := s.primary(); db != nil {
		var items []T
		if err := db.WithContext(ctx).Table(table).Find(&items).Error; err != nil {
			s.degrade(err)
		} else {
			return items, nil
		}
	}

	if primaryOnly[table] {
		return nil, ErrAttachmentsUnavailable
	}
	items, err := loadBlob[T](s, table)
	if err != nil {
		return nil, fmt.Errorf("get all %s: %w", table, err)
	}
	return items, nil
}

// Get fetches one record by id. The bool reports whether it exists.
func Get[T any, PT interface {
	Record
	*T
}](ctx context.Context, s *Service, id string) (T, bool, error) {
	var zero T
	table := PT(new(T)).TableName()

	if db := s.primary(); db != nil {
		var item T
		err := db.WithContext(ctx).Table(table).Where("id = ?", id).First(&item).Error
		switch {
		case err == nil:
			return item, true, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			return zero, false, nil
		default:
			s.degrade(err)
		}
	}

	if primaryOnly[table] {
		return zero, false, ErrAttachmentsUnavailable
	}
	items, err := loadBlob[T](s, table)
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", table, err)
	}
	for _, item := range items {
		if PT(&item).GetID() == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Put upserts a record by id, assigning a fresh random id when the
// record has none, and returns the key it was stored under.
func Put[T any, PT interface {
	Record
	*T
}](ctx context.Context, s *Service, rec PT) (string, error) {
	if rec.GetID() == "" {
		rec.SetID(uuid.NewString())
	}
	table := rec.TableName()

	if db := s.primary(); db != nil {
		// Ids are caller-supplied, so an insert-or-update needs an
		// explicit conflict clause; Save alone would miss the insert.
		err := db.WithContext(ctx).Table(table).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(rec).Error
		if err != nil {
			s.degrade(err)
		} else {
			return rec.GetID(), nil
		}
	}

	if primaryOnly[table] {
		return "", ErrAttachmentsUnavailable
	}
	items, err := loadBlob[T](s, table)
	if err != nil {
		return "", fmt.Errorf("put %s: %w", table, err)
	}
	replaced := false
	for i := range items {
		if PT(&items[i]).GetID() == rec.GetID() {
			items[i] = *rec
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, *rec)
	}
	if err := storeBlob(s, table, items); err != nil {
		return "", fmt.Errorf("put %s: %w", table, err)
	}
	return rec.GetID(), nil
}

// Delete removes a record by id. Deleting a missing id is a no-op.
func Delete[T any, PT interface {
	Record
	*T
}](ctx context.Context, s *Service, id string) error {
	table := PT(new(T)).TableName()

	if db := s.primary(); db != nil {
		if err := db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(new(T)).Error; err != nil {
			s.degrade(err)
		} else {
			return nil
		}
	}

	if primaryOnly[table] {
		return ErrAttachmentsUnavailable
	}
	items, err := loadBlob[T](s, table)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	kept := items[:0]
	for i := range items {
		if PT(&items[i]).GetID() != id {
			kept = append(kept, items[i])
		}
	}
	if err := storeBlob(s, table, kept); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// The fallback keeps each collection as one JSON array blob, so records
// survive only for the process lifetime.

func loadBlob[T any](s *Service, table string) ([]T, error) {
	s.mu.Lock()
	blob, ok := s.mem[table]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, fmt.Errorf("decode fallback collection: %w", err)
	}
	return items, nil
}

func storeBlob[T any](s *Service, table string, items []T) error {
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode fallback collection: %w", err)
	}
	s.mu.Lock()
	s.mem[table] = blob
	s.mu.Unlock()
	return nil
}
