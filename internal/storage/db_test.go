package storage

import (
	"bytes"
	"context"
	"errors"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"pocket-planner/internal/model"
)

func newPrimaryService(t *testing.T) (*Service, *bytes.Buffer) {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	var buf bytes.Buffer
	return NewService(db, log.New(&buf, "", 0)), &buf
}

func TestPrimaryRoundTrip(t *testing.T) {
	is := is.New(t)
	s, _ := newPrimaryService(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	task := model.Task{
		ID: "t1", Text: "water the plants", Priority: model.P2, DueDate: &due,
		Subtasks: []model.Subtask{{ID: "s1", Text: "fill the can"}},
		NoteIDs:  []string{"n1"},
	}
	id, err := Put(ctx, s, &task)
	is.NoErr(err)
	is.Equal(id, "t1")

	got, ok, err := Get[model.Task](ctx, s, "t1")
	is.NoErr(err)
	is.True(ok)
	is.Equal(got.Text, "water the plants")
	is.True(got.DueDate != nil)
	is.Equal(len(got.Subtasks), 1)
	is.Equal(got.Subtasks[0].Text, "fill the can")
	is.Equal(got.NoteIDs, []string{"n1"})

	tasks, err := GetAll[model.Task](ctx, s)
	is.NoErr(err)
	is.Equal(len(tasks), 1)

	is.NoErr(Delete[model.Task](ctx, s, "t1"))
	is.NoErr(Delete[model.Task](ctx, s, "t1")) // missing: no-op
	tasks, err = GetAll[model.Task](ctx, s)
	is.NoErr(err)
	is.Equal(len(tasks), 0)

	_, ok, err = Get[model.Task](ctx, s, "t1")
	is.NoErr(err)
	is.True(!ok)
	is.True(!s.Degraded())
}

func TestPrimaryPersistsExhaustedSupply(t *testing.T) {
	is := is.New(t)
	s, _ := newPrimaryService(t)
	ctx := context.Background()

	anchor := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// A supply stocked at zero must read back as zero, not revive.
	_, err := Put(ctx, s, &model.Medicine{ID: "m1", Name: "aspirin", LastUpdated: anchor})
	is.NoErr(err)
	got, ok, err := Get[model.Medicine](ctx, s, "m1")
	is.NoErr(err)
	is.True(ok)
	is.Equal(got.Remaining, 0)

	// Decaying an existing supply down to zero must stick too.
	_, err = Put(ctx, s, &model.Medicine{ID: "m2", Name: "ibuprofen", Remaining: 5, LastUpdated: anchor})
	is.NoErr(err)
	_, err = Put(ctx, s, &model.Medicine{ID: "m2", Name: "ibuprofen", Remaining: 0, LastUpdated: anchor.AddDate(0, 0, 5)})
	is.NoErr(err)
	got, ok, err = Get[model.Medicine](ctx, s, "m2")
	is.NoErr(err)
	is.True(ok)
	is.Equal(got.Remaining, 0)
	is.True(got.LastUpdated.Equal(anchor.AddDate(0, 0, 5)))
}

func TestPrimaryUpsertDoesNotDuplicate(t *testing.T) {
	is := is.New(t)
	s, _ := newPrimaryService(t)
	ctx := context.Background()

	_, err := Put(ctx, s, &model.Expense{ID: "e1", Title: "rent", Amount: 900, Frequency: model.FrequencyMonthly})
	is.NoErr(err)
	_, err = Put(ctx, s, &model.Expense{ID: "e1", Title: "rent", Amount: 950, Frequency: model.FrequencyMonthly})
	is.NoErr(err)

	expenses, err := GetAll[model.Expense](ctx, s)
	is.NoErr(err)
	is.Equal(len(expenses), 1)
	is.Equal(expenses[0].Amount, 950.0)
}

func TestPrimaryFailureDegradesOnce(t *testing.T) {
	is := is.New(t)
	s, buf := newPrimaryService(t)
	ctx := context.Background()

	// Kill the primary mid-life.
	sqlDB, err := s.db.DB()
	is.NoErr(err)
	is.NoErr(sqlDB.Close())

	// The failing op degrades the service and lands on the fallback.
	_, err = Put(ctx, s, &model.Task{ID: "t1", Text: "survives degradation"})
	is.NoErr(err)
	is.True(s.Degraded())

	tasks, err := GetAll[model.Task](ctx, s)
	is.NoErr(err)
	is.Equal(len(tasks), 1)
	is.Equal(tasks[0].Text, "survives degradation")

	// More traffic, still exactly one warning.
	is.NoErr(Delete[model.Task](ctx, s, "t1"))
	_, err = Put(ctx, s, &model.Task{ID: "t2", Text: "another"})
	is.NoErr(err)
	is.Equal(strings.Count(buf.String(), "[warn]"), 1)
}

func TestAttachmentsFailLoudlyAfterDegradation(t *testing.T) {
	is := is.New(t)
	s, _ := newPrimaryService(t)
	ctx := context.Background()

	_, err := Put(ctx, s, &model.Attachment{ID: "a1", TaskID: "t1", Name: "scan.pdf", Data: []byte{1, 2, 3}})
	is.NoErr(err)

	sqlDB, err := s.db.DB()
	is.NoErr(err)
	is.NoErr(sqlDB.Close())

	// Even when the attachment write is itself the first failure, the
	// blob must not quietly land in the fallback.
	_, err = Put(ctx, s, &model.Attachment{ID: "a2", TaskID: "t1", Name: "photo.jpg", Data: []byte{4, 5}})
	is.True(errors.Is(err, ErrAttachmentsUnavailable))
	is.True(s.Degraded())

	_, _, err = Get[model.Attachment](ctx, s, "a1")
	is.True(errors.Is(err, ErrAttachmentsUnavailable))
	err = Delete[model.Attachment](ctx, s, "a1")
	is.True(errors.Is(err, ErrAttachmentsUnavailable))
	_, err = GetAll[model.Attachment](ctx, s)
	is.True(errors.Is(err, ErrAttachmentsUnavailable))
}
