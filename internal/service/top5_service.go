package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"pocket-planner/internal/model"
	"pocket-planner/internal/repository"
)

// Top5Entry is one row of the daily digest sent to the remote
// collaborator. Field order matters: the content hash is computed over
// the serialized entries.
type Top5Entry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Number   int    `json:"number"`
	DueDate  string `json:"due_date"`
}

// BuildDailyTop5Snapshot ranks the five most urgent open tasks as of
// now. Candidates are incomplete tasks due today or overdue (by
// calendar day in loc); tasks without a due date never rank here.
// Ordering: priority, then rounded complexity (quick wins first), then
// creation time.
func BuildDailyTop5Snapshot(tasks []model.Task, now time.Time, loc *time.Location) []Top5Entry {
	today := dayStartIn(now, loc)

	var candidates []model.Task
	for _, task := range tasks {
		task = task.Normalized()
		if task.Completed || task.DueDate == nil {
			continue
		}
		if dayStartIn(*task.DueDate, loc).After(today) {
			continue
		}
		candidates = append(candidates, task)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if an, bn := a.ComplexityNumber(), b.ComplexityNumber(); an != bn {
			return an < bn
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	entries := make([]Top5Entry, 0, len(candidates))
	for _, task := range candidates {
		entries = append(entries, Top5Entry{
			ID:       task.ID,
			Title:    task.Text,
			Priority: task.Priority.String(),
			Number:   task.ComplexityNumber(),
			DueDate:  task.DueDate.In(loc).Format("2006-01-02"),
		})
	}
	return entries
}

// SnapshotHash is a stable digest of a snapshot's content, used to skip
// re-sending identical states.
func SnapshotHash(entries []Top5Entry) string {
	blob, _ := json.Marshal(entries)
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// Top5Syncer pushes a snapshot to the remote collaborator.
type Top5Syncer interface {
	SyncTop5(ctx context.Context, entries []Top5Entry, timezone string) error
}

// HTTPTop5Syncer POSTs the snapshot as JSON.
type HTTPTop5Syncer struct {
	URL    string
	Client *http.Client
}

func (h *HTTPTop5Syncer) SyncTop5(ctx context.Context, entries []Top5Entry, timezone string) error {
	payload := struct {
		Top5     []Top5Entry `json:"top5"`
		Timezone string      `json:"timezone"`
		Source   string      `json:"source"`
	}{Top5: entries, Timezone: timezone, Source: "pocket-planner"}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode top5 payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build top5 request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send top5: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send top5: unexpected status %s", resp.Status)
	}
	return nil
}

// Top5Service recomputes the digest on every tick and syncs it when its
// content hash changes. A change must sit stable for the debounce
// window before it is pushed; a failed push of the same content is not
// retried until the cooldown has elapsed, so a persistently failing
// remote is not hot-looped.
type Top5Service struct {
	taskRepo *repository.TaskRepository
	syncer   Top5Syncer
	loc      *time.Location
	debounce time.Duration
	cooldown time.Duration
	now      func() time.Time

	mu              sync.Mutex
	syncedHash      string
	pendingHash     string
	pendingSince    time.Time
	pendingEntries  []Top5Entry
	lastAttemptHash string
	lastAttemptAt   time.Time
}

func NewTop5Service(taskRepo *repository.TaskRepository, syncer Top5Syncer, loc *time.Location, debounce, cooldown time.Duration) *Top5Service {
	return &Top5Service{
		taskRepo: taskRepo,
		syncer:   syncer,
		loc:      loc,
		debounce: debounce,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Evaluate rebuilds the snapshot from current tasks and runs the sync
// bookkeeping. Remote failure is recorded, never propagated: the digest
// is advisory and must not disturb the caller.
func (s *Top5Service) Evaluate(ctx context.Context) error {
	if s.syncer == nil {
		return nil
	}
	tasks, err := s.taskRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	s.EvaluateSnapshot(ctx, BuildDailyTop5Snapshot(tasks, s.now(), s.loc))
	return nil
}

// EvaluateSnapshot runs change detection and the debounced, cooldown-
// gated push for an already-built snapshot.
func (s *Top5Service) EvaluateSnapshot(ctx context.Context, entries []Top5Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := SnapshotHash(entries)
	now := s.now()

	if hash == s.syncedHash {
		s.pendingHash = ""
		return
	}
	if hash != s.pendingHash {
		// Fresh content supersedes whatever was pending; its debounce
		// clock starts over.
		s.pendingHash = hash
		s.pendingSince = now
		s.pendingEntries = entries
	}
	if now.Sub(s.pendingSince) < s.debounce {
		return
	}
	if hash == s.lastAttemptHash && now.Sub(s.lastAttemptAt) < s.cooldown {
		return
	}

	if err := s.syncer.SyncTop5(ctx, s.pendingEntries, s.loc.String()); err != nil {
		s.lastAttemptHash = hash
		s.lastAttemptAt = now
		log.Printf("[warn] top5 sync failed: %v", err)
		return
	}
	s.syncedHash = hash
	s.pendingHash = ""
	s.lastAttemptHash = ""
}
