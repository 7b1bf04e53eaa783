package model

import "time"

// Priority is the task urgency ordinal. P1 is the most urgent.
type Priority int

const (
	P1 Priority = iota + 1
	P2
	P3
	P4
)

// Ordinal maps a priority to its numeric form (P1..P4 -> 1..4) for
// outbound reminder payloads.
func (p Priority) Ordinal() int {
	if p < P1 || p > P4 {
		return int(P4)
	}
	return int(p)
}

func (p Priority) String() string {
	switch p {
	case P1:
		return "P1"
	case P2:
		return "P2"
	case P3:
		return "P3"
	default:
		return "P4"
	}
}

// Next cycles P1 -> P2 -> P3 -> P4 -> P1.
func (p Priority) Next() Priority {
	if p >= P4 || p < P1 {
		return P1
	}
	return p + 1
}

// Subtask is an inline checklist item on a task.
type Subtask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// AttachmentMeta describes a stored attachment blob without its payload.
type AttachmentMeta struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// Task represents a single item in the planner.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Text        string
	Completed   bool     `gorm:"default:false"`
	Priority    Priority `gorm:"default:4"`
	DueDate     *time.Time
	Complexity  *float64
	Subtasks    []Subtask        `gorm:"serializer:json"`
	NoteIDs     []string         `gorm:"serializer:json"`
	Attachments []AttachmentMeta `gorm:"serializer:json"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Task) TableName() string { return "todos" }

func (t Task) GetID() string    { return t.ID }
func (t *Task) SetID(id string) { t.ID = id }

// Normalized fills defaults an older persisted record may lack.
func (t Task) Normalized() Task {
	if t.Priority < P1 || t.Priority > P4 {
		t.Priority = P4
	}
	return t
}

// ComplexityNumber rounds the complexity estimate to the nearest integer,
// clamped to at least 1. Tasks without an estimate rank mid-scale.
func (t Task) ComplexityNumber() int {
	c := 5.0
	if t.Complexity != nil {
		c = *t.Complexity
	}
	n := int(c + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

// DeletedTask is a soft-deleted task parked in its own collection so it
// can be restored later.
type DeletedTask struct {
	Task      `gorm:"embedded"`
	DeletedAt time.Time
}

func (DeletedTask) TableName() string { return "deleted_todos" }
