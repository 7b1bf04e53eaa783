package model

import "time"

// NoteFolder groups note documents, optionally nested.
type NoteFolder struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NoteFolder) TableName() string { return "note_folders" }

func (f NoteFolder) GetID() string    { return f.ID }
func (f *NoteFolder) SetID(id string) { f.ID = id }

// NoteDoc is a document. Encrypted notes keep their ciphertext in
// Content; nothing here ever decrypts them, readers only see the title.
type NoteDoc struct {
	ID        string `gorm:"primaryKey"`
	FolderID  *string
	Title     string
	Content   string
	Encrypted bool `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NoteDoc) TableName() string { return "notes" }

func (n NoteDoc) GetID() string    { return n.ID }
func (n *NoteDoc) SetID(id string) { n.ID = id }

// PlanLog is an append-only record of an AI planning result kept for
// later review. The content is opaque to the rest of the app.
type PlanLog struct {
	ID        string `gorm:"primaryKey"`
	Prompt    string
	Result    string
	CreatedAt time.Time
}

func (PlanLog) TableName() string { return "plan_logs" }

func (p PlanLog) GetID() string    { return p.ID }
func (p *PlanLog) SetID(id string) { p.ID = id }
