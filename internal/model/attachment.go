package model

import "time"

// Attachment holds the binary payload of a task attachment. Blobs live
// only in the primary store; the degraded fallback refuses them.
type Attachment struct {
	ID        string `gorm:"primaryKey"`
	TaskID    string `gorm:"index"`
	Name      string
	MimeType  string
	Data      []byte
	CreatedAt time.Time
}

func (Attachment) TableName() string { return "attachments" }

func (a Attachment) GetID() string    { return a.ID }
func (a *Attachment) SetID(id string) { a.ID = id }

// Meta returns the payload-free description embedded on tasks.
func (a Attachment) Meta() AttachmentMeta {
	return AttachmentMeta{
		ID:       a.ID,
		Name:     a.Name,
		MimeType: a.MimeType,
		Size:     int64(len(a.Data)),
	}
}
