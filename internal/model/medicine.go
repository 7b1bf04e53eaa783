package model

import "time"

const (
	// DefaultSupplyDays is assumed when a record carries no supply count.
	DefaultSupplyDays = 30
	// MaxSupplyDays caps how far ahead a supply can be stocked.
	MaxSupplyDays = 365
)

// Medicine tracks a medication, its daily checkbox and the remaining
// days of supply.
type Medicine struct {
	ID     string `gorm:"primaryKey"`
	Name   string
	Dosage string
	// Taken is the manual "took it today" checkbox. It is never decayed
	// automatically; the user resets it.
	Taken bool `gorm:"default:false"`
	// Remaining is days of supply left, decremented once per elapsed
	// calendar day. Zero is a real value (supply exhausted), so the
	// column carries no default; the missing-record rule lives in
	// Normalized.
	Remaining int
	// LastUpdated marks the start of the day Remaining was last decayed,
	// so the same day is never double-decremented.
	LastUpdated  time.Time
	AlarmEnabled bool `gorm:"default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Medicine) TableName() string { return "medicines" }

func (m Medicine) GetID() string    { return m.ID }
func (m *Medicine) SetID(id string) { m.ID = id }

// Normalized fills defaults for fields older records may lack and clamps
// the supply count into [0, MaxSupplyDays]. A record with neither a
// supply count nor a decay anchor predates supply tracking and gets the
// standard supply; an exhausted supply always has an anchor, since decay
// is what sets it.
func (m Medicine) Normalized(todayStart time.Time) Medicine {
	if m.LastUpdated.IsZero() {
		if m.Remaining == 0 {
			m.Remaining = DefaultSupplyDays
		}
		m.LastUpdated = todayStart
	}
	if m.Remaining < 0 {
		m.Remaining = 0
	}
	if m.Remaining > MaxSupplyDays {
		m.Remaining = MaxSupplyDays
	}
	return m
}
