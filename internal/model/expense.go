package model

import "time"

// Frequency says how often a recurring expense comes due.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ExpenseCategory is a cosmetic grouping, not an entity.
type ExpenseCategory string

const (
	CategoryA ExpenseCategory = "A"
	CategoryB ExpenseCategory = "B"
)

// Expense is a recurring payment anchored at Date. The anchor is never
// re-written; due days are derived fresh from it on every check.
type Expense struct {
	ID        string `gorm:"primaryKey"`
	Title     string
	Amount    float64
	Frequency Frequency       `gorm:"default:monthly"`
	Category  ExpenseCategory `gorm:"default:A"`
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Expense) TableName() string { return "expenses" }

func (e Expense) GetID() string    { return e.ID }
func (e *Expense) SetID(id string) { e.ID = id }

// Normalized fills defaults for fields older records may lack.
func (e Expense) Normalized() Expense {
	if e.Frequency != FrequencyWeekly && e.Frequency != FrequencyMonthly {
		e.Frequency = FrequencyMonthly
	}
	if e.Category != CategoryA && e.Category != CategoryB {
		e.Category = CategoryA
	}
	return e
}
