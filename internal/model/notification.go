package model

import (
	"fmt"
	"time"
)

// NotificationSource says which record family produced a notification.
type NotificationSource string

const (
	SourceTodo     NotificationSource = "todo"
	SourceMedicine NotificationSource = "medicine"
	SourceExpense  NotificationSource = "expense"
	// SourceReminder marks user-created reminders. Reconciliation never
	// touches them.
	SourceReminder NotificationSource = "reminder"
)

const (
	KindTodoDue    = "todo-due"
	KindExpenseDue = "expense-due"
	KindReminder   = "reminder"
)

// Notification is one entry of the unified feed. Generated entries
// (Source != reminder) carry deterministic ids so recomputing the feed
// updates them in place instead of duplicating them.
type Notification struct {
	ID          string `gorm:"primaryKey"`
	Message     string
	Source      NotificationSource
	Kind        string
	ScheduledAt time.Time
	CreatedAt   time.Time
	Read        bool `gorm:"default:false"`
	TaskID      string
	MedicineID  string
	ExpenseID   string
}

func (Notification) TableName() string { return "notifications" }

func (n Notification) GetID() string    { return n.ID }
func (n *Notification) SetID(id string) { n.ID = id }

// Generated reports whether reconciliation owns this entry.
func (n Notification) Generated() bool { return n.Source != SourceReminder }

// TodoNotificationID is the deterministic id for a task's due notification.
func TodoNotificationID(taskID string) string {
	return "todo:" + taskID
}

// MedicineNotificationID is the deterministic id for a medicine alert on
// a given day (day-start epoch ms).
func MedicineNotificationID(medicineID, kind string, dayStart time.Time) string {
	return fmt.Sprintf("medicine:%s:%s:%d", medicineID, kind, dayStart.UnixMilli())
}

// ExpenseNotificationID is the deterministic id for an expense occurrence
// on a given day (day-start epoch ms).
func ExpenseNotificationID(expenseID string, dayStart time.Time) string {
	return fmt.Sprintf("expense:%s:due:%d", expenseID, dayStart.UnixMilli())
}
