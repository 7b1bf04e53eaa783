package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pocket-planner/internal/model"
	"pocket-planner/internal/repository"
)

// ChangeKind tags the outcome of diffing one desired notification
// against the persisted feed.
type ChangeKind int

const (
	ChangeUnchanged ChangeKind = iota
	ChangeInserted
	ChangeUpdated
)

// NotificationService keeps the persisted feed consistent with live
// task/medicine/expense state. Generated entries carry deterministic
// ids, which turns every recompute into an idempotent diff-and-patch:
// read flags survive, stale entries disappear, unchanged entries are
// not rewritten.
type NotificationService struct {
	taskRepo     *repository.TaskRepository
	medicineRepo *repository.MedicineRepository
	expenseRepo  *repository.ExpenseRepository
	notifRepo    *repository.NotificationRepository

	loc        *time.Location
	windowDays int
	// threshold filters expense notifications: amounts below it are not
	// worth a feed entry.
	threshold float64
	now       func() time.Time
}

func NewNotificationService(
	taskRepo *repository.TaskRepository,
	medicineRepo *repository.MedicineRepository,
	expenseRepo *repository.ExpenseRepository,
	notifRepo *repository.NotificationRepository,
	loc *time.Location,
	windowDays int,
	threshold float64,
) *NotificationService {
	return &NotificationService{
		taskRepo:     taskRepo,
		medicineRepo: medicineRepo,
		expenseRepo:  expenseRepo,
		notifRepo:    notifRepo,
		loc:          loc,
		windowDays:   windowDays,
		threshold:    threshold,
		now:          time.Now,
	}
}

// Reconcile rebuilds the desired set and patches the persisted feed to
// match it. User reminders are never touched.
func (s *NotificationService) Reconcile(ctx context.Context) error {
	now := s.now()
	today := dayStartIn(now, s.loc)

	desired, err := s.buildDesired(ctx, today)
	if err != nil {
		return err
	}

	existing, err := s.notifRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]model.Notification, len(existing))
	for _, n := range existing {
		byID[n.ID] = n
	}

	desiredIDs := make(map[string]bool, len(desired))
	for _, want := range desired {
		desiredIDs[want.ID] = true
		have, ok := byID[want.ID]
		if !ok {
			want.Read = false
			want.CreatedAt = now
			if _, err := s.notifRepo.Put(ctx, &want); err != nil {
				return fmt.Errorf("insert notification %s: %w", want.ID, err)
			}
			continue
		}
		merged, kind := MergeNotification(have, want)
		if kind == ChangeUpdated {
			if _, err := s.notifRepo.Put(ctx, &merged); err != nil {
				return fmt.Errorf("update notification %s: %w", merged.ID, err)
			}
		}
	}

	for _, have := range existing {
		if !have.Generated() {
			continue
		}
		if !desiredIDs[have.ID] {
			if err := s.notifRepo.Delete(ctx, have.ID); err != nil {
				return fmt.Errorf("prune notification %s: %w", have.ID, err)
			}
		}
	}
	return nil
}

// MergeNotification folds a freshly derived notification into its
// persisted twin: the user's read flag and the original creation time
// win, derived content wins. ChangeUnchanged means nothing needs to be
// written back.
func MergeNotification(have, want model.Notification) (model.Notification, ChangeKind) {
	merged := have
	merged.Message = want.Message
	merged.Kind = want.Kind
	merged.ScheduledAt = want.ScheduledAt
	merged.Source = want.Source
	merged.TaskID = want.TaskID
	merged.MedicineID = want.MedicineID
	merged.ExpenseID = want.ExpenseID

	if merged.Message == have.Message &&
		merged.Kind == have.Kind &&
		merged.ScheduledAt.Equal(have.ScheduledAt) &&
		merged.Source == have.Source &&
		merged.TaskID == have.TaskID &&
		merged.MedicineID == have.MedicineID &&
		merged.ExpenseID == have.ExpenseID {
		return have, ChangeUnchanged
	}
	return merged, ChangeUpdated
}

// buildDesired derives the full set of generated notifications that
// should exist right now.
func (s *NotificationService) buildDesired(ctx context.Context, today time.Time) ([]model.Notification, error) {
	var desired []model.Notification

	tasks, err := s.taskRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		if task.Completed || task.DueDate == nil {
			continue
		}
		desired = append(desired, model.Notification{
			ID:          model.TodoNotificationID(task.ID),
			Message:     fmt.Sprintf("Task due: %s", task.Text),
			Source:      model.SourceTodo,
			Kind:        model.KindTodoDue,
			ScheduledAt: dayStartIn(*task.DueDate, s.loc),
			TaskID:      task.ID,
		})
	}

	medicines, err := s.medicineRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, alert := range BuildMedicineAlerts(medicines, today) {
		day := dayStartIn(alert.ScheduledAt, s.loc)
		message := fmt.Sprintf("Supply of %s runs out", alert.Name)
		if alert.Kind == AlertRefillSoon {
			message = fmt.Sprintf("Refill %s soon, one week of supply left", alert.Name)
		}
		desired = append(desired, model.Notification{
			ID:          model.MedicineNotificationID(alert.MedicineID, string(alert.Kind), day),
			Message:     message,
			Source:      model.SourceMedicine,
			Kind:        string(alert.Kind),
			ScheduledAt: day,
			MedicineID:  alert.MedicineID,
		})
	}

	expenses, err := s.expenseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		if expense.Amount < s.threshold {
			continue
		}
		for _, day := range ExpenseOccurrencesInWindow(expense, today, s.windowDays) {
			desired = append(desired, model.Notification{
				ID:          model.ExpenseNotificationID(expense.ID, day),
				Message:     fmt.Sprintf("Payment due: %s (%.2f)", expense.Title, expense.Amount),
				Source:      model.SourceExpense,
				Kind:        model.KindExpenseDue,
				ScheduledAt: day,
				ExpenseID:   expense.ID,
			})
		}
	}

	return desired, nil
}

// SweepRead deletes read notifications whose scheduled day has fully
// passed. Unread past entries stay so the user still sees what they
// missed.
func (s *NotificationService) SweepRead(ctx context.Context) error {
	today := dayStartIn(s.now(), s.loc)
	existing, err := s.notifRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, n := range existing {
		if !n.Read {
			continue
		}
		if dayStartIn(n.ScheduledAt, s.loc).Before(today) {
			if err := s.notifRepo.Delete(ctx, n.ID); err != nil {
				return fmt.Errorf("sweep notification %s: %w", n.ID, err)
			}
		}
	}
	return nil
}

// AddReminder stores a user-created reminder at an exact time. It gets
// a random id precisely so reconciliation can never claim it.
func (s *NotificationService) AddReminder(ctx context.Context, message string, at time.Time, taskID string) (model.Notification, error) {
	reminder := model.Notification{
		ID:          uuid.NewString(),
		Message:     message,
		Source:      model.SourceReminder,
		Kind:        model.KindReminder,
		ScheduledAt: at,
		CreatedAt:   s.now(),
		TaskID:      taskID,
	}
	if _, err := s.notifRepo.Put(ctx, &reminder); err != nil {
		return model.Notification{}, err
	}
	return reminder, nil
}

// MarkRead sets the read flag on one notification.
func (s *NotificationService) MarkRead(ctx context.Context, id string, read bool) error {
	n, ok, err := s.notifRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if n.Read == read {
		return nil
	}
	n.Read = read
	_, err = s.notifRepo.Put(ctx, &n)
	return err
}

// DeleteReminder removes a user-created reminder. Generated entries are
// refused; completing the underlying task is the way to clear those.
func (s *NotificationService) DeleteReminder(ctx context.Context, id string) error {
	n, ok, err := s.notifRepo.Get(ctx, id)
	if err != nil || !ok {
		return err
	}
	if n.Generated() {
		return fmt.Errorf("notification %s is derived, not a reminder", id)
	}
	return s.notifRepo.Delete(ctx, id)
}
