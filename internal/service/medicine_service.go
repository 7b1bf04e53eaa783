package service

import (
	"context"
	"fmt"
	"time"

	"pocket-planner/internal/model"
	"pocket-planner/internal/repository"
)

// refillSoonLeadDays is how far before the supply end the early warning
// fires. Supplies shorter than the lead get no early warning, only the
// end-of-supply alert.
const refillSoonLeadDays = 7

// MedicineAlertKind distinguishes the two refill alerts.
type MedicineAlertKind string

const (
	AlertRefillEnd  MedicineAlertKind = "refill-end"
	AlertRefillSoon MedicineAlertKind = "refill-soon"
)

// MedicineAlert is a derived calendar alert for a medicine. Its id is a
// function of the medicine and the projected date, so recomputation
// yields the same id for the same facts and a different id (prunable)
// once the projection moves.
type MedicineAlert struct {
	ID          string
	MedicineID  string
	Name        string
	Kind        MedicineAlertKind
	ScheduledAt time.Time
}

// RemainingDays projects the days of supply left as of todayStart,
// decaying the stored count by whole elapsed days since it was last
// updated. The stored record is not touched.
func RemainingDays(med model.Medicine, todayStart time.Time) int {
	med = med.Normalized(todayStart)
	elapsed := daysBetween(dayStartIn(med.LastUpdated, todayStart.Location()), todayStart)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := med.Remaining - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// BuildMedicineAlerts derives refill alerts for every alarm-enabled
// medicine. Pure: same inputs, same alerts.
func BuildMedicineAlerts(medicines []model.Medicine, todayStart time.Time) []MedicineAlert {
	var alerts []MedicineAlert
	for _, med := range medicines {
		if !med.AlarmEnabled {
			continue
		}
		remaining := RemainingDays(med, todayStart)
		endAt := todayStart.AddDate(0, 0, remaining)
		alerts = append(alerts, MedicineAlert{
			ID:          fmt.Sprintf("%s-end-%d", med.ID, endAt.UnixMilli()),
			MedicineID:  med.ID,
			Name:        med.Name,
			Kind:        AlertRefillEnd,
			ScheduledAt: endAt,
		})
		if remaining >= refillSoonLeadDays {
			soonAt := endAt.AddDate(0, 0, -refillSoonLeadDays)
			alerts = append(alerts, MedicineAlert{
				ID:          fmt.Sprintf("%s-soon-%d", med.ID, soonAt.UnixMilli()),
				MedicineID:  med.ID,
				Name:        med.Name,
				Kind:        AlertRefillSoon,
				ScheduledAt: soonAt,
			})
		}
	}
	return alerts
}

// GroupMedicineAlertsByDate buckets alerts by calendar-day key for
// calendar-cell rendering. Returns a fresh map each call.
func GroupMedicineAlertsByDate(alerts []MedicineAlert, loc *time.Location) map[string][]MedicineAlert {
	grouped := make(map[string][]MedicineAlert)
	for _, alert := range alerts {
		key := dayKey(alert.ScheduledAt, loc)
		grouped[key] = append(grouped[key], alert)
	}
	return grouped
}

// MedicineService owns the persisted side of supply tracking.
type MedicineService struct {
	repo *repository.MedicineRepository
	loc  *time.Location
}

func NewMedicineService(repo *repository.MedicineRepository, loc *time.Location) *MedicineService {
	return &MedicineService{repo: repo, loc: loc}
}

// MedicineInput represents data required to add a medicine.
type MedicineInput struct {
	Name   string
	Dosage string
	// SupplyDays is the stocked supply; nil means the standard supply.
	SupplyDays   *int
	AlarmEnabled bool
}

// CreateMedicine stores a new medicine with its decay anchor set to
// today, so an explicitly stocked supply (even zero) is taken at face
// value from here on.
func (s *MedicineService) CreateMedicine(ctx context.Context, input MedicineInput, now time.Time) (model.Medicine, error) {
	if input.Name == "" {
		return model.Medicine{}, fmt.Errorf("name is required")
	}
	days := model.DefaultSupplyDays
	if input.SupplyDays != nil {
		days = *input.SupplyDays
	}
	med := model.Medicine{
		Name:         input.Name,
		Dosage:       input.Dosage,
		Remaining:    days,
		LastUpdated:  dayStartIn(now, s.loc),
		AlarmEnabled: input.AlarmEnabled,
		CreatedAt:    now,
	}
	med = med.Normalized(med.LastUpdated)
	if _, err := s.repo.Put(ctx, &med); err != nil {
		return model.Medicine{}, err
	}
	return med, nil
}

// DecayAll writes down each medicine's supply by the days elapsed since
// its last decay and advances LastUpdated to today's start, so running
// it twice on the same day changes nothing.
func (s *MedicineService) DecayAll(ctx context.Context, now time.Time) error {
	todayStart := dayStartIn(now, s.loc)
	medicines, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, med := range medicines {
		med = med.Normalized(todayStart)
		if !dayStartIn(med.LastUpdated, s.loc).Before(todayStart) {
			continue
		}
		med.Remaining = RemainingDays(med, todayStart)
		med.LastUpdated = todayStart
		if _, err := s.repo.Put(ctx, &med); err != nil {
			return fmt.Errorf("decay medicine %s: %w", med.ID, err)
		}
	}
	return nil
}

// Restock sets the supply to the given number of days and resets the
// decay anchor.
func (s *MedicineService) Restock(ctx context.Context, id string, days int, now time.Time) (model.Medicine, error) {
	med, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Medicine{}, err
	}
	if !ok {
		return model.Medicine{}, fmt.Errorf("medicine %s not found", id)
	}
	med.Remaining = days
	med.LastUpdated = dayStartIn(now, s.loc)
	med = med.Normalized(med.LastUpdated)
	if _, err := s.repo.Put(ctx, &med); err != nil {
		return model.Medicine{}, err
	}
	return med, nil
}

// ToggleTaken flips the manual daily checkbox.
func (s *MedicineService) ToggleTaken(ctx context.Context, id string) (model.Medicine, error) {
	med, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Medicine{}, err
	}
	if !ok {
		return model.Medicine{}, fmt.Errorf("medicine %s not found", id)
	}
	med.Taken = !med.Taken
	if _, err := s.repo.Put(ctx, &med); err != nil {
		return model.Medicine{}, err
	}
	return med, nil
}
