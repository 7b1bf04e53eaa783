package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/matryer/is"

	"pocket-planner/internal/model"
	"pocket-planner/internal/repository"
	"pocket-planner/internal/storage"
)

var day0 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestRemainingDaysDecay(t *testing.T) {
	is := is.New(t)
	med := model.Medicine{ID: "m1", Remaining: 10, LastUpdated: day0, AlarmEnabled: true}

	is.Equal(RemainingDays(med, day0), 10)
	is.Equal(RemainingDays(med, day0.AddDate(0, 0, 3)), 7)
	is.Equal(RemainingDays(med, day0.AddDate(0, 0, 10)), 0)
	// Never below zero.
	is.Equal(RemainingDays(med, day0.AddDate(0, 0, 42)), 0)
}

func TestRemainingDaysMonotonic(t *testing.T) {
	is := is.New(t)
	med := model.Medicine{ID: "m1", Remaining: 14, LastUpdated: day0}

	prev := RemainingDays(med, day0)
	for i := 1; i <= 20; i++ {
		cur := RemainingDays(med, day0.AddDate(0, 0, i))
		is.True(cur <= prev)
		prev = cur
	}

	// Same calendar day, later instant: no change.
	sameDay := day0.Add(14 * time.Hour)
	is.Equal(RemainingDays(med, dayStartIn(sameDay, time.UTC)), RemainingDays(med, day0))
}

func TestRemainingDaysDefaults(t *testing.T) {
	is := is.New(t)

	// Zero LastUpdated means "never decayed": anchored to today.
	med := model.Medicine{ID: "m1", Remaining: 12}
	is.Equal(RemainingDays(med, day0), 12)

	// Supply above the cap clamps down.
	med = model.Medicine{ID: "m2", Remaining: 9000, LastUpdated: day0}
	is.Equal(RemainingDays(med, day0), model.MaxSupplyDays)
}

func TestBuildMedicineAlertsRefillSoonThreshold(t *testing.T) {
	is := is.New(t)

	meds := []model.Medicine{
		{ID: "m1", Name: "aspirin", Remaining: 10, LastUpdated: day0, AlarmEnabled: true},
	}
	alerts := BuildMedicineAlerts(meds, day0)
	is.Equal(len(alerts), 2)

	endAt := day0.AddDate(0, 0, 10)
	soonAt := day0.AddDate(0, 0, 3)
	is.Equal(alerts[0].Kind, AlertRefillEnd)
	is.True(alerts[0].ScheduledAt.Equal(endAt))
	is.Equal(alerts[0].ID, fmt.Sprintf("m1-end-%d", endAt.UnixMilli()))
	is.Equal(alerts[1].Kind, AlertRefillSoon)
	is.True(alerts[1].ScheduledAt.Equal(soonAt))
	is.Equal(alerts[1].ID, fmt.Sprintf("m1-soon-%d", soonAt.UnixMilli()))

	// Below the lead window there is no early warning.
	meds[0].Remaining = 5
	alerts = BuildMedicineAlerts(meds, day0)
	is.Equal(len(alerts), 1)
	is.Equal(alerts[0].Kind, AlertRefillEnd)
	is.True(alerts[0].ScheduledAt.Equal(day0.AddDate(0, 0, 5)))
}

func TestBuildMedicineAlertsSkipsDisabledAlarms(t *testing.T) {
	is := is.New(t)
	meds := []model.Medicine{
		{ID: "m1", Remaining: 10, LastUpdated: day0, AlarmEnabled: false},
	}
	is.Equal(len(BuildMedicineAlerts(meds, day0)), 0)
}

func TestBuildMedicineAlertsIdempotent(t *testing.T) {
	is := is.New(t)
	meds := []model.Medicine{
		{ID: "m1", Name: "aspirin", Remaining: 9, LastUpdated: day0, AlarmEnabled: true},
		{ID: "m2", Name: "ibuprofen", Remaining: 3, LastUpdated: day0, AlarmEnabled: true},
	}

	first := BuildMedicineAlerts(meds, day0)
	second := BuildMedicineAlerts(meds, day0)
	is.Equal(len(first), len(second))
	for i := range first {
		is.Equal(first[i].ID, second[i].ID)
		is.True(first[i].ScheduledAt.Equal(second[i].ScheduledAt))
	}
}

func TestGroupMedicineAlertsByDate(t *testing.T) {
	is := is.New(t)
	meds := []model.Medicine{
		{ID: "m1", Remaining: 5, LastUpdated: day0, AlarmEnabled: true},
		{ID: "m2", Remaining: 5, LastUpdated: day0, AlarmEnabled: true},
		{ID: "m3", Remaining: 2, LastUpdated: day0, AlarmEnabled: true},
	}
	alerts := BuildMedicineAlerts(meds, day0)

	grouped := GroupMedicineAlertsByDate(alerts, time.UTC)
	is.Equal(len(grouped["2026-03-07"]), 2) // m1, m2 run out together
	is.Equal(len(grouped["2026-03-04"]), 1) // m3
}

func TestCreateMedicineDefaultsSupply(t *testing.T) {
	is := is.New(t)
	store := storage.NewService(nil, log.New(&bytes.Buffer{}, "", 0))
	repo := repository.NewMedicineRepository(store)
	svc := NewMedicineService(repo, time.UTC)
	ctx := context.Background()

	med, err := svc.CreateMedicine(ctx, MedicineInput{Name: "aspirin", AlarmEnabled: true}, day0.Add(9*time.Hour))
	is.NoErr(err)
	is.Equal(med.Remaining, model.DefaultSupplyDays)
	is.True(med.LastUpdated.Equal(day0))

	got, ok, err := repo.Get(ctx, med.ID)
	is.NoErr(err)
	is.True(ok)
	is.Equal(got.Remaining, model.DefaultSupplyDays)

	_, err = svc.CreateMedicine(ctx, MedicineInput{}, day0)
	is.True(err != nil) // name is required
}

func TestCreateMedicineKeepsExplicitZeroSupply(t *testing.T) {
	is := is.New(t)
	store := storage.NewService(nil, log.New(&bytes.Buffer{}, "", 0))
	repo := repository.NewMedicineRepository(store)
	svc := NewMedicineService(repo, time.UTC)
	ctx := context.Background()

	zero := 0
	med, err := svc.CreateMedicine(ctx, MedicineInput{Name: "aspirin", SupplyDays: &zero}, day0)
	is.NoErr(err)
	is.Equal(med.Remaining, 0)

	// A stored zero with a decay anchor stays zero, today and later.
	got, _, err := repo.Get(ctx, med.ID)
	is.NoErr(err)
	is.Equal(got.Remaining, 0)
	is.Equal(RemainingDays(got, day0), 0)
	is.NoErr(svc.DecayAll(ctx, day0.AddDate(0, 0, 2)))
	got, _, err = repo.Get(ctx, med.ID)
	is.NoErr(err)
	is.Equal(got.Remaining, 0)
}

func TestNormalizedBackfillsLegacyRecords(t *testing.T) {
	is := is.New(t)

	// A record with neither a supply nor a decay anchor predates supply
	// tracking: it gets the standard supply, anchored to today.
	med := model.Medicine{ID: "m1", Name: "old timer"}.Normalized(day0)
	is.Equal(med.Remaining, model.DefaultSupplyDays)
	is.True(med.LastUpdated.Equal(day0))

	// An anchored zero is a real exhausted supply, not a legacy record.
	med = model.Medicine{ID: "m2", LastUpdated: day0}.Normalized(day0)
	is.Equal(med.Remaining, 0)
}

func TestDecayAllAdvancesAnchorOnce(t *testing.T) {
	is := is.New(t)
	store := storage.NewService(nil, log.New(&bytes.Buffer{}, "", 0))
	repo := repository.NewMedicineRepository(store)
	svc := NewMedicineService(repo, time.UTC)
	ctx := context.Background()

	_, err := repo.Put(ctx, &model.Medicine{ID: "m1", Remaining: 10, LastUpdated: day0})
	is.NoErr(err)

	now := day0.AddDate(0, 0, 3).Add(9 * time.Hour)
	is.NoErr(svc.DecayAll(ctx, now))

	med, ok, err := repo.Get(ctx, "m1")
	is.NoErr(err)
	is.True(ok)
	is.Equal(med.Remaining, 7)
	is.True(med.LastUpdated.Equal(day0.AddDate(0, 0, 3)))

	// Running again on the same day must not double-decrement.
	is.NoErr(svc.DecayAll(ctx, now.Add(2*time.Hour)))
	med, _, err = repo.Get(ctx, "m1")
	is.NoErr(err)
	is.Equal(med.Remaining, 7)
}
