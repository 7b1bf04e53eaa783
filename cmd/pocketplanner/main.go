package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pocket-planner/internal/bot"
	"pocket-planner/internal/config"
	"pocket-planner/internal/repository"
	"pocket-planner/internal/service"
	"pocket-planner/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc := cfg.Location()

	// A failed open is not fatal: the storage service starts on its
	// in-memory fallback and the app keeps working degraded.
	db, err := storage.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.Printf("[warn] open primary store: %v", err)
		db = nil
	}
	store := storage.NewService(db, log.Default())
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	taskRepo := repository.NewTaskRepository(store)
	medicineRepo := repository.NewMedicineRepository(store)
	expenseRepo := repository.NewExpenseRepository(store)
	notifRepo := repository.NewNotificationRepository(store)

	medicineSvc := service.NewMedicineService(medicineRepo, loc)
	notificationSvc := service.NewNotificationService(
		taskRepo, medicineRepo, expenseRepo, notifRepo,
		loc, cfg.NotifyWindowDays, cfg.ExpenseAlertThreshold,
	)

	var syncer service.Top5Syncer
	switch {
	case cfg.Top5SyncURL != "":
		syncer = &service.HTTPTop5Syncer{URL: cfg.Top5SyncURL}
	case cfg.TelegramToken != "":
		dispatcher, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		syncer = dispatcher
	}
	top5Svc := service.NewTop5Service(taskRepo, syncer, loc, cfg.SyncDebounce, cfg.SyncCooldown)

	recompute := func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := medicineSvc.DecayAll(jobCtx, time.Now()); err != nil {
			log.Printf("[warn] medicine decay: %v", err)
		}
		if err := notificationSvc.Reconcile(jobCtx); err != nil {
			log.Printf("[warn] notification reconcile: %v", err)
		}
		if err := top5Svc.Evaluate(jobCtx); err != nil {
			log.Printf("[warn] top5 evaluate: %v", err)
		}
	}

	scheduler := service.NewSchedulerService(loc)
	if _, err := scheduler.ScheduleRecompute(cfg.RecomputeInterval, recompute); err != nil {
		log.Fatalf("schedule recompute: %v", err)
	}
	if _, err := scheduler.ScheduleSweep(cfg.SweepTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := notificationSvc.SweepRead(jobCtx); err != nil {
			log.Printf("[warn] notification sweep: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule sweep: %v", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	recompute()

	log.Println("Pocket planner started.")
	<-ctx.Done()
	log.Println("Shutdown complete.")
}
