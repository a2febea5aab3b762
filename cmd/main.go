package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Leganyst/salon-core/internal/calendar"
	"github.com/Leganyst/salon-core/internal/config"
	"github.com/Leganyst/salon-core/internal/db"
	"github.com/Leganyst/salon-core/internal/logging"
	"github.com/Leganyst/salon-core/internal/model"
	"github.com/Leganyst/salon-core/internal/notify"
	"github.com/Leganyst/salon-core/internal/repository"
	"github.com/Leganyst/salon-core/internal/scheduler"
	"github.com/Leganyst/salon-core/internal/service"
)

func main() {
	configPath := flag.String("config", "salon.yaml", "path to YAML config")
	syncOnce := flag.Bool("sync-once", false, "run one calendar sync and exit")
	remindOnce := flag.Bool("remind-once", false, "run one reminder pass and exit")
	dryRun := flag.Bool("dry-run", false, "with -remind-once: render without sending")
	flag.Parse()

	// .env для локальной разработки; отсутствие файла — не ошибка.
	_ = godotenv.Load()

	logger := logging.NewLogger("salon-core")

	// 1. Конфиг приложения (YAML) и БД (env).
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("load db config: %v", err)
	}
	loc := cfg.Location()

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	apptRepo := repository.NewGormAppointmentRepository(gormDB)
	templateRepo := repository.NewGormTemplateRepository(gormDB)
	logRepo := repository.NewGormReminderLogRepository(gormDB)

	// 5. Внешние шлюзы: календарь и провайдер сообщений.
	ctx := context.Background()
	gateway, err := calendar.NewGoogleGateway(ctx, cfg.Calendar, loc)
	if err != nil {
		log.Fatalf("init calendar gateway: %v", err)
	}
	if !gateway.IsConfigured() {
		logger.Warn("calendar gateway is not configured, sync will be skipped")
	}
	sender := notify.NewWhatsAppSender()

	// 6. Движки.
	syncSvc := service.NewSyncService(gateway, apptRepo, loc, logger)
	reminderSvc := service.NewReminderService(
		apptRepo, logRepo, templateRepo, sender, cfg.Reminders, loc, logger)

	// 7. Разовые режимы.
	if *syncOnce {
		if _, err := syncSvc.Reconcile(ctx); err != nil {
			logger.Error("sync failed", "err", err)
			os.Exit(1)
		}
		return
	}
	if *remindOnce {
		if _, err := reminderSvc.DispatchDue(ctx, *dryRun); err != nil {
			logger.Error("reminder dispatch failed", "err", err)
			os.Exit(1)
		}
		return
	}

	// 8. Расписание.
	sched := scheduler.New(loc, logger)
	if err := sched.AddJob(cfg.Sync.Cron, "calendar-sync", func(ctx context.Context) error {
		_, err := syncSvc.Reconcile(ctx)
		return err
	}); err != nil {
		log.Fatalf("schedule sync job: %v", err)
	}
	if err := sched.AddJob(cfg.Reminders.Cron, "reminder-dispatch", func(ctx context.Context) error {
		_, err := reminderSvc.DispatchDue(ctx, false)
		return err
	}); err != nil {
		log.Fatalf("schedule reminder job: %v", err)
	}

	sched.Start()
	logger.Info("scheduler started",
		"sync_cron", cfg.Sync.Cron,
		"reminders_cron", cfg.Reminders.Cron,
		"timezone", cfg.Timezone,
	)

	// 9. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down scheduler...")
	sched.Stop()
}
