package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler запускает движки по cron-расписанию в зоне салона.
// Оба движка — однопоточные батч-джобы: наложение запусков одного
// и того же джоба запрещено, опоздавший тик пропускается.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func New(loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// AddJob регистрирует джоб на cron-расписании spec. Если предыдущий
// запуск этого джоба ещё идёт, очередной тик пропускается с записью в лог.
func (s *Scheduler) AddJob(spec, name string, run func(ctx context.Context) error) error {
	var mu sync.Mutex

	_, err := s.cron.AddFunc(spec, func() {
		if !mu.TryLock() {
			s.logger.Warn("previous run still in progress, skipping tick", "job", name)
			return
		}
		defer mu.Unlock()

		started := time.Now()
		if err := run(context.Background()); err != nil {
			s.logger.Error("job failed", "job", name, "err", err, "elapsed", time.Since(started))
			return
		}
		s.logger.Info("job finished", "job", name, "elapsed", time.Since(started))
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает расписание и ждёт завершения идущих джобов.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
