package scheduler

import (
	"context"
	"log"
	"time"
)

// Job - одна итерация фоновой задачи.
type Job func(ctx context.Context) error

// Scheduler запускает фоновую задачу сразу при старте и далее по тикеру.
// Ошибки и паники отдельного запуска логируются и не валят процесс:
// следующий запуск по расписанию происходит в любом случае.
type Scheduler struct {
	interval time.Duration
	logger   *log.Logger
}

// NewScheduler создаёт новый экземпляр Scheduler.
func NewScheduler(interval time.Duration, logger *log.Logger) *Scheduler {
	return &Scheduler{interval: interval, logger: logger}
}

// Run блокирует до отмены контекста, выполняя задачу с заданным интервалом.
func (s *Scheduler) Run(ctx context.Context, name string, job Job) {
	s.runOnce(ctx, name, job)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("scheduler stopped: %s", name)
			return
		case <-ticker.C:
			s.runOnce(ctx, name, job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, name string, job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("job %s panicked: %v", name, r)
		}
	}()

	s.logger.Printf("running job: %s", name)
	if err := job(ctx); err != nil {
		s.logger.Printf("job %s failed: %v", name, err)
		return
	}
	s.logger.Printf("job %s completed", name)
}
