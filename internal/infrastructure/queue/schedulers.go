package queue

import (
	"fmt"
	"time"

	"playbook-pipeline/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisOpt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.WarnLevel,
		},
	)
	return &Scheduler{scheduler: scheduler}
}

// RegisterCatalogRepublish enqueues a catalog publish on cronspec (UTC)
func (s *Scheduler) RegisterCatalogRepublish(cronspec string) error {
	task, err := NewPublishCatalogTask("schedule")
	if err != nil {
		return err
	}

	entryID, err := s.scheduler.Register(
		cronspec,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(publishDedupWindow),
	)
	if err != nil {
		return fmt.Errorf("register catalog republish: %w", err)
	}

	log.Info().Str("entry_id", entryID).Str("cron", cronspec).Msg("[Scheduler] Catalog republish registered")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
