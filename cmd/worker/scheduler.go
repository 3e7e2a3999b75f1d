package main

import (
	"playbook-pipeline/internal/infrastructure/queue"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler returns nil when periodic republishing is disabled
func setupScheduler(redisOpt asynq.RedisClientOpt, cfg *Config) *asynqScheduler {
	if cfg.RepublishCron == "" {
		log.Info().Msg("[Scheduler] Periodic republish disabled")
		return nil
	}

	scheduler := queue.NewScheduler(redisOpt)
	if err := scheduler.RegisterCatalogRepublish(cfg.RepublishCron); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	if s == nil {
		return
	}
	log.Info().Msg("[Scheduler] Shutting down")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
