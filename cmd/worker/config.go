package main

import (
	"playbook-pipeline/internal/config"

	"github.com/rs/zerolog/log"
)

// Config holds the worker settings derived from the application config
type Config struct {
	RedisAddr     string
	Concurrency   int
	RepublishCron string
	CatalogPrefix string
	HealthPort    string
}

func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		RedisAddr:     app.Redis.Host,
		Concurrency:   app.Worker.Concurrency,
		RepublishCron: app.Worker.RepublishCron,
		CatalogPrefix: app.MinIO.CatalogPrefix,
		HealthPort:    getEnv("WORKER_HEALTH_PORT", "9999"),
	}

	log.Info().
		Str("redis", cfg.RedisAddr).
		Int("concurrency", cfg.Concurrency).
		Str("republish_cron", cfg.RepublishCron).
		Msg("[Config] Worker configured")

	return cfg
}
