package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"playbook-pipeline/pkg/container"
	"playbook-pipeline/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	logger.Init(getEnv("APP_ENV", "development"), os.Getenv("LOG_LEVEL"))

	c, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = c.InitStorage(ctx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("[Storage] Failed to initialize")
	}

	cfg := loadConfig(c.Config)

	if err := startServices(c, cfg); err != nil {
		log.Fatal().Err(err).Msg("[Startup] Health check failed")
	}

	handlers := initializeHandlers(c, cfg)
	srv := setupAsynqServer(c.RedisOpt(), cfg, handlers)
	scheduler := setupScheduler(c.RedisOpt(), cfg)

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping")
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
