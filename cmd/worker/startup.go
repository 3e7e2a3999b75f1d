package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"playbook-pipeline/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type healthCheck struct {
	name string
	fn   func(ctx context.Context) error
}

// startServices runs the startup checks and exposes /health and /ready
func startServices(c *container.Container, cfg *Config) error {
	checks := []healthCheck{
		{"Redis", c.Cache.Ping},
	}
	if c.DB != nil {
		checks = append(checks, healthCheck{"PostgreSQL", c.DB.HealthCheck})
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("[Startup] OK")
	}

	go startHealthCheckServer(cfg.HealthPort)
	return nil
}

func startHealthCheckServer(port string) {
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "playbook-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	log.Info().Str("port", port).Msg("[Health] Starting health check server")
	if err := router.Run(":" + port); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
