package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"playbook-pipeline/internal/shared/middleware"
	"playbook-pipeline/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		bodyLimit(c.Config.Import.MaxBodyBytes),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCatalogRoutes(v1, c)
		setupAdminPlaybookRoutes(v1, c)
	}

	return router
}

// ========================================
// PUBLIC CATALOG
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	catalog := v1.Group("/catalog")
	{
		catalog.GET("/playbooks", c.PlaybookHandler.PublicCatalog)
	}
}

// ========================================
// ADMIN PLAYBOOKS
// ========================================
// Authentication only establishes identity. The admin check happens in the
// service so every entry point enforces it.
func setupAdminPlaybookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	playbooks := v1.Group("/admin/playbooks")
	playbooks.Use(middleware.Authenticate(c.JWTManager))
	{
		playbooks.GET("", c.PlaybookHandler.ListPlaybooks)
		playbooks.GET("/export", c.PlaybookHandler.ExportPlaybooks)
		playbooks.POST("/validate", c.PlaybookHandler.ValidatePlaybooks)
		playbooks.POST("/import", c.PlaybookHandler.ImportPlaybooks)
		playbooks.GET("/:sku/versions", c.PlaybookHandler.ListVersions)
	}
}

// bodyLimit caps request bodies; reads past the limit fail and binding
// reports a bad request.
func bodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil {
			dbStatus = "memory"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		redisStatus := "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		status := http.StatusOK
		if health["status"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	}
}
