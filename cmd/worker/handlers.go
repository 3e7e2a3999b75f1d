package main

import (
	"github.com/hibiken/asynq"

	playbookJob "playbook-pipeline/internal/domains/playbook/job"
	"playbook-pipeline/internal/shared"
	"playbook-pipeline/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	publishCatalog *playbookJob.PublishCatalogHandler
}

func initializeHandlers(c *container.Container, cfg *Config) *HandlerRegistry {
	return &HandlerRegistry{
		publishCatalog: playbookJob.NewPublishCatalogHandler(c.PlaybookService, c.Storage, cfg.CatalogPrefix),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypePublishCatalog, h.publishCatalog.ProcessTask)
}
