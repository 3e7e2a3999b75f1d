package job

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"playbook-pipeline/internal/domains/playbook/format"
	"playbook-pipeline/internal/domains/playbook/model"
	"playbook-pipeline/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// CatalogRenderer renders the public catalog in one format
type CatalogRenderer interface {
	RenderCatalog(ctx context.Context, f format.Format) (*model.ExportFile, error)
}

// Uploader stores a published artifact and returns its URL
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// PublishCatalogHandler renders the active catalog in every format and
// uploads it under prefix.
type PublishCatalogHandler struct {
	renderer CatalogRenderer
	uploader Uploader
	prefix   string
}

func NewPublishCatalogHandler(renderer CatalogRenderer, uploader Uploader, prefix string) *PublishCatalogHandler {
	return &PublishCatalogHandler{
		renderer: renderer,
		uploader: uploader,
		prefix:   prefix,
	}
}

func (h *PublishCatalogHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PublishCatalogPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal PublishCatalog payload")
			return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
		}
	}

	log.Info().Str("reason", payload.Reason).Msg("Publishing playbook catalog")

	for _, f := range []format.Format{format.JSON, format.CSV} {
		file, err := h.renderer.RenderCatalog(ctx, f)
		if err != nil {
			return fmt.Errorf("render %s catalog: %w", f, err)
		}

		key := path.Join(h.prefix, file.Filename)
		url, err := h.uploader.Upload(ctx, key, file.Content, file.ContentType)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to upload catalog")
			return fmt.Errorf("upload %s: %w", key, err)
		}

		log.Info().
			Str("key", key).
			Str("url", url).
			Int("bytes", len(file.Content)).
			Msg("Catalog artifact published")
	}

	return nil
}
