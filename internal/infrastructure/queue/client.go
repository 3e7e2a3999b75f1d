package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"playbook-pipeline/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// publishDedupWindow collapses bursts of imports into one publish run
const publishDedupWindow = 30 * time.Second

// enqueuer is the part of *asynq.Client the publisher uses
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// CatalogPublisher enqueues catalog publish tasks
type CatalogPublisher struct {
	client enqueuer
}

func NewCatalogPublisher(client *asynq.Client) *CatalogPublisher {
	return &CatalogPublisher{client: client}
}

// NewPublishCatalogTask builds the task shared by the publisher and the scheduler
func NewPublishCatalogTask(reason string) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.PublishCatalogPayload{Reason: reason})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(shared.TypePublishCatalog, payload), nil
}

// EnqueueCatalogPublish schedules a publish. A publish already pending inside
// the dedup window counts as success.
func (p *CatalogPublisher) EnqueueCatalogPublish(ctx context.Context) error {
	task, err := NewPublishCatalogTask("import")
	if err != nil {
		return err
	}

	info, err := p.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Unique(publishDedupWindow),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		log.Debug().Msg("[Queue] Catalog publish already pending")
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypePublishCatalog, err)
	}

	log.Info().Str("task_id", info.ID).Str("queue", info.Queue).Msg("[Queue] Catalog publish enqueued")
	return nil
}
