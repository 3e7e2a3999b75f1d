package container

import (
	"context"
	"fmt"
	"time"

	"playbook-pipeline/internal/config"
	playbookHandler "playbook-pipeline/internal/domains/playbook/handler"
	playbookRepo "playbook-pipeline/internal/domains/playbook/repository"
	playbookService "playbook-pipeline/internal/domains/playbook/service"
	infraCache "playbook-pipeline/internal/infrastructure/cache"
	"playbook-pipeline/internal/infrastructure/database"
	"playbook-pipeline/internal/infrastructure/queue"
	"playbook-pipeline/internal/infrastructure/storage"
	"playbook-pipeline/pkg/cache"
	"playbook-pipeline/pkg/jwt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Container holds the dependency graph shared by the API and the worker.
// Initialization order: config, infrastructure, repository, service, handler.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB // nil with the memory driver
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	AsynqClient *asynq.Client
	Publisher   *queue.CatalogPublisher
	JWTManager  *jwt.Manager
	Storage     *storage.MinIOStorage // set by InitStorage

	// Playbook domain
	PlaybookRepo    playbookRepo.Repository
	PlaybookService *playbookService.PlaybookService
	PlaybookHandler *playbookHandler.Handler
}

// NewContainer builds the whole graph from environment configuration
func NewContainer() (*Container, error) {
	log.Info().Msg("[Container] Initializing")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := &Container{Config: cfg}

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().
		Str("env", cfg.App.Environment).
		Str("storage", cfg.Storage.Driver).
		Msg("[Container] Initialized")
	return c, nil
}

// RedisOpt is the asynq connection shared by the client, server and scheduler
func (c *Container) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// InitStorage connects MinIO. Only the worker publishes artifacts.
func (c *Container) InitStorage(ctx context.Context) error {
	s, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	c.Storage = s
	log.Info().Str("bucket", c.Config.MinIO.Bucket).Msg("[Container] MinIO ready")
	return nil
}

func (c *Container) initDatabase() error {
	if c.Config.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("[Container] Using in-memory playbook store, data is not persisted")
		return nil
	}

	db := database.NewPostgresDB(c.Config.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	c.DB = db
	return nil
}

// initRedis wires the catalog cache and the task client. Redis being down
// is not fatal: cache misses fall through to the store and failed enqueues
// are only logged.
func (c *Container) initRedis() {
	c.Redis = infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[Container] Redis unavailable (non-critical)")
	}

	c.Cache = infraCache.NewRedisCache(c.Redis.Client)
	c.AsynqClient = asynq.NewClient(c.RedisOpt())
	c.Publisher = queue.NewCatalogPublisher(c.AsynqClient)
}

func (c *Container) initRepositories() {
	if c.DB == nil {
		c.PlaybookRepo = playbookRepo.NewMemoryRepository()
		return
	}
	c.PlaybookRepo = playbookRepo.NewPostgresRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.PlaybookService = playbookService.NewService(
		c.PlaybookRepo,
		c.Cache,
		c.Publisher,
		playbookService.Config{
			ExportPageSize:  c.Config.Import.ExportPageSize,
			MaxRows:         c.Config.Import.MaxRows,
			DefaultActor:    c.Config.Import.DefaultActor,
			CatalogCacheTTL: c.Config.Redis.CatalogCacheTTL,
		},
	)
}

func (c *Container) initHandlers() {
	c.PlaybookHandler = playbookHandler.NewHandler(c.PlaybookService)
}

// Cleanup releases connections on shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("[Container] Cleaning up")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("[Container] Failed to close asynq client")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[Container] Failed to close Redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}

	log.Info().Msg("[Container] Cleanup completed")
}
