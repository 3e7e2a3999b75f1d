package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"playbook-pipeline/internal/infrastructure/database"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	defaultJWTSecret = "your-secret-key-change-in-production"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Storage  StorageConfig
	Redis    RedisConfig
	JWT      JWTConfig
	MinIO    MinIOConfig
	Import   ImportConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
}

// StorageConfig selects the playbook store. "memory" runs without Postgres.
type StorageConfig struct {
	Driver string
}

type RedisConfig struct {
	Host            string // host:port
	Password        string
	DB              int
	CatalogCacheTTL time.Duration
}

type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

type MinIOConfig struct {
	Endpoint      string // localhost:9000
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	CatalogPrefix string // object key prefix of published catalogs
}

type ImportConfig struct {
	MaxBodyBytes   int64
	MaxRows        int
	ExportPageSize int
	DefaultActor   string
}

type WorkerConfig struct {
	Concurrency int
	// RepublishCron regenerates the published catalog on a schedule.
	// Empty disables the periodic run.
	RepublishCron string
}

// Load reads config from environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Playbook Pipeline"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: dbCfg,
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		},
		Redis: RedisConfig{
			Host:            getEnv("REDIS_HOST", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry: getEnvDuration("JWT_ACCESS_EXPIRY", 24*time.Hour),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("MINIO_BUCKET", "playbooks"),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			CatalogPrefix: getEnv("MINIO_CATALOG_PREFIX", "catalog"),
		},
		Import: ImportConfig{
			MaxBodyBytes:   int64(getEnvInt("IMPORT_MAX_BODY_BYTES", 10<<20)),
			MaxRows:        getEnvInt("IMPORT_MAX_ROWS", 5000),
			ExportPageSize: getEnvInt("EXPORT_PAGE_SIZE", 500),
			DefaultActor:   getEnv("IMPORT_DEFAULT_ACTOR", "admin-import"),
		},
		Worker: WorkerConfig{
			Concurrency:   getEnvInt("WORKER_CONCURRENCY", 5),
			RepublishCron: getEnv("CATALOG_REPUBLISH_CRON", "0 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate checks critical settings
func (c *Config) Validate() error {
	err := validation.ValidateStruct(&c.App,
		validation.Field(&c.App.Port, validation.Required.Error("APP_PORT is required")),
		validation.Field(&c.App.Environment, validation.In("development", "staging", "production", "test").
			Error("APP_ENV must be development, staging, production or test")),
	)
	if err != nil {
		return err
	}

	err = validation.ValidateStruct(&c.Storage,
		validation.Field(&c.Storage.Driver, validation.In(StorageDriverPostgres, StorageDriverMemory).
			Error("STORAGE_DRIVER must be postgres or memory")),
	)
	if err != nil {
		return err
	}

	err = validation.ValidateStruct(&c.Import,
		validation.Field(&c.Import.MaxBodyBytes, validation.Min(int64(1)).Error("IMPORT_MAX_BODY_BYTES must be positive")),
		validation.Field(&c.Import.MaxRows, validation.Min(1).Error("IMPORT_MAX_ROWS must be positive")),
		validation.Field(&c.Import.ExportPageSize, validation.Min(1).Error("EXPORT_PAGE_SIZE must be positive")),
	)
	if err != nil {
		return err
	}

	err = validation.ValidateStruct(&c.MinIO,
		validation.Field(&c.MinIO.Endpoint, validation.Required.Error("MINIO_ENDPOINT is required")),
		validation.Field(&c.MinIO.Bucket, validation.Required.Error("MINIO_BUCKET is required")),
	)
	if err != nil {
		return err
	}

	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Storage.Driver == StorageDriverPostgres && c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
