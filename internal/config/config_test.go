package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CatalogCacheTTL)
	assert.Equal(t, 500, cfg.Import.ExportPageSize)
	assert.Equal(t, "admin-import", cfg.Import.DefaultActor)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("IMPORT_MAX_ROWS", "10")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CATALOG_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 10, cfg.Import.MaxRows)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, 30*time.Second, cfg.Redis.CatalogCacheTTL)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "mongo"}},
		{"unknown environment", map[string]string{"APP_ENV": "qa"}},
		{"non-positive rows", map[string]string{"IMPORT_MAX_ROWS": "0"}},
		{"bad db port", map[string]string{"DB_PORT": "five"}},
		{"default secret in production", map[string]string{"APP_ENV": "production", "DB_PASSWORD": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
