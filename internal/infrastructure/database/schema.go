package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// schemaStatements create the pipeline tables. Every statement is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		slug        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS playbooks (
		id                UUID PRIMARY KEY,
		product_ref       TEXT NOT NULL,
		sku               TEXT NOT NULL UNIQUE,
		sku_prefix        TEXT,
		category_id       UUID REFERENCES categories(id) ON DELETE SET NULL,
		tags              TEXT[] NOT NULL DEFAULT '{}',
		is_active         BOOLEAN NOT NULL DEFAULT TRUE,
		title_template    TEXT NOT NULL DEFAULT '',
		subtitle          TEXT,
		bullets           TEXT[] NOT NULL DEFAULT '{}',
		item_specifics    JSONB NOT NULL DEFAULT '{}',
		forbidden_phrases TEXT[] NOT NULL DEFAULT '{}',
		price_min         NUMERIC NOT NULL DEFAULT 0,
		price_max         NUMERIC NOT NULL DEFAULT 999999,
		shipping_profile  TEXT NOT NULL DEFAULT 'standard',
		returns_profile   TEXT NOT NULL DEFAULT '30d-returns',
		image_rules       JSONB NOT NULL DEFAULT '{"requireMinCount": 3, "mustInclude": []}',
		policy_gate       JSONB NOT NULL DEFAULT '{"requiresAuthorizationDocs": false}',
		version           INTEGER NOT NULL DEFAULT 1,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT playbooks_price_range CHECK (price_min <= price_max)
	)`,

	// tables created before the price range constraint existed
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'playbooks_price_range') THEN
			ALTER TABLE playbooks ADD CONSTRAINT playbooks_price_range CHECK (price_min <= price_max);
		END IF;
	END $$`,

	`CREATE INDEX IF NOT EXISTS idx_playbooks_created_at ON playbooks (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_playbooks_tags ON playbooks USING GIN (tags)`,
	`CREATE INDEX IF NOT EXISTS idx_playbooks_active ON playbooks (is_active)`,

	`CREATE TABLE IF NOT EXISTS playbook_versions (
		id           UUID PRIMARY KEY,
		playbook_id  UUID NOT NULL REFERENCES playbooks(id) ON DELETE CASCADE,
		version      INTEGER NOT NULL,
		data         JSONB NOT NULL,
		created_by   TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (playbook_id, version)
	)`,
}

// EnsureSchema creates missing tables and indexes
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	for i, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}

	log.Info().Int("statements", len(schemaStatements)).Msg("[DATABASE] Schema ensured")
	return nil
}
