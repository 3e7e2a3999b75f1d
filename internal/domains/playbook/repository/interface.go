package repository

import (
	"context"

	categoryModel "playbook-pipeline/internal/domains/category/model"
	"playbook-pipeline/internal/domains/playbook/model"

	"github.com/google/uuid"
)

// Repository is the persistence boundary of the playbook pipeline.
type Repository interface {
	// FindPlaybooks returns playbooks newest first with their category name joined.
	FindPlaybooks(ctx context.Context, filter model.PlaybookFilter, skip, take int) ([]model.Playbook, error)
	CountPlaybooks(ctx context.Context, filter model.PlaybookFilter) (int, error)

	// FindPlaybookBySKU returns model.ErrPlaybookNotFound when absent.
	FindPlaybookBySKU(ctx context.Context, sku string) (*model.Playbook, error)

	// FindExistingSKUs reports which of skus are already stored.
	FindExistingSKUs(ctx context.Context, skus []string) (map[string]bool, error)

	// ListVersions returns snapshots newest first.
	ListVersions(ctx context.Context, playbookID uuid.UUID) ([]model.PlaybookVersion, error)

	// WithTx runs fn in one unit of work. Nothing fn wrote survives an error.
	WithTx(ctx context.Context, fn func(tx TxRepository) error) error
}

// TxRepository holds the writes of one import record.
type TxRepository interface {
	// UpsertCategory returns the category named name, creating it on first use.
	UpsertCategory(ctx context.Context, name string) (cat *categoryModel.Category, created bool, err error)

	// UpsertPlaybook inserts create when its SKU is new. Otherwise it applies
	// patch to the stored playbook and increments its version by one.
	UpsertPlaybook(ctx context.Context, create *model.Playbook, patch *model.PlaybookPatch) (pb *model.Playbook, created bool, err error)

	CreateVersion(ctx context.Context, v *model.PlaybookVersion) error
}
