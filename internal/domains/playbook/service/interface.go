package service

import (
	"context"

	"playbook-pipeline/internal/domains/playbook/format"
	"playbook-pipeline/internal/domains/playbook/model"
)

// ServiceInterface - playbook pipeline operations. Every admin operation
// takes the caller's Access and fails with model.ErrForbidden when it is not
// allowed.
type ServiceInterface interface {
	List(ctx context.Context, access model.Access, req model.ListPlaybooksRequest) (*model.ListPlaybooksResponse, error)
	Validate(ctx context.Context, access model.Access, raw, formatName string) (*model.ValidationReport, error)
	Import(ctx context.Context, access model.Access, raw, formatName string) (*model.ImportResult, error)
	Export(ctx context.Context, access model.Access, req model.ExportRequest) (*model.ExportFile, error)
	ListVersions(ctx context.Context, access model.Access, sku string) ([]model.PlaybookVersion, error)

	// PublicCatalog lists active playbooks in the public view. No access check.
	PublicCatalog(ctx context.Context) ([]model.Record, error)
	// RenderCatalog renders the published catalog artifact for f.
	RenderCatalog(ctx context.Context, f format.Format) (*model.ExportFile, error)
}

// CatalogPublisher schedules regeneration of the published catalog.
type CatalogPublisher interface {
	EnqueueCatalogPublish(ctx context.Context) error
}
