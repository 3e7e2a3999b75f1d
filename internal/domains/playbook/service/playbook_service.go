package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"playbook-pipeline/internal/domains/playbook/format"
	"playbook-pipeline/internal/domains/playbook/model"
	"playbook-pipeline/internal/domains/playbook/repository"
	"playbook-pipeline/pkg/cache"

	"github.com/rs/zerolog/log"
)

const (
	catalogCacheKey     = "playbooks:catalog:public"
	catalogCachePattern = "playbooks:catalog:*"
)

// Config tunes the pipeline. Zero values fall back to defaults.
type Config struct {
	ExportPageSize  int
	MaxRows         int
	DefaultActor    string
	CatalogCacheTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.ExportPageSize <= 0 {
		c.ExportPageSize = 500
	}
	if c.DefaultActor == "" {
		c.DefaultActor = model.DefaultActor
	}
	if c.CatalogCacheTTL <= 0 {
		c.CatalogCacheTTL = 5 * time.Minute
	}
	return c
}

// PlaybookService implements ServiceInterface
type PlaybookService struct {
	repo      repository.Repository
	validator *Validator
	cache     cache.Cache      // optional
	publisher CatalogPublisher // optional
	cfg       Config
	now       func() time.Time
}

// NewService - constructor with DI. cache and publisher may be nil.
func NewService(
	repo repository.Repository,
	cache cache.Cache,
	publisher CatalogPublisher,
	cfg Config,
) *PlaybookService {
	return &PlaybookService{
		repo:      repo,
		validator: NewValidator(),
		cache:     cache,
		publisher: publisher,
		cfg:       cfg.withDefaults(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ ServiceInterface = (*PlaybookService)(nil)

// ========================================
// LIST
// ========================================

func (s *PlaybookService) List(ctx context.Context, access model.Access, req model.ListPlaybooksRequest) (*model.ListPlaybooksResponse, error) {
	if !access.Allowed {
		return nil, model.ErrForbidden
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}

	filter := req.Filter()
	total, err := s.repo.CountPlaybooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count playbooks: %w", err)
	}

	playbooks, err := s.repo.FindPlaybooks(ctx, filter, (req.Page-1)*req.Limit, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("find playbooks: %w", err)
	}

	return &model.ListPlaybooksResponse{
		Playbooks:  playbooks,
		Pagination: model.NewPagination(req.Page, req.Limit, total),
	}, nil
}

// ========================================
// EXPORT
// ========================================

func (s *PlaybookService) Export(ctx context.Context, access model.Access, req model.ExportRequest) (*model.ExportFile, error) {
	if !access.Allowed {
		return nil, model.ErrForbidden
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err)
	}

	f, err := format.Parse(req.Format)
	if err != nil {
		return nil, err
	}

	file, err := s.render(ctx, f, req.ActiveOnly, req.View)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("actor", access.Actor).
		Str("format", string(f)).
		Str("view", req.View).
		Bool("active_only", req.ActiveOnly).
		Int("bytes", len(file.Content)).
		Msg("[PlaybookService] Export rendered")
	return file, nil
}

// RenderCatalog renders the active playbooks in the public view.
func (s *PlaybookService) RenderCatalog(ctx context.Context, f format.Format) (*model.ExportFile, error) {
	return s.render(ctx, f, true, model.ViewPublic)
}

func (s *PlaybookService) render(ctx context.Context, f format.Format, activeOnly bool, view string) (*model.ExportFile, error) {
	playbooks, err := s.loadAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(playbooks))
	for i := range playbooks {
		records = append(records, Project(&playbooks[i], view))
	}

	content, err := format.Encode(records, f, ColumnsFor(view))
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	return &model.ExportFile{
		Content:     content,
		ContentType: f.ContentType(),
		Filename:    f.Filename(),
	}, nil
}

// loadAll pages through every playbook, newest first.
func (s *PlaybookService) loadAll(ctx context.Context, activeOnly bool) ([]model.Playbook, error) {
	var filter model.PlaybookFilter
	if activeOnly {
		active := true
		filter.IsActive = &active
	}

	var all []model.Playbook
	for skip := 0; ; skip += s.cfg.ExportPageSize {
		page, err := s.repo.FindPlaybooks(ctx, filter, skip, s.cfg.ExportPageSize)
		if err != nil {
			return nil, fmt.Errorf("load playbooks: %w", err)
		}
		all = append(all, page...)
		if len(page) < s.cfg.ExportPageSize {
			return all, nil
		}
	}
}

// ========================================
// PUBLIC CATALOG
// ========================================

func (s *PlaybookService) PublicCatalog(ctx context.Context) ([]model.Record, error) {
	if s.cache != nil {
		var cached []model.Record
		found, err := s.cache.Get(ctx, catalogCacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", catalogCacheKey).Msg("[PlaybookService] Cache read failed")
		} else if found {
			return cached, nil
		}
	}

	playbooks, err := s.loadAll(ctx, true)
	if err != nil {
		return nil, err
	}

	entries := make([]model.Record, 0, len(playbooks))
	for i := range playbooks {
		entries = append(entries, ProjectCatalogEntry(&playbooks[i]))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalogCacheKey, entries, s.cfg.CatalogCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", catalogCacheKey).Msg("[PlaybookService] Cache write failed")
		}
	}
	return entries, nil
}

// ========================================
// VERSION HISTORY
// ========================================

func (s *PlaybookService) ListVersions(ctx context.Context, access model.Access, sku string) ([]model.PlaybookVersion, error) {
	if !access.Allowed {
		return nil, model.ErrForbidden
	}

	pb, err := s.repo.FindPlaybookBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, model.ErrPlaybookNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find playbook %s: %w", sku, err)
	}

	versions, err := s.repo.ListVersions(ctx, pb.ID)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", sku, err)
	}
	return versions, nil
}
