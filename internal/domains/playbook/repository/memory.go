package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	categoryModel "playbook-pipeline/internal/domains/category/model"
	"playbook-pipeline/internal/domains/playbook/model"

	"github.com/google/uuid"
)

// FailFunc lets tests inject a store failure. op is "category", "playbook"
// or "version"; key is the category name, SKU or playbook id respectively.
type FailFunc func(op, key string) error

// MemoryRepository keeps playbooks in process. It backs the memory storage
// driver and service tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*categoryModel.Category // by name
	playbooks  map[string]*storedPlaybook         // by sku
	versions   []model.PlaybookVersion
	seq        int
	now        func() time.Time

	FailOn FailFunc
}

type storedPlaybook struct {
	pb  model.Playbook
	seq int
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		categories: make(map[string]*categoryModel.Category),
		playbooks:  make(map[string]*storedPlaybook),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ============================================
// READS
// ============================================

func (r *MemoryRepository) FindPlaybooks(_ context.Context, filter model.PlaybookFilter, skip, take int) ([]model.Playbook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	if skip >= len(matched) {
		return []model.Playbook{}, nil
	}
	end := len(matched)
	if take > 0 && skip+take < end {
		end = skip + take
	}

	out := make([]model.Playbook, 0, end-skip)
	for _, s := range matched[skip:end] {
		out = append(out, r.withCategory(s.pb))
	}
	return out, nil
}

func (r *MemoryRepository) CountPlaybooks(_ context.Context, filter model.PlaybookFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.match(filter)), nil
}

func (r *MemoryRepository) FindPlaybookBySKU(_ context.Context, sku string) (*model.Playbook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.playbooks[sku]
	if !ok {
		return nil, model.ErrPlaybookNotFound
	}
	pb := r.withCategory(s.pb)
	return &pb, nil
}

func (r *MemoryRepository) FindExistingSKUs(_ context.Context, skus []string) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing := make(map[string]bool)
	for _, sku := range skus {
		if _, ok := r.playbooks[sku]; ok {
			existing[sku] = true
		}
	}
	return existing, nil
}

func (r *MemoryRepository) ListVersions(_ context.Context, playbookID uuid.UUID) ([]model.PlaybookVersion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.PlaybookVersion, 0)
	for i := len(r.versions) - 1; i >= 0; i-- {
		v := r.versions[i]
		if v.PlaybookID == playbookID {
			v.Data = v.Data.Clone()
			out = append(out, v)
		}
	}
	return out, nil
}

// match returns stored playbooks passing filter, newest first.
func (r *MemoryRepository) match(filter model.PlaybookFilter) []*storedPlaybook {
	var out []*storedPlaybook
	for _, s := range r.playbooks {
		if r.accepts(filter, &s.pb) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b *storedPlaybook) int {
		if c := b.pb.CreatedAt.Compare(a.pb.CreatedAt); c != 0 {
			return c
		}
		return b.seq - a.seq
	})
	return out
}

func (r *MemoryRepository) accepts(filter model.PlaybookFilter, pb *model.Playbook) bool {
	if filter.SKUContains != "" && !containsFold(pb.SKU, filter.SKUContains) {
		return false
	}
	if filter.CategoryNameContains != "" {
		name := r.categoryName(pb.CategoryID)
		if name == nil || !containsFold(*name, filter.CategoryNameContains) {
			return false
		}
	}
	if filter.Tag != "" && !slices.Contains(pb.Tags, filter.Tag) {
		return false
	}
	if filter.IsActive != nil && pb.IsActive != *filter.IsActive {
		return false
	}
	return true
}

func (r *MemoryRepository) categoryName(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	for _, c := range r.categories {
		if c.ID == *id {
			name := c.Name
			return &name
		}
	}
	return nil
}

func (r *MemoryRepository) withCategory(pb model.Playbook) model.Playbook {
	out := pb.Clone()
	out.CategoryName = r.categoryName(pb.CategoryID)
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ============================================
// WRITES
// ============================================

// WithTx stages writes and applies them only when fn succeeds. Units of work
// are serialized.
func (r *MemoryRepository) WithTx(_ context.Context, fn func(tx TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryTx{
		repo:       r,
		categories: make(map[string]*categoryModel.Category),
		playbooks:  make(map[string]*storedPlaybook),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for name, c := range tx.categories {
		r.categories[name] = c
	}
	for sku, s := range tx.playbooks {
		r.playbooks[sku] = s
	}
	r.versions = append(r.versions, tx.versions...)
	r.seq += tx.created
	return nil
}

type memoryTx struct {
	repo       *MemoryRepository
	categories map[string]*categoryModel.Category
	playbooks  map[string]*storedPlaybook
	versions   []model.PlaybookVersion
	created    int
}

func (t *memoryTx) fail(op, key string) error {
	if t.repo.FailOn == nil {
		return nil
	}
	return t.repo.FailOn(op, key)
}

func (t *memoryTx) UpsertCategory(_ context.Context, name string) (*categoryModel.Category, bool, error) {
	if err := t.fail("category", name); err != nil {
		return nil, false, err
	}
	if c, ok := t.categories[name]; ok {
		out := *c
		return &out, false, nil
	}
	if c, ok := t.repo.categories[name]; ok {
		out := *c
		return &out, false, nil
	}

	c := categoryModel.NewCategory(name)
	t.categories[name] = c
	out := *c
	return &out, true, nil
}

func (t *memoryTx) UpsertPlaybook(_ context.Context, create *model.Playbook, patch *model.PlaybookPatch) (*model.Playbook, bool, error) {
	if err := t.fail("playbook", create.SKU); err != nil {
		return nil, false, err
	}

	now := t.repo.now()
	current, ok := t.playbooks[create.SKU]
	if !ok {
		current, ok = t.repo.playbooks[create.SKU]
	}

	var next *storedPlaybook
	if ok {
		next = &storedPlaybook{pb: current.pb.Clone(), seq: current.seq}
		next.pb.Apply(patch, now)
	} else {
		t.created++
		next = &storedPlaybook{pb: create.Clone(), seq: t.repo.seq + t.created}
		next.pb.Version = 1
		next.pb.CreatedAt = now
		next.pb.UpdatedAt = now
		next.pb.CategoryName = nil
	}
	if err := next.pb.CheckPriceRange(); err != nil {
		return nil, false, err
	}
	t.playbooks[create.SKU] = next

	out := next.pb.Clone()
	out.CategoryName = t.categoryName(out.CategoryID)
	return &out, !ok, nil
}

func (t *memoryTx) CreateVersion(_ context.Context, v *model.PlaybookVersion) error {
	if err := t.fail("version", v.PlaybookID.String()); err != nil {
		return err
	}
	snapshot := *v
	snapshot.Data = v.Data.Clone()
	t.versions = append(t.versions, snapshot)
	return nil
}

func (t *memoryTx) categoryName(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	for _, c := range t.categories {
		if c.ID == *id {
			name := c.Name
			return &name
		}
	}
	return t.repo.categoryName(id)
}
