package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"playbook-pipeline/internal/domains/playbook/model"
	"playbook-pipeline/internal/domains/playbook/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = model.Access{Allowed: true, Actor: "ops@example.com"}

const win10 = `[{
  "sku": "WIN10PRO",
  "category": "Software",
  "tags": ["windows", "os"],
  "titleTemplate": "Windows 10 Pro {{edition}}",
  "bullets": ["Genuine license", "Instant delivery"],
  "itemSpecifics": {"Platform": "PC"},
  "forbiddenPhrases": ["crack", "keygen"],
  "priceMin": 19.99,
  "priceMax": 49.99,
  "imageRules": {"requireMinCount": 2, "mustInclude": ["box"]},
  "policyGate": {"requiresAuthorizationDocs": true}
}]`

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	c.sets++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *fakeCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

type fakePublisher struct {
	calls int
	err   error
}

func (p *fakePublisher) EnqueueCatalogPublish(context.Context) error {
	p.calls++
	return p.err
}

type fixture struct {
	svc       *PlaybookService
	repo      *repository.MemoryRepository
	cache     *fakeCache
	publisher *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      repository.NewMemoryRepository(),
		cache:     newFakeCache(),
		publisher: &fakePublisher{},
	}
	f.svc = NewService(f.repo, f.cache, f.publisher, Config{ExportPageSize: 2})
	return f
}

func (f *fixture) mustImport(t *testing.T, raw, formatName string) *model.ImportResult {
	t.Helper()
	res, err := f.svc.Import(context.Background(), admin, raw, formatName)
	require.NoError(t, err)
	return res
}

func (f *fixture) mustFind(t *testing.T, sku string) *model.Playbook {
	t.Helper()
	pb, err := f.repo.FindPlaybookBySKU(context.Background(), sku)
	require.NoError(t, err)
	return pb
}

func TestImport_CreatesPlaybookWithDefaults(t *testing.T) {
	f := newFixture(t)

	res := f.mustImport(t, win10, "json")
	assert.Equal(t, &model.ImportResult{Imported: 1, Total: 1}, res)

	pb := f.mustFind(t, "WIN10PRO")
	assert.Equal(t, 1, pb.Version)
	assert.Equal(t, "imported-WIN10PRO", pb.ProductRef)
	require.NotNil(t, pb.CategoryName)
	assert.Equal(t, "Software", *pb.CategoryName)
	assert.True(t, pb.IsActive)
	assert.Equal(t, "19.99", pb.PriceMin.String())
	assert.Equal(t, "49.99", pb.PriceMax.String())
	assert.Equal(t, model.DefaultShippingProfile, pb.ShippingProfile)
	assert.Equal(t, model.DefaultReturnsProfile, pb.ReturnsProfile)
	assert.Equal(t, model.ImageRules{RequireMinCount: 2, MustInclude: []string{"box"}}, pb.ImageRules)
	assert.True(t, pb.PolicyGate.RequiresAuthorizationDocs)

	versions, err := f.svc.ListVersions(context.Background(), admin, "WIN10PRO")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, admin.Actor, versions[0].CreatedBy)
	assert.Equal(t, "WIN10PRO", versions[0].Data[model.FieldSKU])

	assert.Equal(t, 1, f.publisher.calls)
	assert.Equal(t, []string{catalogCachePattern}, f.cache.deleted)
}

func TestImport_MinimalRecordGetsCreationDefaults(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, `[{"sku":"MIN","titleTemplate":"T"}]`, "json")

	pb := f.mustFind(t, "MIN")
	assert.Nil(t, pb.CategoryID)
	assert.True(t, pb.IsActive)
	assert.True(t, pb.PriceMin.Equal(model.DefaultPriceMin))
	assert.True(t, pb.PriceMax.Equal(model.DefaultPriceMax))
	assert.Equal(t, model.ImageRules{RequireMinCount: 3, MustInclude: []string{}}, pb.ImageRules)
	assert.False(t, pb.PolicyGate.RequiresAuthorizationDocs)
	assert.Empty(t, pb.Tags)
	assert.Empty(t, pb.ForbiddenPhrases)
}

func TestImport_UpdateMergesAndBumpsVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustImport(t, `[{"sku":"A","titleTemplate":"First","priceMin":5,"tags":["x"]}]`, "json")
	first := f.mustFind(t, "A")

	f.mustImport(t, `[{"sku":"A","titleTemplate":"Second","isActive":false}]`, "json")
	second := f.mustFind(t, "A")

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Version)
	assert.Equal(t, "Second", second.TitleTemplate)
	assert.False(t, second.IsActive)
	assert.Equal(t, "5", second.PriceMin.String(), "absent field keeps stored value")
	assert.Equal(t, []string{"x"}, second.Tags)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	versions, err := f.svc.ListVersions(ctx, admin, "A")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].Version)
	assert.Equal(t, 1, versions[1].Version)
	assert.Equal(t, "Second", versions[0].Data[model.FieldTitleTemplate])
	assert.NotContains(t, versions[0].Data, model.FieldPriceMin)
	assert.Equal(t, 5.0, versions[1].Data[model.FieldPriceMin])
}

func TestImport_ReusesCategoryByName(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, `[
		{"sku":"A","titleTemplate":"T","category":"Games"},
		{"sku":"B","titleTemplate":"T","category":"Games"}
	]`, "json")

	a, b := f.mustFind(t, "A"), f.mustFind(t, "B")
	require.NotNil(t, a.CategoryID)
	require.NotNil(t, b.CategoryID)
	assert.Equal(t, *a.CategoryID, *b.CategoryID)
}

func TestImport_RejectsInvalidBatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Import(context.Background(), admin, `[
		{"sku":"A","titleTemplate":"T","priceMin":10,"priceMax":5},
		{"sku":"A","titleTemplate":"T"}
	]`, "json")

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Row 1: Price min (10) cannot be greater than price max (5)",
		"Duplicate SKUs found: A",
	}, verr.Errors)

	count, err := f.repo.CountPlaybooks(context.Background(), model.PlaybookFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, f.publisher.calls)
}

func TestImport_StopsAtFirstStoreFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk full")
	f.repo.FailOn = func(op, key string) error {
		if op == "playbook" && key == "C" {
			return boom
		}
		return nil
	}

	_, err := f.svc.Import(context.Background(), admin, `[
		{"sku":"A","titleTemplate":"T"},
		{"sku":"B","titleTemplate":"T"},
		{"sku":"C","titleTemplate":"T"},
		{"sku":"D","titleTemplate":"T"}
	]`, "json")

	var perr *model.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Imported)
	assert.Equal(t, 4, perr.Total)
	assert.Equal(t, 3, perr.Row)
	assert.Equal(t, "C", perr.SKU)
	assert.ErrorIs(t, err, boom)

	count, err := f.repo.CountPlaybooks(context.Background(), model.PlaybookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, f.publisher.calls, "committed rows still refresh the catalog")
}

func TestImport_FailedSnapshotRollsBackRecord(t *testing.T) {
	f := newFixture(t)
	f.repo.FailOn = func(op, _ string) error {
		if op == "version" {
			return errors.New("snapshot rejected")
		}
		return nil
	}

	_, err := f.svc.Import(context.Background(), admin, `[{"sku":"A","titleTemplate":"T","category":"New"}]`, "json")
	var perr *model.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, perr.Imported)

	_, err = f.repo.FindPlaybookBySKU(context.Background(), "A")
	assert.ErrorIs(t, err, model.ErrPlaybookNotFound)
	assert.Zero(t, f.publisher.calls)
}

func TestImport_LonePriceMinAboveDefaultMax(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Import(context.Background(), admin, `[{"sku":"B","titleTemplate":"T","priceMin":2000000}]`, "json")
	var perr *model.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Row)
	assert.Equal(t, "B", perr.SKU)
	assert.Zero(t, perr.Imported)
	assert.ErrorIs(t, err, model.ErrPriceRange)

	_, err = f.repo.FindPlaybookBySKU(context.Background(), "B")
	assert.ErrorIs(t, err, model.ErrPlaybookNotFound)
}

func TestImport_MergedPriceRangeMustHold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustImport(t, `[{"sku":"C","titleTemplate":"T","priceMin":10,"priceMax":20}]`, "json")

	_, err := f.svc.Import(ctx, admin, `[{"sku":"C","titleTemplate":"T","priceMin":100}]`, "json")
	var perr *model.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Row)
	assert.Equal(t, "C", perr.SKU)
	assert.ErrorIs(t, err, model.ErrPriceRange)

	pb := f.mustFind(t, "C")
	assert.Equal(t, 1, pb.Version)
	assert.True(t, pb.PriceMin.Equal(decimal.NewFromInt(10)))
	assert.True(t, pb.PriceMax.Equal(decimal.NewFromInt(20)))

	versions, err := f.svc.ListVersions(ctx, admin, "C")
	require.NoError(t, err)
	assert.Len(t, versions, 1)

	// lowering the max below the stored min is caught the same way
	_, err = f.svc.Import(ctx, admin, `[{"sku":"C","titleTemplate":"T","priceMax":5}]`, "json")
	assert.ErrorIs(t, err, model.ErrPriceRange)

	f.mustImport(t, `[{"sku":"C","titleTemplate":"T","priceMin":20}]`, "json")
	assert.Equal(t, 2, f.mustFind(t, "C").Version)
}

func TestImport_PublisherFailureDoesNotFailImport(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("queue down")

	res := f.mustImport(t, `[{"sku":"A","titleTemplate":"T"}]`, "json")
	assert.Equal(t, 1, res.Imported)
}

func TestImport_DecodeErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Import(ctx, admin, `[{"sku":"A"}]`, "xml")
	var ferr *model.UnsupportedFormatError
	assert.ErrorAs(t, err, &ferr)

	_, err = f.svc.Import(ctx, admin, `{"sku":`, "json")
	var perr *model.ParseError
	assert.ErrorAs(t, err, &perr)

	_, err = f.svc.Import(ctx, admin, "", "json")
	assert.ErrorIs(t, err, model.ErrDataRequired)
}

func TestImport_MaxRows(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := NewService(repo, nil, nil, Config{MaxRows: 1})

	_, err := svc.Import(context.Background(), admin, `[
		{"sku":"A","titleTemplate":"T"},
		{"sku":"B","titleTemplate":"T"}
	]`, "json")
	assert.ErrorIs(t, err, model.ErrTooManyRecords)
}

func TestImport_DefaultActor(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Import(context.Background(), model.Access{Allowed: true}, `[{"sku":"A","titleTemplate":"T"}]`, "json")
	require.NoError(t, err)

	versions, err := f.svc.ListVersions(context.Background(), admin, "A")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, model.DefaultActor, versions[0].CreatedBy)
}

func TestValidate_WarnsAboutExistingSKUs(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, `[{"sku":"A","titleTemplate":"T"}]`, "json")

	report, err := f.svc.Validate(context.Background(), admin, "sku,titleTemplate\nB,T\nA,T\n", "csv")
	require.NoError(t, err)

	assert.True(t, report.Valid)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, []string{"Row 2: SKU A already exists and will be updated"}, report.Warnings)
	assert.Equal(t, model.ValidationSummary{Valid: 2, Invalid: 0, Warnings: 1}, report.Summary)

	count, err := f.repo.CountPlaybooks(context.Background(), model.PlaybookFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count, "validate never writes")
}

func TestAdminOperations_RequireAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	denied := model.Access{Actor: "someone"}

	_, err := f.svc.List(ctx, denied, model.ListPlaybooksRequest{})
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.svc.Validate(ctx, denied, win10, "json")
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.svc.Import(ctx, denied, win10, "json")
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.svc.Export(ctx, denied, model.ExportRequest{})
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.svc.ListVersions(ctx, denied, "WIN10PRO")
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestListVersions_UnknownSKU(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListVersions(context.Background(), admin, "NOPE")
	assert.ErrorIs(t, err, model.ErrPlaybookNotFound)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustImport(t, `[
		{"sku":"WIN-1","titleTemplate":"T","category":"Software","tags":["os"]},
		{"sku":"WIN-2","titleTemplate":"T","category":"Software","tags":["os","pro"],"isActive":false},
		{"sku":"GAME-1","titleTemplate":"T","category":"Video Games","tags":["fun"]}
	]`, "json")

	skus := func(res *model.ListPlaybooksResponse) []string {
		out := make([]string, 0, len(res.Playbooks))
		for _, pb := range res.Playbooks {
			out = append(out, pb.SKU)
		}
		return out
	}

	res, err := f.svc.List(ctx, admin, model.ListPlaybooksRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"GAME-1", "WIN-2", "WIN-1"}, skus(res), "newest first")
	assert.Equal(t, model.Pagination{Page: 1, Limit: 50, Total: 3, Pages: 1}, res.Pagination)

	res, err = f.svc.List(ctx, admin, model.ListPlaybooksRequest{SKU: "win"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"WIN-1", "WIN-2"}, skus(res))

	res, err = f.svc.List(ctx, admin, model.ListPlaybooksRequest{Category: "video"})
	require.NoError(t, err)
	assert.Equal(t, []string{"GAME-1"}, skus(res))

	res, err = f.svc.List(ctx, admin, model.ListPlaybooksRequest{Tag: "pro"})
	require.NoError(t, err)
	assert.Equal(t, []string{"WIN-2"}, skus(res))

	inactive := "false"
	res, err = f.svc.List(ctx, admin, model.ListPlaybooksRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, []string{"WIN-2"}, skus(res))

	res, err = f.svc.List(ctx, admin, model.ListPlaybooksRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"WIN-1"}, skus(res))
	assert.Equal(t, model.Pagination{Page: 2, Limit: 2, Total: 3, Pages: 2}, res.Pagination)
}

func TestList_RejectsOutOfRangePaging(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, `[{"sku":"A","titleTemplate":"T"}]`, "json")

	for _, req := range []model.ListPlaybooksRequest{
		{Limit: -1},
		{Page: -3},
		{Limit: model.MaxLimit + 1},
	} {
		res, err := f.svc.List(context.Background(), admin, req)
		assert.ErrorIs(t, err, model.ErrInvalidRequest, "%+v", req)
		assert.Nil(t, res)
	}
}

func TestExport_PublicViewOmitsRestrictedFields(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, win10, "json")

	for _, formatName := range []string{"json", "csv"} {
		t.Run(formatName, func(t *testing.T) {
			file, err := f.svc.Export(context.Background(), admin, model.ExportRequest{Format: formatName, View: model.ViewPublic})
			require.NoError(t, err)

			out := string(file.Content)
			assert.Contains(t, out, "WIN10PRO")
			for _, leaked := range []string{"forbiddenPhrases", "crack", "keygen", "policyGate", "requiresAuthorizationDocs"} {
				assert.NotContains(t, out, leaked)
			}
		})
	}

	full, err := f.svc.Export(context.Background(), admin, model.ExportRequest{Format: "json"})
	require.NoError(t, err)
	assert.Contains(t, string(full.Content), `"forbiddenPhrases"`)
	assert.Contains(t, string(full.Content), `"requiresAuthorizationDocs": true`)
	assert.Equal(t, "application/json", full.ContentType)
	assert.Equal(t, "playbooks.json", full.Filename)
}

func TestExport_RejectsUnknownView(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, win10, "json")

	for _, view := range []string{"Public", "pubic", "FULL", "admin"} {
		t.Run(view, func(t *testing.T) {
			file, err := f.svc.Export(context.Background(), admin, model.ExportRequest{Format: "json", View: view})
			assert.ErrorIs(t, err, model.ErrInvalidRequest)
			assert.Nil(t, file)
		})
	}
}

func TestProject_OnlyFullViewCarriesRestrictedFields(t *testing.T) {
	pb := &model.Playbook{SKU: "X", ForbiddenPhrases: []string{"crack"}}

	assert.Contains(t, Project(pb, model.ViewFull), model.FieldForbiddenPhrases)
	for _, view := range []string{model.ViewPublic, "Public", "", "typo"} {
		rec := Project(pb, view)
		assert.NotContains(t, rec, model.FieldForbiddenPhrases, view)
		assert.NotContains(t, rec, model.FieldPolicyGate, view)
		assert.Equal(t, model.PublicColumns, ColumnsFor(view), view)
	}
	assert.Equal(t, model.FullColumns, ColumnsFor(model.ViewFull))
}

func TestExport_ActiveOnlyPagesThroughEverything(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, `[
		{"sku":"A","titleTemplate":"T"},
		{"sku":"B","titleTemplate":"T","isActive":false},
		{"sku":"C","titleTemplate":"T"},
		{"sku":"D","titleTemplate":"T"},
		{"sku":"E","titleTemplate":"T"}
	]`, "json")

	file, err := f.svc.Export(context.Background(), admin, model.ExportRequest{Format: "json", ActiveOnly: true})
	require.NoError(t, err)

	var doc struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(file.Content, &doc))
	skus := make([]string, 0, len(doc.Items))
	for _, item := range doc.Items {
		skus = append(skus, item[model.FieldSKU].(string))
	}
	assert.Equal(t, []string{"E", "D", "C", "A"}, skus)
}

func TestExport_RoundTripsThroughImport(t *testing.T) {
	for _, formatName := range []string{"json", "csv"} {
		t.Run(formatName, func(t *testing.T) {
			src := newFixture(t)
			src.mustImport(t, win10, "json")
			src.mustImport(t, `[{"sku":"OFF","titleTemplate":"Plain","isActive":false,"subtitle":"Sub"}]`, "json")

			file, err := src.svc.Export(context.Background(), admin, model.ExportRequest{Format: formatName})
			require.NoError(t, err)

			dst := newFixture(t)
			res := dst.mustImport(t, string(file.Content), formatName)
			assert.Equal(t, 2, res.Imported)

			for _, sku := range []string{"WIN10PRO", "OFF"} {
				assert.Equal(t, withoutServerFields(src.mustFind(t, sku)), withoutServerFields(dst.mustFind(t, sku)), sku)
			}
		})
	}
}

// withoutServerFields projects pb without the fields the store assigns.
func withoutServerFields(pb *model.Playbook) model.Record {
	rec := Project(pb, model.ViewFull)
	for _, f := range model.ServerAssignedFields {
		delete(rec, f)
	}
	return rec
}

func TestPublicCatalog_CachesUntilImport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustImport(t, win10, "json")

	first, err := f.svc.PublicCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, first[0], model.FieldID)
	assert.NotContains(t, first[0], model.FieldForbiddenPhrases)
	assert.NotContains(t, first[0], model.FieldPolicyGate)
	assert.Equal(t, 1, f.cache.sets)

	cached, err := f.svc.PublicCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	assert.Equal(t, 1, f.cache.sets, "second read served from cache")

	f.mustImport(t, `[{"sku":"NEW","titleTemplate":"T"},{"sku":"HIDDEN","titleTemplate":"T","isActive":false}]`, "json")

	fresh, err := f.svc.PublicCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, f.cache.sets)
}

func TestRenderCatalog(t *testing.T) {
	f := newFixture(t)
	f.mustImport(t, win10, "json")

	file, err := f.svc.RenderCatalog(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "playbooks.csv", file.Filename)
	header := strings.SplitN(string(file.Content), "\n", 2)[0]
	assert.Equal(t, strings.Join(model.PublicColumns, ","), header)
}
