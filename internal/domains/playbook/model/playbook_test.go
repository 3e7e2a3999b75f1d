package model

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordToInput(t *testing.T) {
	rec := Record{
		"sku":           "SKU-1",
		"titleTemplate": "Title",
		"category":      "Software",
		"tags":          []any{"a", "b"},
		"isActive":      false,
		"itemSpecifics": map[string]any{"Brand": "Acme"},
		"priceMin":      1.5,
		"imageRules":    map[string]any{"requireMinCount": 2.0},
		"policyGate":    map[string]any{"requiresAuthorizationDocs": "maybe"},
	}

	in, err := rec.ToInput()
	require.NoError(t, err)

	assert.Equal(t, "SKU-1", in.SKU)
	require.NotNil(t, in.Category)
	assert.Equal(t, "Software", *in.Category)
	assert.Equal(t, []string{"a", "b"}, in.Tags)
	require.NotNil(t, in.IsActive)
	assert.False(t, *in.IsActive)
	assert.Equal(t, map[string]string{"Brand": "Acme"}, in.ItemSpecifics)
	require.NotNil(t, in.PriceMin)
	assert.Equal(t, "1.5", in.PriceMin.String())
	assert.Nil(t, in.PriceMax)
	assert.Nil(t, in.Bullets)
	assert.Equal(t, &ImageRules{RequireMinCount: 2, MustInclude: []string{}}, in.ImageRules)
	assert.Equal(t, &PolicyGate{RequiresAuthorizationDocs: false}, in.PolicyGate)
}

func TestRecordToInput_RejectsWrongShapes(t *testing.T) {
	tests := []Record{
		{},
		{"sku": 1.0},
		{"sku": "A", "tags": "a,b"},
		{"sku": "A", "isActive": "true"},
		{"sku": "A", "priceMax": "10"},
		{"sku": "A", "itemSpecifics": map[string]any{"k": 1.0}},
		{"sku": "A", "imageRules": map[string]any{"requireMinCount": 1.5}},
		{"sku": "A", "imageRules": map[string]any{"requireMinCount": 1e20}},
		{"sku": "A", "imageRules": map[string]any{"requireMinCount": float64(math.MaxInt32) + 1}},
	}
	for _, rec := range tests {
		_, err := rec.ToInput()
		assert.ErrorIs(t, err, ErrInvalidField, "%v", rec)
	}
}

func TestNewPlaybook_AppliesDefaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := &PlaybookInput{SKU: "X"}

	pb := in.NewPlaybook(nil, now)

	assert.NotEqual(t, uuid.Nil, pb.ID)
	assert.Equal(t, "imported-X", pb.ProductRef)
	assert.Equal(t, 1, pb.Version)
	assert.True(t, pb.IsActive)
	assert.True(t, pb.PriceMin.Equal(decimal.Zero))
	assert.True(t, pb.PriceMax.Equal(decimal.NewFromInt(999999)))
	assert.Equal(t, "standard", pb.ShippingProfile)
	assert.Equal(t, "30d-returns", pb.ReturnsProfile)
	assert.Equal(t, ImageRules{RequireMinCount: 3, MustInclude: []string{}}, pb.ImageRules)
	assert.Equal(t, PolicyGate{}, pb.PolicyGate)
	assert.Equal(t, []string{}, pb.Tags)
	assert.Equal(t, map[string]string{}, pb.ItemSpecifics)
	assert.Equal(t, now, pb.CreatedAt)
	assert.Nil(t, pb.CategoryID)
}

func TestPlaybookApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	title := "Original"
	pb := (&PlaybookInput{SKU: "X", TitleTemplate: &title, Tags: []string{"keep"}}).NewPlaybook(nil, created)

	newTitle := "Changed"
	ceiling := decimal.NewFromInt(10)
	catID := uuid.New()
	pb.Apply(&PlaybookPatch{TitleTemplate: &newTitle, PriceMax: &ceiling, CategoryID: &catID}, later)

	assert.Equal(t, 2, pb.Version)
	assert.Equal(t, "Changed", pb.TitleTemplate)
	assert.True(t, pb.PriceMax.Equal(ceiling))
	assert.Equal(t, []string{"keep"}, pb.Tags)
	assert.Equal(t, catID, *pb.CategoryID)
	assert.Equal(t, created, pb.CreatedAt)
	assert.Equal(t, later, pb.UpdatedAt)

	pb.Apply(nil, later)
	assert.Equal(t, 3, pb.Version)
}

func TestPlaybookCheckPriceRange(t *testing.T) {
	pb := Playbook{PriceMin: decimal.NewFromInt(10), PriceMax: decimal.NewFromInt(20)}
	require.NoError(t, pb.CheckPriceRange())

	pb.PriceMin = decimal.NewFromInt(20)
	require.NoError(t, pb.CheckPriceRange())

	// a lone priceMin merged over the stored max
	floor := decimal.NewFromInt(2000000)
	pb.Apply(&PlaybookPatch{PriceMin: &floor}, time.Now())
	assert.ErrorIs(t, pb.CheckPriceRange(), ErrPriceRange)
}

func TestPlaybookClone_IsDeep(t *testing.T) {
	pb := Playbook{
		Tags:          []string{"a"},
		ItemSpecifics: map[string]string{"k": "v"},
		ImageRules:    ImageRules{MustInclude: []string{"front"}},
	}
	c := pb.Clone()
	c.Tags[0] = "changed"
	c.ItemSpecifics["k"] = "changed"
	c.ImageRules.MustInclude[0] = "changed"

	assert.Equal(t, "a", pb.Tags[0])
	assert.Equal(t, "v", pb.ItemSpecifics["k"])
	assert.Equal(t, "front", pb.ImageRules.MustInclude[0])
}

func TestNewPlaybookVersion(t *testing.T) {
	pb := &Playbook{ID: uuid.New(), Version: 4}
	submitted := Record{"sku": "X", "tags": []any{"a"}}

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	v := NewPlaybookVersion(pb, submitted, "", at)
	assert.Equal(t, pb.ID, v.PlaybookID)
	assert.Equal(t, at, v.CreatedAt)
	assert.Equal(t, 4, v.Version)
	assert.Equal(t, DefaultActor, v.CreatedBy)

	submitted["tags"].([]any)[0] = "mutated"
	assert.Equal(t, []any{"a"}, v.Data["tags"])
}

func TestValidationReport(t *testing.T) {
	r := NewValidationReport(3, []string{"e1"}, nil)
	assert.False(t, r.Valid)
	assert.Equal(t, ValidationSummary{Valid: 2, Invalid: 1, Warnings: 0}, r.Summary)
	assert.Equal(t, []string{}, r.Warnings)

	r.AddWarning("w1")
	assert.Equal(t, 1, r.Summary.Warnings)
}

func TestListPlaybooksRequest(t *testing.T) {
	req := ListPlaybooksRequest{}
	req.Normalize()
	assert.Equal(t, DefaultPage, req.Page)
	assert.Equal(t, DefaultLimit, req.Limit)
	assert.NoError(t, req.Validate())

	req.Limit = MaxLimit + 1
	assert.Error(t, req.Validate())

	yes, other := "true", "1"
	assert.True(t, *ListPlaybooksRequest{IsActive: &yes}.Filter().IsActive)
	assert.False(t, *ListPlaybooksRequest{IsActive: &other}.Filter().IsActive)
	assert.Nil(t, ListPlaybooksRequest{}.Filter().IsActive)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, Limit: 50, Total: 0, Pages: 0}, NewPagination(1, 50, 0))
	assert.Equal(t, Pagination{Page: 2, Limit: 50, Total: 101, Pages: 3}, NewPagination(2, 50, 101))
}

func TestErrors(t *testing.T) {
	assert.Equal(t, "failed to parse csv data: row 3: wrong number of fields",
		(&ParseError{Format: "csv", Row: 3, Detail: "wrong number of fields"}).Error())
	assert.Equal(t, `unsupported format "xml": use 'json' or 'csv'`,
		(&UnsupportedFormatError{Format: "xml"}).Error())
}
