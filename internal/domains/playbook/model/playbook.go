package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ========================================
// DEFAULTS (applied on creation only)
// ========================================

const (
	DefaultShippingProfile = "standard"
	DefaultReturnsProfile  = "30d-returns"
	DefaultRequireMinCount = 3
	DefaultActor           = "admin-import"
	productRefPrefix       = "imported-"
)

var (
	DefaultPriceMin = decimal.Zero
	DefaultPriceMax = decimal.NewFromInt(999999)
)

// ========================================
// ENTITIES
// ========================================

// ImageRules describes the photos a listing must carry.
type ImageRules struct {
	RequireMinCount int      `json:"requireMinCount"`
	MustInclude     []string `json:"mustInclude"`
}

// PolicyGate is internal-only and never leaves the admin surface.
type PolicyGate struct {
	RequiresAuthorizationDocs bool `json:"requiresAuthorizationDocs"`
}

// Playbook - listing template for one SKU
type Playbook struct {
	// Identity
	ID         uuid.UUID `json:"id" db:"id"`
	ProductRef string    `json:"-" db:"product_ref"`
	SKU        string    `json:"sku" db:"sku"`
	SKUPrefix  *string   `json:"skuPrefix" db:"sku_prefix"`
	Version    int       `json:"version" db:"version"`

	// Relationships
	CategoryID   *uuid.UUID `json:"categoryId" db:"category_id"`
	CategoryName *string    `json:"category" db:"category_name"` // joined

	// Listing content
	Tags          []string          `json:"tags" db:"tags"`
	IsActive      bool              `json:"isActive" db:"is_active"`
	TitleTemplate string            `json:"titleTemplate" db:"title_template"`
	Subtitle      *string           `json:"subtitle" db:"subtitle"`
	Bullets       []string          `json:"bullets" db:"bullets"`
	ItemSpecifics map[string]string `json:"itemSpecifics" db:"item_specifics"`

	// Restricted
	ForbiddenPhrases []string   `json:"forbiddenPhrases" db:"forbidden_phrases"`
	PolicyGate       PolicyGate `json:"policyGate" db:"policy_gate"`

	// Pricing
	PriceMin decimal.Decimal `json:"priceMin" db:"price_min"`
	PriceMax decimal.Decimal `json:"priceMax" db:"price_max"`

	// Policies
	ShippingProfile string     `json:"shippingProfile" db:"shipping_profile"`
	ReturnsProfile  string     `json:"returnsProfile" db:"returns_profile"`
	ImageRules      ImageRules `json:"imageRules" db:"image_rules"`

	// Timestamps
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// PlaybookPatch carries the fields present in an incoming record.
// A nil field leaves the stored value untouched.
type PlaybookPatch struct {
	SKUPrefix        *string
	CategoryID       *uuid.UUID
	Tags             []string
	IsActive         *bool
	TitleTemplate    *string
	Subtitle         *string
	Bullets          []string
	ItemSpecifics    map[string]string
	ForbiddenPhrases []string
	PriceMin         *decimal.Decimal
	PriceMax         *decimal.Decimal
	ShippingProfile  *string
	ReturnsProfile   *string
	ImageRules       *ImageRules
	PolicyGate       *PolicyGate
}

// ProductRefForSKU links an imported playbook to its placeholder product.
func ProductRefForSKU(sku string) string {
	return productRefPrefix + sku
}

// Apply merges patch into p and bumps the version by exactly one.
func (p *Playbook) Apply(patch *PlaybookPatch, now time.Time) {
	if patch != nil {
		if patch.SKUPrefix != nil {
			p.SKUPrefix = cloneStringPtr(patch.SKUPrefix)
		}
		if patch.CategoryID != nil {
			id := *patch.CategoryID
			p.CategoryID = &id
		}
		if patch.Tags != nil {
			p.Tags = cloneStrings(patch.Tags)
		}
		if patch.IsActive != nil {
			p.IsActive = *patch.IsActive
		}
		if patch.TitleTemplate != nil {
			p.TitleTemplate = *patch.TitleTemplate
		}
		if patch.Subtitle != nil {
			p.Subtitle = cloneStringPtr(patch.Subtitle)
		}
		if patch.Bullets != nil {
			p.Bullets = cloneStrings(patch.Bullets)
		}
		if patch.ItemSpecifics != nil {
			p.ItemSpecifics = cloneStringMap(patch.ItemSpecifics)
		}
		if patch.ForbiddenPhrases != nil {
			p.ForbiddenPhrases = cloneStrings(patch.ForbiddenPhrases)
		}
		if patch.PriceMin != nil {
			p.PriceMin = *patch.PriceMin
		}
		if patch.PriceMax != nil {
			p.PriceMax = *patch.PriceMax
		}
		if patch.ShippingProfile != nil {
			p.ShippingProfile = *patch.ShippingProfile
		}
		if patch.ReturnsProfile != nil {
			p.ReturnsProfile = *patch.ReturnsProfile
		}
		if patch.ImageRules != nil {
			p.ImageRules = patch.ImageRules.clone()
		}
		if patch.PolicyGate != nil {
			p.PolicyGate = *patch.PolicyGate
		}
	}

	p.Version++
	p.UpdatedAt = now
}

// CheckPriceRange reports ErrPriceRange when the stored range is inverted.
// Apply merges a lone bound with the stored one, so this runs on the result.
func (p *Playbook) CheckPriceRange() error {
	if p.PriceMin.GreaterThan(p.PriceMax) {
		return fmt.Errorf("%w: priceMin %s exceeds priceMax %s", ErrPriceRange, p.PriceMin, p.PriceMax)
	}
	return nil
}

// Clone returns a deep copy so stored entities never share slices or maps.
func (p Playbook) Clone() Playbook {
	out := p
	out.SKUPrefix = cloneStringPtr(p.SKUPrefix)
	out.CategoryName = cloneStringPtr(p.CategoryName)
	out.Subtitle = cloneStringPtr(p.Subtitle)
	if p.CategoryID != nil {
		id := *p.CategoryID
		out.CategoryID = &id
	}
	out.Tags = cloneStrings(p.Tags)
	out.Bullets = cloneStrings(p.Bullets)
	out.ForbiddenPhrases = cloneStrings(p.ForbiddenPhrases)
	out.ItemSpecifics = cloneStringMap(p.ItemSpecifics)
	out.ImageRules = p.ImageRules.clone()
	return out
}

func (r ImageRules) clone() ImageRules {
	return ImageRules{
		RequireMinCount: r.RequireMinCount,
		MustInclude:     cloneStrings(r.MustInclude),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// ========================================
// VERSION HISTORY
// ========================================

// PlaybookVersion is an append-only snapshot of the record that produced a version.
type PlaybookVersion struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PlaybookID uuid.UUID `json:"playbookId" db:"playbook_id"`
	Version    int       `json:"version" db:"version"`
	Data       Record    `json:"data" db:"data"`
	CreatedBy  string    `json:"createdBy" db:"created_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// NewPlaybookVersion snapshots the submitted record for playbook pb.
func NewPlaybookVersion(pb *Playbook, submitted Record, actor string, now time.Time) *PlaybookVersion {
	if actor == "" {
		actor = DefaultActor
	}
	return &PlaybookVersion{
		ID:         uuid.New(),
		PlaybookID: pb.ID,
		Version:    pb.Version,
		Data:       submitted.Clone(),
		CreatedBy:  actor,
		CreatedAt:  now,
	}
}
