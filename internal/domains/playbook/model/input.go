package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxRequireMinCount is the largest accepted imageRules.requireMinCount.
const MaxRequireMinCount = math.MaxInt32

// PlaybookInput is the typed form of a Record that passed validation.
// Nil pointers, slices and maps mean the field was not submitted.
type PlaybookInput struct {
	SKU              string
	SKUPrefix        *string
	Category         *string
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

// ToInput converts r into a PlaybookInput. It fails when a present field has
// the wrong shape.
func (r Record) ToInput() (*PlaybookInput, error) {
	sku, ok := r.String(FieldSKU)
	if !ok || sku == "" {
		return nil, fieldError(FieldSKU, "must be a non-empty string")
	}

	in := &PlaybookInput{SKU: sku}
	var err error

	if in.SKUPrefix, err = r.optString(FieldSKUPrefix); err != nil {
		return nil, err
	}
	if in.Category, err = r.optString(FieldCategory); err != nil {
		return nil, err
	}
	if in.TitleTemplate, err = r.optString(FieldTitleTemplate); err != nil {
		return nil, err
	}
	if in.Subtitle, err = r.optString(FieldSubtitle); err != nil {
		return nil, err
	}
	if in.ShippingProfile, err = r.optString(FieldShippingProfile); err != nil {
		return nil, err
	}
	if in.ReturnsProfile, err = r.optString(FieldReturnsProfile); err != nil {
		return nil, err
	}

	if r.Has(FieldIsActive) {
		b, ok := r.Bool(FieldIsActive)
		if !ok {
			return nil, fieldError(FieldIsActive, "must be a boolean")
		}
		in.IsActive = &b
	}

	if in.Tags, err = r.optStrings(FieldTags); err != nil {
		return nil, err
	}
	if in.Bullets, err = r.optStrings(FieldBullets); err != nil {
		return nil, err
	}
	if in.ForbiddenPhrases, err = r.optStrings(FieldForbiddenPhrases); err != nil {
		return nil, err
	}

	if in.PriceMin, err = r.optPrice(FieldPriceMin); err != nil {
		return nil, err
	}
	if in.PriceMax, err = r.optPrice(FieldPriceMax); err != nil {
		return nil, err
	}

	if r.Has(FieldItemSpecifics) {
		obj, ok := r.Object(FieldItemSpecifics)
		if !ok {
			return nil, fieldError(FieldItemSpecifics, "must be an object")
		}
		specifics := make(map[string]string, len(obj))
		for k, v := range obj {
			s, ok := v.(string)
			if !ok {
				return nil, fieldError(FieldItemSpecifics+"."+k, "must be a string")
			}
			specifics[k] = s
		}
		in.ItemSpecifics = specifics
	}

	if r.Has(FieldImageRules) {
		obj, ok := r.Object(FieldImageRules)
		if !ok {
			return nil, fieldError(FieldImageRules, "must be an object")
		}
		rules := ImageRules{MustInclude: []string{}}
		if v, present := obj[FieldRequireMinCount]; present && v != nil {
			n, ok := toFloat(v)
			if !ok || n < 0 || n > MaxRequireMinCount || n != math.Trunc(n) {
				return nil, fieldError(FieldImageRules+"."+FieldRequireMinCount, "must be a non-negative integer")
			}
			rules.RequireMinCount = int(n)
		}
		if v, present := obj[FieldMustInclude]; present && v != nil {
			patterns, ok := toStrings(v)
			if !ok {
				return nil, fieldError(FieldImageRules+"."+FieldMustInclude, "must be a list of strings")
			}
			rules.MustInclude = patterns
		}
		in.ImageRules = &rules
	}

	if r.Has(FieldPolicyGate) {
		obj, ok := r.Object(FieldPolicyGate)
		if !ok {
			return nil, fieldError(FieldPolicyGate, "must be an object")
		}
		// A non-boolean flag is only a warning; it is stored as false.
		docs, _ := obj[FieldRequiresAuthorizationDocs].(bool)
		in.PolicyGate = &PolicyGate{RequiresAuthorizationDocs: docs}
	}

	return in, nil
}

func (r Record) optString(key string) (*string, error) {
	if !r.Has(key) {
		return nil, nil
	}
	s, ok := r.String(key)
	if !ok {
		return nil, fieldError(key, "must be a string")
	}
	return &s, nil
}

func (r Record) optStrings(key string) ([]string, error) {
	if !r.Has(key) {
		return nil, nil
	}
	s, ok := r.Strings(key)
	if !ok {
		return nil, fieldError(key, "must be a list of strings")
	}
	if s == nil {
		s = []string{}
	}
	return s, nil
}

func (r Record) optPrice(key string) (*decimal.Decimal, error) {
	if !r.Has(key) {
		return nil, nil
	}
	f, ok := r.Number(key)
	if !ok || !IsFinite(f) {
		return nil, fieldError(key, "must be a number")
	}
	d := decimal.NewFromFloat(f)
	return &d, nil
}

func fieldError(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidField, field, reason)
}

// NewPlaybook builds a version 1 playbook, applying creation defaults for
// every field the input omits.
func (in *PlaybookInput) NewPlaybook(categoryID *uuid.UUID, now time.Time) *Playbook {
	pb := &Playbook{
		ID:               uuid.New(),
		ProductRef:       ProductRefForSKU(in.SKU),
		SKU:              in.SKU,
		SKUPrefix:        cloneStringPtr(in.SKUPrefix),
		Version:          1,
		Tags:             orEmpty(in.Tags),
		IsActive:         in.IsActive == nil || *in.IsActive,
		Subtitle:         cloneStringPtr(in.Subtitle),
		Bullets:          orEmpty(in.Bullets),
		ItemSpecifics:    cloneStringMap(in.ItemSpecifics),
		ForbiddenPhrases: orEmpty(in.ForbiddenPhrases),
		PriceMin:         DefaultPriceMin,
		PriceMax:         DefaultPriceMax,
		ShippingProfile:  DefaultShippingProfile,
		ReturnsProfile:   DefaultReturnsProfile,
		ImageRules:       ImageRules{RequireMinCount: DefaultRequireMinCount, MustInclude: []string{}},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if categoryID != nil {
		id := *categoryID
		pb.CategoryID = &id
	}
	if pb.ItemSpecifics == nil {
		pb.ItemSpecifics = map[string]string{}
	}
	if in.TitleTemplate != nil {
		pb.TitleTemplate = *in.TitleTemplate
	}
	if in.PriceMin != nil {
		pb.PriceMin = *in.PriceMin
	}
	if in.PriceMax != nil {
		pb.PriceMax = *in.PriceMax
	}
	if in.ShippingProfile != nil {
		pb.ShippingProfile = *in.ShippingProfile
	}
	if in.ReturnsProfile != nil {
		pb.ReturnsProfile = *in.ReturnsProfile
	}
	if in.ImageRules != nil {
		pb.ImageRules = in.ImageRules.clone()
	}
	if in.PolicyGate != nil {
		pb.PolicyGate = *in.PolicyGate
	}
	return pb
}

// Patch returns the update carrying only the submitted fields.
func (in *PlaybookInput) Patch(categoryID *uuid.UUID) *PlaybookPatch {
	p := &PlaybookPatch{
		SKUPrefix:        cloneStringPtr(in.SKUPrefix),
		Tags:             cloneStrings(in.Tags),
		IsActive:         in.IsActive,
		TitleTemplate:    cloneStringPtr(in.TitleTemplate),
		Subtitle:         cloneStringPtr(in.Subtitle),
		Bullets:          cloneStrings(in.Bullets),
		ItemSpecifics:    cloneStringMap(in.ItemSpecifics),
		ForbiddenPhrases: cloneStrings(in.ForbiddenPhrases),
		PriceMin:         in.PriceMin,
		PriceMax:         in.PriceMax,
		ShippingProfile:  cloneStringPtr(in.ShippingProfile),
		ReturnsProfile:   cloneStringPtr(in.ReturnsProfile),
	}
	if categoryID != nil {
		id := *categoryID
		p.CategoryID = &id
	}
	if in.ImageRules != nil {
		rules := in.ImageRules.clone()
		p.ImageRules = &rules
	}
	if in.PolicyGate != nil {
		gate := *in.PolicyGate
		p.PolicyGate = &gate
	}
	return p
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return cloneStrings(s)
}
