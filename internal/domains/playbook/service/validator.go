package service

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"playbook-pipeline/internal/domains/playbook/model"
)

// Validator checks decoded batches. It never touches persisted state, so one
// instance is safe for concurrent use.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// optional string-typed fields and their display names
var stringFields = []struct {
	key   string
	label string
}{
	{model.FieldSKUPrefix, "SKU prefix"},
	{model.FieldCategory, "Category"},
	{model.FieldSubtitle, "Subtitle"},
	{model.FieldShippingProfile, "Shipping profile"},
	{model.FieldReturnsProfile, "Returns profile"},
}

var listFields = []struct {
	key   string
	label string
}{
	{model.FieldBullets, "Bullets"},
	{model.FieldTags, "Tags"},
	{model.FieldForbiddenPhrases, "Forbidden phrases"},
}

// Validate returns the diagnostics report for records. Row numbers are
// 1-based in input order.
func (v *Validator) Validate(records []model.Record) *model.ValidationReport {
	var errs, warnings []string

	for i, rec := range records {
		e, w := v.validateRecord(i+1, rec)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}

	if dups := duplicateSKUs(records); len(dups) > 0 {
		errs = append(errs, fmt.Sprintf("Duplicate SKUs found: %s", strings.Join(dups, ", ")))
	}

	return model.NewValidationReport(len(records), errs, warnings)
}

func (v *Validator) validateRecord(row int, rec model.Record) (errs, warnings []string) {
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf("Row %d: ", row)+fmt.Sprintf(format, args...))
	}
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf("Row %d: ", row)+fmt.Sprintf(format, args...))
	}

	// 1. Required fields
	requireString(rec, model.FieldSKU, "SKU", fail)
	requireString(rec, model.FieldTitleTemplate, "Title template", fail)

	// 2. Scalar shapes
	for _, f := range stringFields {
		if rec.Has(f.key) {
			if _, ok := rec.String(f.key); !ok {
				fail("%s must be a string", f.label)
			}
		}
	}
	if rec.Has(model.FieldIsActive) {
		if _, ok := rec.Bool(model.FieldIsActive); !ok {
			fail("isActive must be a boolean")
		}
	}

	// 3. Prices
	lo, loOK := price(rec, model.FieldPriceMin, "Price min", fail)
	hi, hiOK := price(rec, model.FieldPriceMax, "Price max", fail)
	if loOK && hiOK && lo > hi {
		fail("Price min (%s) cannot be greater than price max (%s)", model.FormatNumber(lo), model.FormatNumber(hi))
	}

	// 4. Sequences
	for _, f := range listFields {
		if !rec.Has(f.key) {
			continue
		}
		if !rec.IsSequence(f.key) {
			fail("%s must be an array", f.label)
		} else if _, ok := rec.Strings(f.key); !ok {
			fail("%s must contain only strings", f.label)
		}
	}

	// 5. Structured fields
	if rec.Has(model.FieldItemSpecifics) {
		obj, ok := rec.Object(model.FieldItemSpecifics)
		if !ok {
			fail("Item specifics must be an object")
		} else {
			for _, key := range slices.Sorted(maps.Keys(obj)) {
				if _, isString := obj[key].(string); !isString {
					fail("Item specifics value for %q must be a string", key)
				}
			}
		}
	}

	if rec.Has(model.FieldImageRules) {
		rules, ok := rec.Object(model.FieldImageRules)
		if !ok {
			fail("Image rules must be an object")
		} else {
			count, present := rules[model.FieldRequireMinCount]
			n, isNum := model.Record(rules).Number(model.FieldRequireMinCount)
			switch {
			case !present || count == nil:
				warn("Image rules should require at least 1 image")
			case !isNum || n < 0 || n > model.MaxRequireMinCount || n != math.Trunc(n):
				fail("Image rules requireMinCount must be a non-negative integer")
			case n < 1:
				warn("Image rules should require at least 1 image")
			}
			if model.Record(rules).Has(model.FieldMustInclude) {
				if _, ok := model.Record(rules).Strings(model.FieldMustInclude); !ok {
					fail("Image rules mustInclude must be an array of strings")
				}
			}
		}
	}

	if rec.Has(model.FieldPolicyGate) {
		gate, ok := rec.Object(model.FieldPolicyGate)
		if !ok {
			fail("Policy gate must be an object")
		} else if model.Record(gate).Has(model.FieldRequiresAuthorizationDocs) {
			if _, isBool := gate[model.FieldRequiresAuthorizationDocs].(bool); !isBool {
				warn("Policy gate requiresAuthorizationDocs should be boolean")
			}
		}
	}

	return errs, warnings
}

func requireString(rec model.Record, key, label string, fail func(string, ...any)) {
	if !rec.Has(key) {
		fail("%s is required", label)
		return
	}
	s, ok := rec.String(key)
	if !ok {
		fail("%s must be a string", label)
		return
	}
	if s == "" {
		fail("%s is required", label)
	}
}

func price(rec model.Record, key, label string, fail func(string, ...any)) (float64, bool) {
	if !rec.Has(key) {
		return 0, false
	}
	f, ok := rec.Number(key)
	if !ok || !model.IsFinite(f) {
		fail("%s must be a number", label)
		return 0, false
	}
	return f, true
}

// duplicateSKUs lists every SKU seen more than once, in order of first repeat.
func duplicateSKUs(records []model.Record) []string {
	seen := make(map[string]bool, len(records))
	reported := make(map[string]bool)
	var dups []string

	for _, rec := range records {
		sku, ok := rec.String(model.FieldSKU)
		if !ok || sku == "" {
			continue
		}
		if seen[sku] && !reported[sku] {
			dups = append(dups, sku)
			reported[sku] = true
		}
		seen[sku] = true
	}
	return dups
}
