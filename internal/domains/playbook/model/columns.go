package model

// FullColumns is the fixed export column order of the administrative view.
// CSV import reads the same header names.
var FullColumns = []string{
	FieldSKU, FieldSKUPrefix, FieldCategory, FieldTags, FieldIsActive,
	FieldTitleTemplate, FieldSubtitle, FieldBullets, FieldItemSpecifics,
	FieldForbiddenPhrases, FieldPriceMin, FieldPriceMax, FieldShippingProfile,
	FieldReturnsProfile, FieldImageRules, FieldPolicyGate, FieldVersion,
	FieldCreatedAt, FieldUpdatedAt,
}

// PublicColumns is FullColumns without the restricted fields.
var PublicColumns = withoutRestricted(FullColumns)

// CatalogColumns is the public catalog projection, which also carries the id.
var CatalogColumns = append([]string{FieldID}, PublicColumns...)

// RestrictedFields never leave the administrative surface.
var RestrictedFields = []string{FieldForbiddenPhrases, FieldPolicyGate}

// IsRestricted reports whether key is one of RestrictedFields.
func IsRestricted(key string) bool {
	for _, f := range RestrictedFields {
		if f == key {
			return true
		}
	}
	return false
}

func withoutRestricted(cols []string) []string {
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !IsRestricted(c) {
			out = append(out, c)
		}
	}
	return out
}
