package service

import (
	"playbook-pipeline/internal/domains/playbook/model"
)

// isoMillis matches the ISO-8601 form browsers produce (millisecond precision, UTC).
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Project renders pb as an export record. Only the full view carries the
// restricted fields; any other view is treated as public. The category is
// flattened to its name.
func Project(pb *model.Playbook, view string) model.Record {
	rec := model.Record{
		model.FieldSKU:             pb.SKU,
		model.FieldSKUPrefix:       optional(pb.SKUPrefix),
		model.FieldCategory:        optional(pb.CategoryName),
		model.FieldTags:            toAnySlice(pb.Tags),
		model.FieldIsActive:        pb.IsActive,
		model.FieldTitleTemplate:   pb.TitleTemplate,
		model.FieldSubtitle:        optional(pb.Subtitle),
		model.FieldBullets:         toAnySlice(pb.Bullets),
		model.FieldItemSpecifics:   toAnyMap(pb.ItemSpecifics),
		model.FieldPriceMin:        pb.PriceMin.InexactFloat64(),
		model.FieldPriceMax:        pb.PriceMax.InexactFloat64(),
		model.FieldShippingProfile: pb.ShippingProfile,
		model.FieldReturnsProfile:  pb.ReturnsProfile,
		model.FieldImageRules: map[string]any{
			model.FieldRequireMinCount: float64(pb.ImageRules.RequireMinCount),
			model.FieldMustInclude:     toAnySlice(pb.ImageRules.MustInclude),
		},
		model.FieldVersion:   pb.Version,
		model.FieldCreatedAt: pb.CreatedAt.UTC().Format(isoMillis),
		model.FieldUpdatedAt: pb.UpdatedAt.UTC().Format(isoMillis),
	}

	if view == model.ViewFull {
		rec[model.FieldForbiddenPhrases] = toAnySlice(pb.ForbiddenPhrases)
		rec[model.FieldPolicyGate] = map[string]any{
			model.FieldRequiresAuthorizationDocs: pb.PolicyGate.RequiresAuthorizationDocs,
		}
	}
	return rec
}

// ProjectCatalogEntry is the public view plus the playbook id.
func ProjectCatalogEntry(pb *model.Playbook) model.Record {
	rec := Project(pb, model.ViewPublic)
	rec[model.FieldID] = pb.ID.String()
	return rec
}

// ColumnsFor returns the export column order of view.
func ColumnsFor(view string) []string {
	if view == model.ViewFull {
		return model.FullColumns
	}
	return model.PublicColumns
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func toAnyMap(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
