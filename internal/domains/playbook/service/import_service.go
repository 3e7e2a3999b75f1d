package service

import (
	"context"
	"fmt"

	"playbook-pipeline/internal/domains/playbook/format"
	"playbook-pipeline/internal/domains/playbook/model"
	"playbook-pipeline/internal/domains/playbook/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ========================================
// VALIDATE
// ========================================

// Validate decodes raw and reports diagnostics without writing anything.
// Rows whose SKU is already stored get a warning; they would be updated.
func (s *PlaybookService) Validate(ctx context.Context, access model.Access, raw, formatName string) (*model.ValidationReport, error) {
	if !access.Allowed {
		return nil, model.ErrForbidden
	}

	records, err := s.decode(raw, formatName)
	if err != nil {
		return nil, err
	}

	report := s.validator.Validate(records)

	skus := distinctSKUs(records)
	existing, err := s.repo.FindExistingSKUs(ctx, skus)
	if err != nil {
		return nil, fmt.Errorf("check existing skus: %w", err)
	}
	for i, rec := range records {
		if sku, ok := rec.String(model.FieldSKU); ok && existing[sku] {
			report.AddWarning(fmt.Sprintf("Row %d: SKU %s already exists and will be updated", i+1, sku))
		}
	}

	return report, nil
}

// ========================================
// IMPORT
// ========================================

// Import validates the whole batch, then upserts records one at a time in
// input order. Each record commits on its own; the first failure stops the
// batch and the returned *model.PersistenceError says how many committed.
func (s *PlaybookService) Import(ctx context.Context, access model.Access, raw, formatName string) (*model.ImportResult, error) {
	if !access.Allowed {
		return nil, model.ErrForbidden
	}

	records, err := s.decode(raw, formatName)
	if err != nil {
		return nil, err
	}

	report := s.validator.Validate(records)
	if !report.Valid {
		return nil, &model.ValidationError{Errors: report.Errors}
	}

	actor := access.Actor
	if actor == "" {
		actor = s.cfg.DefaultActor
	}

	log.Info().
		Str("format", formatName).
		Str("actor", actor).
		Int("total", len(records)).
		Msg("[ImportService] Import started")

	imported := 0
	for i, rec := range records {
		if err := s.importRecord(ctx, rec, actor); err != nil {
			sku, _ := rec.String(model.FieldSKU)
			log.Error().
				Err(err).
				Int("row", i+1).
				Str("sku", sku).
				Int("imported", imported).
				Int("total", len(records)).
				Msg("[ImportService] Import aborted")

			s.afterImport(ctx, imported)
			return nil, &model.PersistenceError{
				Imported: imported,
				Total:    len(records),
				Row:      i + 1,
				SKU:      sku,
				Err:      err,
			}
		}
		imported++
	}

	s.afterImport(ctx, imported)

	log.Info().
		Int("imported", imported).
		Int("total", len(records)).
		Msg("[ImportService] Import completed")

	return &model.ImportResult{Imported: imported, Total: len(records)}, nil
}

// importRecord resolves the category, upserts the playbook and writes the
// snapshot in one transaction.
func (s *PlaybookService) importRecord(ctx context.Context, rec model.Record, actor string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := rec.ToInput()
	if err != nil {
		return fmt.Errorf("convert record: %w", err)
	}

	var (
		result         *model.Playbook
		created        bool
		createdCatName string
	)

	err = s.repo.WithTx(ctx, func(tx repository.TxRepository) error {
		// 1. Resolve category by name
		var categoryID *uuid.UUID
		if in.Category != nil && *in.Category != "" {
			cat, catCreated, err := tx.UpsertCategory(ctx, *in.Category)
			if err != nil {
				return err
			}
			categoryID = &cat.ID
			if catCreated {
				createdCatName = cat.Name
			}
		}

		// 2. Create or merge playbook
		pb, isNew, err := tx.UpsertPlaybook(ctx, in.NewPlaybook(categoryID, s.now()), in.Patch(categoryID))
		if err != nil {
			return err
		}

		// 3. The merged range must hold even when only one bound was submitted
		if err := pb.CheckPriceRange(); err != nil {
			return err
		}

		// 4. Snapshot the submitted record under the new version
		if err := tx.CreateVersion(ctx, model.NewPlaybookVersion(pb, rec, actor, s.now())); err != nil {
			return err
		}

		result, created = pb, isNew
		return nil
	})
	if err != nil {
		return err
	}

	if createdCatName != "" {
		log.Info().Str("category", createdCatName).Msg("[ImportService] Category created")
	}
	log.Debug().
		Str("sku", result.SKU).
		Int("version", result.Version).
		Bool("created", created).
		Msg("[ImportService] Playbook upserted")
	return nil
}

// afterImport refreshes derived catalog state once anything committed.
func (s *PlaybookService) afterImport(ctx context.Context, imported int) {
	if imported == 0 {
		return
	}

	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, catalogCachePattern); err != nil {
			log.Warn().Err(err).Msg("[ImportService] Failed to invalidate catalog cache")
		}
	}

	if s.publisher != nil {
		if err := s.publisher.EnqueueCatalogPublish(ctx); err != nil {
			log.Warn().Err(err).Msg("[ImportService] Failed to enqueue catalog publish")
		}
	}
}

// decode resolves the format and parses raw into records.
func (s *PlaybookService) decode(raw, formatName string) ([]model.Record, error) {
	if raw == "" {
		return nil, model.ErrDataRequired
	}
	if formatName == "" {
		formatName = string(format.JSON)
	}

	f, err := format.Parse(formatName)
	if err != nil {
		return nil, err
	}

	records, err := format.Decode([]byte(raw), f)
	if err != nil {
		return nil, err
	}

	if s.cfg.MaxRows > 0 && len(records) > s.cfg.MaxRows {
		return nil, fmt.Errorf("%w: %d records, limit is %d", model.ErrTooManyRecords, len(records), s.cfg.MaxRows)
	}
	return records, nil
}

func distinctSKUs(records []model.Record) []string {
	seen := make(map[string]bool, len(records))
	skus := make([]string, 0, len(records))
	for _, rec := range records {
		sku, ok := rec.String(model.FieldSKU)
		if !ok || sku == "" || seen[sku] {
			continue
		}
		seen[sku] = true
		skus = append(skus, sku)
	}
	return skus
}
