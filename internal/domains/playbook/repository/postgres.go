package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	categoryModel "playbook-pipeline/internal/domains/category/model"
	"playbook-pipeline/internal/domains/playbook/model"
	"playbook-pipeline/internal/shared/utils"
	"playbook-pipeline/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectPlaybook = `
	SELECT p.id, p.product_ref, p.sku, p.sku_prefix, p.category_id, c.name,
	       p.tags, p.is_active, p.title_template, p.subtitle, p.bullets,
	       p.item_specifics, p.forbidden_phrases, p.price_min, p.price_max,
	       p.shipping_profile, p.returns_profile, p.image_rules, p.policy_gate,
	       p.version, p.created_at, p.updated_at
	FROM playbooks p
	LEFT JOIN categories c ON c.id = p.category_id`

// ============================================
// READS
// ============================================

func (r *postgresRepository) FindPlaybooks(ctx context.Context, filter model.PlaybookFilter, skip, take int) ([]model.Playbook, error) {
	where, args := buildWhereClause(filter)
	query := fmt.Sprintf("%s %s ORDER BY p.created_at DESC, p.id LIMIT $%d OFFSET $%d",
		selectPlaybook, where, len(args)+1, len(args)+2)
	args = append(args, take, skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playbooks: %w", err)
	}
	defer rows.Close()

	playbooks := make([]model.Playbook, 0, take)
	for rows.Next() {
		pb, err := scanPlaybook(rows)
		if err != nil {
			return nil, err
		}
		playbooks = append(playbooks, *pb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return playbooks, nil
}

func (r *postgresRepository) CountPlaybooks(ctx context.Context, filter model.PlaybookFilter) (int, error) {
	where, args := buildWhereClause(filter)
	query := "SELECT COUNT(*) FROM playbooks p LEFT JOIN categories c ON c.id = p.category_id " + where

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count playbooks: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) FindPlaybookBySKU(ctx context.Context, sku string) (*model.Playbook, error) {
	return findPlaybook(ctx, r.pool, "p.sku = $1", sku)
}

func (r *postgresRepository) FindExistingSKUs(ctx context.Context, skus []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(skus) == 0 {
		return existing, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT sku FROM playbooks WHERE sku = ANY($1)`, pq.Array(skus))
	if err != nil {
		return nil, fmt.Errorf("failed to check existing skus: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("failed to scan sku: %w", err)
		}
		existing[sku] = true
	}
	return existing, rows.Err()
}

func (r *postgresRepository) ListVersions(ctx context.Context, playbookID uuid.UUID) ([]model.PlaybookVersion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, playbook_id, version, data, created_by, created_at
		FROM playbook_versions
		WHERE playbook_id = $1
		ORDER BY version DESC, created_at DESC`, playbookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playbook versions: %w", err)
	}
	defer rows.Close()

	versions := make([]model.PlaybookVersion, 0)
	for rows.Next() {
		var v model.PlaybookVersion
		var data []byte
		if err := rows.Scan(&v.ID, &v.PlaybookID, &v.Version, &data, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playbook version: %w", err)
		}
		if err := json.Unmarshal(data, &v.Data); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", v.ID, err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *postgresRepository) WithTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&postgresTx{q: tx})
	})
}

// ============================================
// WRITES (inside a transaction)
// ============================================

type postgresTx struct {
	q querier
}

func (t *postgresTx) UpsertCategory(ctx context.Context, name string) (*categoryModel.Category, bool, error) {
	fresh := categoryModel.NewCategory(name)

	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO categories (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, created_at, updated_at, (xmax = 0) AS inserted`

	var cat categoryModel.Category
	var inserted bool
	err := t.q.QueryRow(ctx, query, fresh.ID, fresh.Name, fresh.Slug).
		Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt, &cat.UpdatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert category %q: %w", name, err)
	}
	return &cat, inserted, nil
}

func (t *postgresTx) UpsertPlaybook(ctx context.Context, create *model.Playbook, patch *model.PlaybookPatch) (*model.Playbook, bool, error) {
	if patch == nil {
		patch = &model.PlaybookPatch{}
	}

	createArgs, err := insertArgs(create)
	if err != nil {
		return nil, false, err
	}
	patchArgs, err := updateArgs(patch)
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO playbooks (
			id, product_ref, sku, sku_prefix, category_id, tags, is_active,
			title_template, subtitle, bullets, item_specifics, forbidden_phrases,
			price_min, price_max, shipping_profile, returns_profile, image_rules,
			policy_gate, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, 1, NOW(), NOW()
		)
		ON CONFLICT (sku) DO UPDATE SET
			sku_prefix        = COALESCE($19::text, playbooks.sku_prefix),
			category_id       = COALESCE($20::uuid, playbooks.category_id),
			tags              = COALESCE($21::text[], playbooks.tags),
			is_active         = COALESCE($22::boolean, playbooks.is_active),
			title_template    = COALESCE($23::text, playbooks.title_template),
			subtitle          = COALESCE($24::text, playbooks.subtitle),
			bullets           = COALESCE($25::text[], playbooks.bullets),
			item_specifics    = COALESCE($26::jsonb, playbooks.item_specifics),
			forbidden_phrases = COALESCE($27::text[], playbooks.forbidden_phrases),
			price_min         = COALESCE($28::numeric, playbooks.price_min),
			price_max         = COALESCE($29::numeric, playbooks.price_max),
			shipping_profile  = COALESCE($30::text, playbooks.shipping_profile),
			returns_profile   = COALESCE($31::text, playbooks.returns_profile),
			image_rules       = COALESCE($32::jsonb, playbooks.image_rules),
			policy_gate       = COALESCE($33::jsonb, playbooks.policy_gate),
			version           = playbooks.version + 1,
			updated_at        = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var id uuid.UUID
	var inserted bool
	args := append(createArgs, patchArgs...)
	if err := t.q.QueryRow(ctx, query, args...).Scan(&id, &inserted); err != nil {
		if isPriceRangeViolation(err) {
			return nil, false, fmt.Errorf("%w: sku %s", model.ErrPriceRange, create.SKU)
		}
		return nil, false, fmt.Errorf("failed to upsert playbook %s: %w", create.SKU, err)
	}

	pb, err := findPlaybook(ctx, t.q, "p.id = $1", id)
	if err != nil {
		return nil, false, err
	}
	return pb, inserted, nil
}

func (t *postgresTx) CreateVersion(ctx context.Context, v *model.PlaybookVersion) error {
	data, err := json.Marshal(v.Data)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = t.q.Exec(ctx, `
		INSERT INTO playbook_versions (id, playbook_id, version, data, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.PlaybookID, v.Version, data, v.CreatedBy, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create playbook version: %w", err)
	}
	return nil
}

// ============================================
// HELPERS
// ============================================

func buildWhereClause(filter model.PlaybookFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.SKUContains != "" {
		args = append(args, utils.ContainsPattern(filter.SKUContains))
		conditions = append(conditions, fmt.Sprintf("p.sku ILIKE $%d", len(args)))
	}
	if filter.CategoryNameContains != "" {
		args = append(args, utils.ContainsPattern(filter.CategoryNameContains))
		conditions = append(conditions, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(p.tags)", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conditions = append(conditions, fmt.Sprintf("p.is_active = $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + utils.JoinWithAnd(conditions), args
}

func findPlaybook(ctx context.Context, q querier, cond string, arg any) (*model.Playbook, error) {
	pb, err := scanPlaybook(q.QueryRow(ctx, selectPlaybook+" WHERE "+cond, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPlaybookNotFound
	}
	return pb, err
}

func scanPlaybook(row pgx.Row) (*model.Playbook, error) {
	var pb model.Playbook
	var itemSpecifics, imageRules, policyGate []byte

	err := row.Scan(
		&pb.ID, &pb.ProductRef, &pb.SKU, &pb.SKUPrefix, &pb.CategoryID, &pb.CategoryName,
		&pb.Tags, &pb.IsActive, &pb.TitleTemplate, &pb.Subtitle, &pb.Bullets,
		&itemSpecifics, &pb.ForbiddenPhrases, &pb.PriceMin, &pb.PriceMax,
		&pb.ShippingProfile, &pb.ReturnsProfile, &imageRules, &policyGate,
		&pb.Version, &pb.CreatedAt, &pb.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playbook: %w", err)
	}

	if err := unmarshalJSONB(itemSpecifics, &pb.ItemSpecifics); err != nil {
		return nil, fmt.Errorf("playbook %s item_specifics: %w", pb.SKU, err)
	}
	if err := unmarshalJSONB(imageRules, &pb.ImageRules); err != nil {
		return nil, fmt.Errorf("playbook %s image_rules: %w", pb.SKU, err)
	}
	if err := unmarshalJSONB(policyGate, &pb.PolicyGate); err != nil {
		return nil, fmt.Errorf("playbook %s policy_gate: %w", pb.SKU, err)
	}
	if pb.ImageRules.MustInclude == nil {
		pb.ImageRules.MustInclude = []string{}
	}
	return &pb, nil
}

func unmarshalJSONB(data []byte, dest any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func insertArgs(pb *model.Playbook) ([]any, error) {
	itemSpecifics, err := json.Marshal(pb.ItemSpecifics)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item specifics: %w", err)
	}
	imageRules, err := json.Marshal(pb.ImageRules)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image rules: %w", err)
	}
	policyGate, err := json.Marshal(pb.PolicyGate)
	if err != nil {
		return nil, fmt.Errorf("failed to encode policy gate: %w", err)
	}

	return []any{
		pb.ID, pb.ProductRef, pb.SKU, pb.SKUPrefix, pb.CategoryID, pq.Array(pb.Tags), pb.IsActive,
		pb.TitleTemplate, pb.Subtitle, pq.Array(pb.Bullets), itemSpecifics, pq.Array(pb.ForbiddenPhrases),
		pb.PriceMin, pb.PriceMax, pb.ShippingProfile, pb.ReturnsProfile, imageRules, policyGate,
	}, nil
}

// updateArgs maps absent patch fields to NULL so COALESCE keeps the stored value.
func updateArgs(p *model.PlaybookPatch) ([]any, error) {
	itemSpecifics, err := optionalJSON(p.ItemSpecifics != nil, p.ItemSpecifics)
	if err != nil {
		return nil, err
	}
	imageRules, err := optionalJSON(p.ImageRules != nil, p.ImageRules)
	if err != nil {
		return nil, err
	}
	policyGate, err := optionalJSON(p.PolicyGate != nil, p.PolicyGate)
	if err != nil {
		return nil, err
	}

	return []any{
		p.SKUPrefix, p.CategoryID, pq.Array(p.Tags), p.IsActive, p.TitleTemplate, p.Subtitle,
		pq.Array(p.Bullets), itemSpecifics, pq.Array(p.ForbiddenPhrases), p.PriceMin, p.PriceMax,
		p.ShippingProfile, p.ReturnsProfile, imageRules, policyGate,
	}, nil
}

func optionalJSON(present bool, v any) ([]byte, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch field: %w", err)
	}
	return b, nil
}

// checkViolation is the SQLSTATE of a failed CHECK constraint
const checkViolation = "23514"

func isPriceRangeViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == checkViolation &&
		pgErr.ConstraintName == "playbooks_price_range"
}
