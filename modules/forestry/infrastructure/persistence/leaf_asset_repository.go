package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/modules/forestry/domain/entities/leafasset"
	"github.com/silvacore/patrimony/modules/forestry/infrastructure/persistence/models"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/repo"
)

const leafAssetFromClause = `
	FROM leaf_assets la
	JOIN stands s ON s.id = la.stand_id
	JOIN compartments c ON c.id = s.compartment_id
	JOIN estates e ON e.id = c.estate_id`

type LeafAssetRepository struct{}

func NewLeafAssetRepository() leafasset.Repository {
	return &LeafAssetRepository{}
}

func buildLeafAssetFilters(scope composables.TenantScope, params *leafasset.FindParams) ([]string, []any) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		where = append(where, fmt.Sprintf("e.organization_id = $%d", len(args)))
	}
	if params != nil && params.StandID != nil {
		args = append(args, *params.StandID)
		where = append(where, fmt.Sprintf("la.stand_id = $%d", len(args)))
	}
	if len(where) == 0 {
		where = append(where, "1 = 1")
	}
	return where, args
}

func (r *LeafAssetRepository) GetPaginated(ctx context.Context, params *leafasset.FindParams) ([]leafasset.LeafAsset, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildLeafAssetFilters(scope, params)
	query := `
		SELECT la.id, la.stand_id, la.biological_asset_key, la.species_code,
		       la.planted_year, la.quantity, la.created_at, la.updated_at` +
		leafAssetFromClause + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY la.biological_asset_key
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []leafasset.LeafAsset
	for rows.Next() {
		var dbRow models.LeafAsset
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.StandID,
			&dbRow.BiologicalAssetKey,
			&dbRow.SpeciesCode,
			&dbRow.PlantedYear,
			&dbRow.Quantity,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, toDomainLeafAsset(&dbRow))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *LeafAssetRepository) Count(ctx context.Context, params *leafasset.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildLeafAssetFilters(scope, params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*)`+leafAssetFromClause+`
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LeafAssetRepository) CountByStand(ctx context.Context, standID uuid.UUID) (int64, error) {
	return r.Count(ctx, &leafasset.FindParams{StandID: &standID})
}

func (r *LeafAssetRepository) UpsertByKey(ctx context.Context, entity leafasset.LeafAsset) (leafasset.LeafAsset, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return leafasset.LeafAsset{}, err
	}

	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO leaf_assets (
			id, stand_id, biological_asset_key, species_code,
			planted_year, quantity, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (stand_id, biological_asset_key) DO UPDATE SET
			species_code = EXCLUDED.species_code,
			planted_year = EXCLUDED.planted_year,
			quantity = EXCLUDED.quantity,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		entity.ID,
		entity.StandID,
		entity.BiologicalAssetKey,
		entity.SpeciesCode,
		entity.PlantedYear,
		entity.Quantity,
	).Scan(&entity.ID, &entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return leafasset.LeafAsset{}, translateDBError(err, nil, leafasset.ErrParentNotFound)
	}
	return entity, nil
}

func (r *LeafAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return err
	}

	args := []any{id}
	scopeCond := ""
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		scopeCond = ` AND la.stand_id IN (
			SELECT s2.id FROM stands s2
			JOIN compartments c2 ON c2.id = s2.compartment_id
			JOIN estates e2 ON e2.id = c2.estate_id
			WHERE e2.organization_id = $2
		)`
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM leaf_assets la
		WHERE la.id = $1`+scopeCond,
		args...,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leafasset.ErrNotFound
	}
	return nil
}
