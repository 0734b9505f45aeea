package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/infrastructure/persistence/models"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/repo"
)

const standSelectColumns = `
	s.id, s.compartment_id, c.code, c.name, s.code, s.name, s.type,
	s.total_area_ha::text, s.plantable_area_ha::text, s.rotation_phase,
	s.latitude, s.longitude, s.is_active, s.created_at, s.updated_at`

const standFromClause = `
	FROM stands s
	JOIN compartments c ON c.id = s.compartment_id
	JOIN estates e ON e.id = c.estate_id`

// standScopeSubquery restricts writes to stands reachable from the
// caller's organization through the parent chain.
const standScopeSubquery = `
	SELECT s2.id FROM stands s2
	JOIN compartments c2 ON c2.id = s2.compartment_id
	JOIN estates e2 ON e2.id = c2.estate_id
	WHERE e2.organization_id = $%d`

type StandRepository struct{}

func NewStandRepository() stand.Repository {
	return &StandRepository{}
}

func buildStandFilters(scope composables.TenantScope, params *stand.FindParams) ([]string, []any) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		where = append(where, fmt.Sprintf("e.organization_id = $%d", len(args)))
	}
	if params != nil {
		if params.CompartmentID != nil {
			args = append(args, *params.CompartmentID)
			where = append(where, fmt.Sprintf("s.compartment_id = $%d", len(args)))
		}
		if search := strings.TrimSpace(params.Search); search != "" {
			args = append(args, "%"+search+"%")
			where = append(where, fmt.Sprintf("(s.code ILIKE $%d OR s.name ILIKE $%d)", len(args), len(args)))
		}
	}
	if len(where) == 0 {
		where = append(where, "1 = 1")
	}
	return where, args
}

func scanStand(row pgx.Row) (stand.Stand, error) {
	var dbRow models.Stand
	if err := row.Scan(
		&dbRow.ID,
		&dbRow.CompartmentID,
		&dbRow.CompartmentCode,
		&dbRow.CompartmentName,
		&dbRow.Code,
		&dbRow.Name,
		&dbRow.Type,
		&dbRow.TotalAreaHa,
		&dbRow.PlantableAreaHa,
		&dbRow.RotationPhase,
		&dbRow.Latitude,
		&dbRow.Longitude,
		&dbRow.IsActive,
		&dbRow.CreatedAt,
		&dbRow.UpdatedAt,
	); err != nil {
		return stand.Stand{}, err
	}
	return toDomainStand(&dbRow)
}

func (r *StandRepository) GetPaginated(ctx context.Context, params *stand.FindParams) ([]stand.Stand, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildStandFilters(scope, params)
	query := `
		SELECT ` + standSelectColumns + standFromClause + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY c.code, s.code
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []stand.Stand
	for rows.Next() {
		entity, err := scanStand(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *StandRepository) Count(ctx context.Context, params *stand.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildStandFilters(scope, params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*)`+standFromClause+`
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StandRepository) GetByID(ctx context.Context, id uuid.UUID) (stand.Stand, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return stand.Stand{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return stand.Stand{}, err
	}

	where, args := buildStandFilters(scope, nil)
	args = append(args, id)
	where = append(where, fmt.Sprintf("s.id = $%d", len(args)))

	entity, err := scanStand(tx.QueryRow(ctx, `
		SELECT `+standSelectColumns+standFromClause+`
		WHERE `+strings.Join(where, " AND "),
		args...,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stand.Stand{}, stand.ErrNotFound
		}
		return stand.Stand{}, err
	}
	return entity, nil
}

func (r *StandRepository) CountByCompartment(ctx context.Context, compartmentID uuid.UUID) (int64, error) {
	return r.Count(ctx, &stand.FindParams{CompartmentID: &compartmentID})
}

func (r *StandRepository) Create(ctx context.Context, entity stand.Stand) (stand.Stand, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return stand.Stand{}, err
	}

	dbRow := toDBStand(entity)
	if err := tx.QueryRow(ctx, `
		INSERT INTO stands (
			id, compartment_id, code, name, type, total_area_ha,
			plantable_area_ha, rotation_phase, latitude, longitude,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		dbRow.ID,
		dbRow.CompartmentID,
		dbRow.Code,
		dbRow.Name,
		dbRow.Type,
		dbRow.TotalAreaHa,
		dbRow.PlantableAreaHa,
		dbRow.RotationPhase,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return stand.Stand{}, translateDBError(err, stand.ErrDuplicateCode, stand.ErrParentNotFound)
	}
	return entity, nil
}

func (r *StandRepository) Update(ctx context.Context, entity stand.Stand) (stand.Stand, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return stand.Stand{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return stand.Stand{}, err
	}

	dbRow := toDBStand(entity)
	args := []any{
		dbRow.Name,
		dbRow.Type,
		dbRow.TotalAreaHa,
		dbRow.PlantableAreaHa,
		dbRow.RotationPhase,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.UpdatedAt,
		dbRow.ID,
	}
	scopeCond := ""
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		scopeCond = " AND s.id IN (" + fmt.Sprintf(standScopeSubquery, len(args)) + ")"
	}

	tag, err := tx.Exec(ctx, `
		UPDATE stands s SET
			name = $1, type = $2, total_area_ha = $3, plantable_area_ha = $4,
			rotation_phase = $5, latitude = $6, longitude = $7,
			is_active = $8, updated_at = $9
		WHERE s.id = $10`+scopeCond,
		args...,
	)
	if err != nil {
		return stand.Stand{}, translateDBError(err, stand.ErrDuplicateCode, nil)
	}
	if tag.RowsAffected() == 0 {
		return stand.Stand{}, stand.ErrNotFound
	}
	return entity, nil
}

func (r *StandRepository) Delete(ctx context.Context, id uuid.UUID) error {
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
		scopeCond = " AND s.id IN (" + fmt.Sprintf(standScopeSubquery, len(args)) + ")"
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM stands s
		WHERE s.id = $1`+scopeCond,
		args...,
	)
	if err != nil {
		return translateDBError(err, nil, stand.ErrHasDependents)
	}
	if tag.RowsAffected() == 0 {
		return stand.ErrNotFound
	}
	return nil
}
