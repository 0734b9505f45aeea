package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/infrastructure/persistence/models"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/repo"
)

const compartmentSelectColumns = `
	c.id, c.estate_id, e.code, e.name, c.code, c.name, c.type,
	c.total_area_ha::text, c.latitude, c.longitude, c.is_active,
	c.created_at, c.updated_at`

const compartmentFromClause = `
	FROM compartments c
	JOIN estates e ON e.id = c.estate_id`

type CompartmentRepository struct{}

func NewCompartmentRepository() compartment.Repository {
	return &CompartmentRepository{}
}

// Tenant scope joins through the owning estate; compartments carry no
// organization column of their own.
func buildCompartmentFilters(scope composables.TenantScope, params *compartment.FindParams) ([]string, []any) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		where = append(where, fmt.Sprintf("e.organization_id = $%d", len(args)))
	}
	if params != nil {
		if params.EstateID != nil {
			args = append(args, *params.EstateID)
			where = append(where, fmt.Sprintf("c.estate_id = $%d", len(args)))
		}
		if search := strings.TrimSpace(params.Search); search != "" {
			args = append(args, "%"+search+"%")
			where = append(where, fmt.Sprintf("(c.code ILIKE $%d OR c.name ILIKE $%d)", len(args), len(args)))
		}
	}
	if len(where) == 0 {
		where = append(where, "1 = 1")
	}
	return where, args
}

func scanCompartment(row pgx.Row) (compartment.Compartment, error) {
	var dbRow models.Compartment
	if err := row.Scan(
		&dbRow.ID,
		&dbRow.EstateID,
		&dbRow.EstateCode,
		&dbRow.EstateName,
		&dbRow.Code,
		&dbRow.Name,
		&dbRow.Type,
		&dbRow.TotalAreaHa,
		&dbRow.Latitude,
		&dbRow.Longitude,
		&dbRow.IsActive,
		&dbRow.CreatedAt,
		&dbRow.UpdatedAt,
	); err != nil {
		return compartment.Compartment{}, err
	}
	return toDomainCompartment(&dbRow)
}

func (r *CompartmentRepository) GetPaginated(ctx context.Context, params *compartment.FindParams) ([]compartment.Compartment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildCompartmentFilters(scope, params)
	query := `
		SELECT ` + compartmentSelectColumns + compartmentFromClause + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.code, c.code
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []compartment.Compartment
	for rows.Next() {
		entity, err := scanCompartment(rows)
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

func (r *CompartmentRepository) Count(ctx context.Context, params *compartment.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildCompartmentFilters(scope, params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*)`+compartmentFromClause+`
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CompartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (compartment.Compartment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return compartment.Compartment{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return compartment.Compartment{}, err
	}

	where, args := buildCompartmentFilters(scope, nil)
	args = append(args, id)
	where = append(where, fmt.Sprintf("c.id = $%d", len(args)))

	entity, err := scanCompartment(tx.QueryRow(ctx, `
		SELECT `+compartmentSelectColumns+compartmentFromClause+`
		WHERE `+strings.Join(where, " AND "),
		args...,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compartment.Compartment{}, compartment.ErrNotFound
		}
		return compartment.Compartment{}, err
	}
	return entity, nil
}

func (r *CompartmentRepository) CountByEstate(ctx context.Context, estateID uuid.UUID) (int64, error) {
	return r.Count(ctx, &compartment.FindParams{EstateID: &estateID})
}

func (r *CompartmentRepository) Create(ctx context.Context, entity compartment.Compartment) (compartment.Compartment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return compartment.Compartment{}, err
	}

	dbRow := toDBCompartment(entity)
	if err := tx.QueryRow(ctx, `
		INSERT INTO compartments (
			id, estate_id, code, name, type, total_area_ha,
			latitude, longitude, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		dbRow.ID,
		dbRow.EstateID,
		dbRow.Code,
		dbRow.Name,
		dbRow.Type,
		dbRow.TotalAreaHa,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return compartment.Compartment{}, translateDBError(err, compartment.ErrDuplicateCode, compartment.ErrParentNotFound)
	}
	return entity, nil
}

func (r *CompartmentRepository) Update(ctx context.Context, entity compartment.Compartment) (compartment.Compartment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return compartment.Compartment{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return compartment.Compartment{}, err
	}

	args := make([]any, 0, 9)
	dbRow := toDBCompartment(entity)
	args = append(args,
		dbRow.Name,
		dbRow.Type,
		dbRow.TotalAreaHa,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.UpdatedAt,
		dbRow.ID,
	)
	scopeCond := ""
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		scopeCond = fmt.Sprintf(` AND c.estate_id IN (
			SELECT id FROM estates WHERE organization_id = $%d
		)`, len(args))
	}

	tag, err := tx.Exec(ctx, `
		UPDATE compartments c SET
			name = $1, type = $2, total_area_ha = $3, latitude = $4,
			longitude = $5, is_active = $6, updated_at = $7
		WHERE c.id = $8`+scopeCond,
		args...,
	)
	if err != nil {
		return compartment.Compartment{}, translateDBError(err, compartment.ErrDuplicateCode, nil)
	}
	if tag.RowsAffected() == 0 {
		return compartment.Compartment{}, compartment.ErrNotFound
	}
	return entity, nil
}

func (r *CompartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
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
		scopeCond = fmt.Sprintf(` AND c.estate_id IN (
			SELECT id FROM estates WHERE organization_id = $%d
		)`, len(args))
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM compartments c
		WHERE c.id = $1`+scopeCond,
		args...,
	)
	if err != nil {
		return translateDBError(err, nil, compartment.ErrHasDependents)
	}
	if tag.RowsAffected() == 0 {
		return compartment.ErrNotFound
	}
	return nil
}
