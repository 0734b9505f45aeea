package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/infrastructure/persistence/models"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/repo"
)

const estateSelectColumns = `
	e.id, e.organization_id, e.code, e.name, e.type, e.legal_status,
	e.total_area_ha::text, e.latitude, e.longitude, e.is_active,
	e.created_at, e.updated_at`

type EstateRepository struct{}

func NewEstateRepository() estate.Repository {
	return &EstateRepository{}
}

// buildEstateFilters emits the tenant predicate first. Privileged scopes
// skip it entirely and see rows across all organizations.
func buildEstateFilters(scope composables.TenantScope, params *estate.FindParams) ([]string, []any) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		where = append(where, fmt.Sprintf("e.organization_id = $%d", len(args)))
	}
	if params != nil {
		if search := strings.TrimSpace(params.Search); search != "" {
			args = append(args, "%"+search+"%")
			where = append(where, fmt.Sprintf("(e.code ILIKE $%d OR e.name ILIKE $%d)", len(args), len(args)))
		}
	}
	if len(where) == 0 {
		where = append(where, "1 = 1")
	}
	return where, args
}

func scanEstate(row pgx.Row) (estate.Estate, error) {
	var dbRow models.Estate
	if err := row.Scan(
		&dbRow.ID,
		&dbRow.OrganizationID,
		&dbRow.Code,
		&dbRow.Name,
		&dbRow.Type,
		&dbRow.LegalStatus,
		&dbRow.TotalAreaHa,
		&dbRow.Latitude,
		&dbRow.Longitude,
		&dbRow.IsActive,
		&dbRow.CreatedAt,
		&dbRow.UpdatedAt,
	); err != nil {
		return estate.Estate{}, err
	}
	return toDomainEstate(&dbRow)
}

func (r *EstateRepository) GetPaginated(ctx context.Context, params *estate.FindParams) ([]estate.Estate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildEstateFilters(scope, params)
	query := `
		SELECT ` + estateSelectColumns + `
		FROM estates e
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY e.code
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []estate.Estate
	for rows.Next() {
		entity, err := scanEstate(rows)
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

func (r *EstateRepository) Count(ctx context.Context, params *estate.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildEstateFilters(scope, params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM estates e
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EstateRepository) GetByID(ctx context.Context, id uuid.UUID) (estate.Estate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return estate.Estate{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return estate.Estate{}, err
	}

	where, args := buildEstateFilters(scope, nil)
	args = append(args, id)
	where = append(where, fmt.Sprintf("e.id = $%d", len(args)))

	entity, err := scanEstate(tx.QueryRow(ctx, `
		SELECT `+estateSelectColumns+`
		FROM estates e
		WHERE `+strings.Join(where, " AND "),
		args...,
	))
	if err != nil {
		// Rows outside the caller's tenant are indistinguishable from
		// rows that do not exist.
		if errors.Is(err, pgx.ErrNoRows) {
			return estate.Estate{}, estate.ErrNotFound
		}
		return estate.Estate{}, err
	}
	return entity, nil
}

func (r *EstateRepository) GetByCode(ctx context.Context, code string) (estate.Estate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return estate.Estate{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return estate.Estate{}, err
	}

	where, args := buildEstateFilters(scope, nil)
	args = append(args, strings.ToUpper(strings.TrimSpace(code)))
	where = append(where, fmt.Sprintf("e.code = $%d", len(args)))

	entity, err := scanEstate(tx.QueryRow(ctx, `
		SELECT `+estateSelectColumns+`
		FROM estates e
		WHERE `+strings.Join(where, " AND "),
		args...,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return estate.Estate{}, estate.ErrNotFound
		}
		return estate.Estate{}, err
	}
	return entity, nil
}

func (r *EstateRepository) Create(ctx context.Context, entity estate.Estate) (estate.Estate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return estate.Estate{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return estate.Estate{}, err
	}

	// Non-privileged callers always write into their own organization no
	// matter what the entity carries.
	if !scope.Privileged {
		orgID := scope.OrganizationID
		entity.OrganizationID = &orgID
	}

	dbRow := toDBEstate(entity)
	if err := tx.QueryRow(ctx, `
		INSERT INTO estates (
			id, organization_id, code, name, type, legal_status,
			total_area_ha, latitude, longitude, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		dbRow.ID,
		dbRow.OrganizationID,
		dbRow.Code,
		dbRow.Name,
		dbRow.Type,
		dbRow.LegalStatus,
		dbRow.TotalAreaHa,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return estate.Estate{}, translateDBError(err, estate.ErrDuplicateCode, nil)
	}
	return entity, nil
}

func (r *EstateRepository) Update(ctx context.Context, entity estate.Estate) (estate.Estate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return estate.Estate{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return estate.Estate{}, err
	}

	where, args := buildEstateFilters(scope, nil)
	dbRow := toDBEstate(entity)
	args = append(args,
		dbRow.Name,
		dbRow.Type,
		dbRow.LegalStatus,
		dbRow.TotalAreaHa,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.UpdatedAt,
	)
	setOffset := len(args) - 8
	args = append(args, dbRow.ID)
	where = append(where, fmt.Sprintf("e.id = $%d", len(args)))

	tag, err := tx.Exec(ctx, fmt.Sprintf(`
		UPDATE estates e SET
			name = $%d, type = $%d, legal_status = $%d, total_area_ha = $%d,
			latitude = $%d, longitude = $%d, is_active = $%d, updated_at = $%d
		WHERE `+strings.Join(where, " AND "),
		setOffset+1, setOffset+2, setOffset+3, setOffset+4,
		setOffset+5, setOffset+6, setOffset+7, setOffset+8,
	), args...)
	if err != nil {
		return estate.Estate{}, translateDBError(err, estate.ErrDuplicateCode, nil)
	}
	if tag.RowsAffected() == 0 {
		return estate.Estate{}, estate.ErrNotFound
	}
	return entity, nil
}

func (r *EstateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return err
	}

	where, args := buildEstateFilters(scope, nil)
	args = append(args, id)
	where = append(where, fmt.Sprintf("e.id = $%d", len(args)))

	tag, err := tx.Exec(ctx, `
		DELETE FROM estates e
		WHERE `+strings.Join(where, " AND "),
		args...,
	)
	if err != nil {
		// FK violation here means a compartment row appeared between the
		// service's dependent check and the delete.
		return translateDBError(err, nil, estate.ErrHasDependents)
	}
	if tag.RowsAffected() == 0 {
		return estate.ErrNotFound
	}
	return nil
}
