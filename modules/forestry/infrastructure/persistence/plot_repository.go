package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/infrastructure/persistence/models"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/repo"
)

const plotSelectColumns = `
	p.id, p.stand_id, s.code, s.name, p.code, p.name, p.type, p.shape_type,
	p.dimension_1, p.dimension_2, p.dimension_3, p.dimension_4,
	p.area_m2::text, p.latitude, p.longitude, p.is_active,
	p.created_at, p.updated_at`

const plotFromClause = `
	FROM plots p
	JOIN stands s ON s.id = p.stand_id
	JOIN compartments c ON c.id = s.compartment_id
	JOIN estates e ON e.id = c.estate_id`

const plotScopeSubquery = `
	SELECT p2.id FROM plots p2
	JOIN stands s2 ON s2.id = p2.stand_id
	JOIN compartments c2 ON c2.id = s2.compartment_id
	JOIN estates e2 ON e2.id = c2.estate_id
	WHERE e2.organization_id = $%d`

type PlotRepository struct{}

func NewPlotRepository() plot.Repository {
	return &PlotRepository{}
}

func buildPlotFilters(scope composables.TenantScope, params *plot.FindParams) ([]string, []any) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		where = append(where, fmt.Sprintf("e.organization_id = $%d", len(args)))
	}
	if params != nil {
		if params.StandID != nil {
			args = append(args, *params.StandID)
			where = append(where, fmt.Sprintf("p.stand_id = $%d", len(args)))
		}
		if search := strings.TrimSpace(params.Search); search != "" {
			args = append(args, "%"+search+"%")
			where = append(where, fmt.Sprintf("(p.code ILIKE $%d OR p.name ILIKE $%d)", len(args), len(args)))
		}
	}
	if len(where) == 0 {
		where = append(where, "1 = 1")
	}
	return where, args
}

func scanPlot(row pgx.Row) (plot.Plot, error) {
	var dbRow models.Plot
	if err := row.Scan(
		&dbRow.ID,
		&dbRow.StandID,
		&dbRow.StandCode,
		&dbRow.StandName,
		&dbRow.Code,
		&dbRow.Name,
		&dbRow.Type,
		&dbRow.ShapeType,
		&dbRow.Dimension1,
		&dbRow.Dimension2,
		&dbRow.Dimension3,
		&dbRow.Dimension4,
		&dbRow.AreaM2,
		&dbRow.Latitude,
		&dbRow.Longitude,
		&dbRow.IsActive,
		&dbRow.CreatedAt,
		&dbRow.UpdatedAt,
	); err != nil {
		return plot.Plot{}, err
	}
	return toDomainPlot(&dbRow)
}

func (r *PlotRepository) GetPaginated(ctx context.Context, params *plot.FindParams) ([]plot.Plot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildPlotFilters(scope, params)
	query := `
		SELECT ` + plotSelectColumns + plotFromClause + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY s.code, p.code
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []plot.Plot
	for rows.Next() {
		entity, err := scanPlot(rows)
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

func (r *PlotRepository) Count(ctx context.Context, params *plot.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildPlotFilters(scope, params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*)`+plotFromClause+`
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PlotRepository) GetByID(ctx context.Context, id uuid.UUID) (plot.Plot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return plot.Plot{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return plot.Plot{}, err
	}

	where, args := buildPlotFilters(scope, nil)
	args = append(args, id)
	where = append(where, fmt.Sprintf("p.id = $%d", len(args)))

	entity, err := scanPlot(tx.QueryRow(ctx, `
		SELECT `+plotSelectColumns+plotFromClause+`
		WHERE `+strings.Join(where, " AND "),
		args...,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return plot.Plot{}, plot.ErrNotFound
		}
		return plot.Plot{}, err
	}
	return entity, nil
}

func (r *PlotRepository) CountByStand(ctx context.Context, standID uuid.UUID) (int64, error) {
	return r.Count(ctx, &plot.FindParams{StandID: &standID})
}

func (r *PlotRepository) Create(ctx context.Context, entity plot.Plot) (plot.Plot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return plot.Plot{}, err
	}

	dbRow := toDBPlot(entity)
	if err := tx.QueryRow(ctx, `
		INSERT INTO plots (
			id, stand_id, code, name, type, shape_type,
			dimension_1, dimension_2, dimension_3, dimension_4, area_m2,
			latitude, longitude, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`,
		dbRow.ID,
		dbRow.StandID,
		dbRow.Code,
		dbRow.Name,
		dbRow.Type,
		dbRow.ShapeType,
		dbRow.Dimension1,
		dbRow.Dimension2,
		dbRow.Dimension3,
		dbRow.Dimension4,
		dbRow.AreaM2,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return plot.Plot{}, translateDBError(err, plot.ErrDuplicateCode, plot.ErrParentNotFound)
	}
	return entity, nil
}

func (r *PlotRepository) Update(ctx context.Context, entity plot.Plot) (plot.Plot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return plot.Plot{}, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return plot.Plot{}, err
	}

	dbRow := toDBPlot(entity)
	args := []any{
		dbRow.Name,
		dbRow.Type,
		dbRow.ShapeType,
		dbRow.Dimension1,
		dbRow.Dimension2,
		dbRow.Dimension3,
		dbRow.Dimension4,
		dbRow.AreaM2,
		dbRow.Latitude,
		dbRow.Longitude,
		dbRow.IsActive,
		dbRow.UpdatedAt,
		dbRow.ID,
	}
	scopeCond := ""
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		scopeCond = " AND p.id IN (" + fmt.Sprintf(plotScopeSubquery, len(args)) + ")"
	}

	tag, err := tx.Exec(ctx, `
		UPDATE plots p SET
			name = $1, type = $2, shape_type = $3,
			dimension_1 = $4, dimension_2 = $5, dimension_3 = $6, dimension_4 = $7,
			area_m2 = $8, latitude = $9, longitude = $10,
			is_active = $11, updated_at = $12
		WHERE p.id = $13`+scopeCond,
		args...,
	)
	if err != nil {
		return plot.Plot{}, translateDBError(err, plot.ErrDuplicateCode, nil)
	}
	if tag.RowsAffected() == 0 {
		return plot.Plot{}, plot.ErrNotFound
	}
	return entity, nil
}

func (r *PlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
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
		scopeCond = " AND p.id IN (" + fmt.Sprintf(plotScopeSubquery, len(args)) + ")"
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM plots p
		WHERE p.id = $1`+scopeCond,
		args...,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return plot.ErrNotFound
	}
	return nil
}
