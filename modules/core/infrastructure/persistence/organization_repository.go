package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/silvacore/patrimony/modules/core/domain/entities/organization"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/repo"
)

const organizationSelectColumns = `o.id, o.name, o.slug, o.is_active, o.created_at, o.updated_at`

type OrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &OrganizationRepository{}
}

func buildOrganizationFilters(params *organization.FindParams) ([]string, []any) {
	where := []string{"1 = 1"}
	args := make([]any, 0, 1)
	if params != nil {
		if search := strings.TrimSpace(params.Search); search != "" {
			args = append(args, "%"+search+"%")
			where = append(where, fmt.Sprintf("(o.name ILIKE $%d OR o.slug ILIKE $%d)", len(args), len(args)))
		}
	}
	return where, args
}

func scanOrganization(row pgx.Row) (organization.Organization, error) {
	var entity organization.Organization
	if err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Slug,
		&entity.IsActive,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	); err != nil {
		return organization.Organization{}, err
	}
	return entity, nil
}

func (r *OrganizationRepository) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildOrganizationFilters(params)
	query := `
		SELECT ` + organizationSelectColumns + `
		FROM organizations o
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY o.slug
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []organization.Organization
	for rows.Next() {
		entity, err := scanOrganization(rows)
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

func (r *OrganizationRepository) Count(ctx context.Context, params *organization.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildOrganizationFilters(params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM organizations o
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	entity, err := scanOrganization(tx.QueryRow(ctx, `
		SELECT `+organizationSelectColumns+`
		FROM organizations o
		WHERE o.id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, organization.ErrNotFound
		}
		return organization.Organization{}, err
	}
	return entity, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, entity organization.Organization) (organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return organization.Organization{}, err
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO organizations (id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at`,
		entity.ID,
		entity.Name,
		entity.Slug,
		entity.IsActive,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return organization.Organization{}, organization.ErrDuplicateSlug
		}
		return organization.Organization{}, err
	}
	return entity, nil
}
