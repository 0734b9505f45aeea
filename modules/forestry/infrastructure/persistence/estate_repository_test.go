package persistence

import (
	"context"
	"time"

	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
)

func estateRow(id uuid.UUID, orgID *uuid.UUID, code string) []any {
	now := time.Now()
	return []any{
		id, orgID, code, "North Holding", "FARM", "ACQUISITION",
		"120.50", nil, nil, true, now, now,
	}
}

func TestEstateRepository_GetPaginated_AppliesTenantFilter(t *testing.T) {
	orgID := uuid.New()
	estateID := uuid.New()
	queryCalled := false

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			queryCalled = true
			require.Contains(t, sql, "FROM estates e")
			require.Contains(t, sql, "e.organization_id = $1")
			require.Equal(t, orgID, args[0])
			return &stubRows{data: [][]any{estateRow(estateID, &orgID, "E1")}}, nil
		},
	}

	repo := NewEstateRepository()
	result, err := repo.GetPaginated(scopedCtx(tx, orgID), &estate.FindParams{Limit: 10})
	require.NoError(t, err)
	require.True(t, queryCalled)
	require.Len(t, result, 1)
	require.Equal(t, estateID, result[0].ID)
	require.Equal(t, "E1", result[0].Code)
	require.InDelta(t, 120.5, result[0].TotalAreaHa.InexactFloat64(), 1e-9)
}

func TestEstateRepository_GetPaginated_PrivilegedSeesAllTenants(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.NotContains(t, sql, "organization_id =")
			require.Empty(t, args)
			return &stubRows{}, nil
		},
	}

	repo := NewEstateRepository()
	_, err := repo.GetPaginated(privilegedCtx(tx), nil)
	require.NoError(t, err)
}

func TestEstateRepository_GetPaginated_SearchFiltersCodeAndName(t *testing.T) {
	orgID := uuid.New()
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			require.Contains(t, sql, "e.code ILIKE $2 OR e.name ILIKE $2")
			require.Equal(t, "%north%", args[1])
			return &stubRows{}, nil
		},
	}

	repo := NewEstateRepository()
	_, err := repo.GetPaginated(scopedCtx(tx, orgID), &estate.FindParams{Search: "north"})
	require.NoError(t, err)
}

func TestEstateRepository_GetByID_MapsNoRowsToNotFound(t *testing.T) {
	orgID := uuid.New()
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "e.organization_id = $1")
			require.Contains(t, sql, "e.id = $2")
			return stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := NewEstateRepository()
	_, err := repo.GetByID(scopedCtx(tx, orgID), uuid.New())
	require.ErrorIs(t, err, estate.ErrNotFound)
}

func TestEstateRepository_Create_StampsCallerOrganization(t *testing.T) {
	orgID := uuid.New()
	foreignOrg := uuid.New()

	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO estates")
			// the entity claimed another tenant; the scope wins
			require.Equal(t, &orgID, args[1].(*uuid.UUID))
			return stubRow{scan: func(dest ...any) error {
				now := time.Now()
				*dest[0].(*time.Time) = now
				*dest[1].(*time.Time) = now
				return nil
			}}
		},
	}

	repo := NewEstateRepository()
	created, err := repo.Create(scopedCtx(tx, orgID), estate.Estate{
		ID:             uuid.New(),
		OrganizationID: &foreignOrg,
		Code:           "E1",
		Name:           "North Holding",
		Type:           estate.TypeFarm,
		LegalStatus:    estate.LegalStatusAcquisition,
	})
	require.NoError(t, err)
	require.Equal(t, orgID, *created.OrganizationID)
}

func TestEstateRepository_Create_MapsUniqueViolation(t *testing.T) {
	orgID := uuid.New()
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return stubRow{scan: func(dest ...any) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "estates_org_code_idx"}
			}}
		},
	}

	repo := NewEstateRepository()
	_, err := repo.Create(scopedCtx(tx, orgID), estate.Estate{ID: uuid.New(), Code: "E1"})
	require.ErrorIs(t, err, estate.ErrDuplicateCode)
}

func TestEstateRepository_Update_ScopesByTenantAndID(t *testing.T) {
	orgID := uuid.New()
	estateID := uuid.New()

	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, sql, "UPDATE estates e SET")
			require.Contains(t, sql, "e.organization_id = $1")
			require.Equal(t, orgID, args[0])
			require.Equal(t, estateID, args[len(args)-1])
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}

	repo := NewEstateRepository()
	_, err := repo.Update(scopedCtx(tx, orgID), estate.Estate{ID: estateID, Code: "E1", Name: "Renamed"})
	require.NoError(t, err)
}

func TestEstateRepository_Update_ZeroRowsMeansNotFound(t *testing.T) {
	orgID := uuid.New()
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}

	repo := NewEstateRepository()
	_, err := repo.Update(scopedCtx(tx, orgID), estate.Estate{ID: uuid.New()})
	require.ErrorIs(t, err, estate.ErrNotFound)
}

func TestEstateRepository_Delete_MapsForeignKeyToHasDependents(t *testing.T) {
	orgID := uuid.New()
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, sql, "DELETE FROM estates e")
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23503", ConstraintName: "compartments_estate_id_fkey"}
		},
	}

	repo := NewEstateRepository()
	err := repo.Delete(scopedCtx(tx, orgID), uuid.New())
	require.ErrorIs(t, err, estate.ErrHasDependents)
}
