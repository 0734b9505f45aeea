package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/silvacore/patrimony/modules/core/domain/aggregates/user"
	"github.com/silvacore/patrimony/modules/core/domain/entities/organization"
	"github.com/silvacore/patrimony/modules/core/services"
	"github.com/silvacore/patrimony/pkg/composables"
)

type stubUserRepo struct{}

func (stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return nil, user.ErrNotFound
}

type stubOrgRepo struct {
	orgs map[uuid.UUID]organization.Organization
}

func (r stubOrgRepo) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, error) {
	return nil, nil
}

func (r stubOrgRepo) Count(ctx context.Context, params *organization.FindParams) (int64, error) {
	return 0, nil
}

func (r stubOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	o, ok := r.orgs[id]
	if !ok {
		return organization.Organization{}, organization.ErrNotFound
	}
	return o, nil
}

func (r stubOrgRepo) Create(ctx context.Context, entity organization.Organization) (organization.Organization, error) {
	return entity, nil
}

func TestWithIdentity_AttachesScopeAndTenantID(t *testing.T) {
	orgID := uuid.New()
	scopes := services.NewScopeService(stubUserRepo{}, stubOrgRepo{
		orgs: map[uuid.UUID]organization.Organization{orgID: {ID: orgID, Name: "Silva Corp"}},
	})

	var seen context.Context
	handler := WithIdentity(scopes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/forestry/nodes/2", nil)
	r.Header.Set(HeaderUserID, uuid.New().String())
	r.Header.Set(HeaderOrganization, orgID.String())
	handler.ServeHTTP(httptest.NewRecorder(), r)

	identity, err := composables.UseIdentity(seen)
	require.NoError(t, err)
	require.False(t, identity.Privileged())

	scope, err := composables.UseScope(seen)
	require.NoError(t, err)
	require.Equal(t, orgID, scope.OrganizationID)

	// the tenant id is pinned separately so audit sinks can read it even
	// when they re-root the context
	tenantID, err := composables.UseTenantID(seen)
	require.NoError(t, err)
	require.Equal(t, orgID, tenantID)
}

func TestWithIdentity_PrivilegedHasNoTenantID(t *testing.T) {
	scopes := services.NewScopeService(stubUserRepo{}, stubOrgRepo{})

	var seen context.Context
	handler := WithIdentity(scopes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/forestry/nodes/2", nil)
	r.Header.Set(HeaderUserID, uuid.New().String())
	r.Header.Set(HeaderPrivileged, "true")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	scope, err := composables.UseScope(seen)
	require.NoError(t, err)
	require.True(t, scope.Privileged)

	tenantID, err := composables.UseTenantID(seen)
	require.NoError(t, err)
	require.Equal(t, uuid.Nil, tenantID)
}

func TestWithIdentity_MissingHeaderPassesThroughUnauthenticated(t *testing.T) {
	scopes := services.NewScopeService(stubUserRepo{}, stubOrgRepo{})

	var seen context.Context
	handler := WithIdentity(scopes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Context()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/forestry/nodes/2", nil))

	_, err := composables.UseIdentity(seen)
	require.ErrorIs(t, err, composables.ErrNoIdentity)
}
