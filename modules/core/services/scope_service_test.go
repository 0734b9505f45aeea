package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/silvacore/patrimony/modules/core/domain/aggregates/user"
	"github.com/silvacore/patrimony/modules/core/domain/entities/organization"
	"github.com/silvacore/patrimony/pkg/composables"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeOrgRepo struct {
	orgs map[uuid.UUID]organization.Organization
}

func (r *fakeOrgRepo) GetPaginated(ctx context.Context, params *organization.FindParams) ([]organization.Organization, error) {
	out := make([]organization.Organization, 0, len(r.orgs))
	for _, o := range r.orgs {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrgRepo) Count(ctx context.Context, params *organization.FindParams) (int64, error) {
	return int64(len(r.orgs)), nil
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (organization.Organization, error) {
	o, ok := r.orgs[id]
	if !ok {
		return organization.Organization{}, organization.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrgRepo) Create(ctx context.Context, entity organization.Organization) (organization.Organization, error) {
	r.orgs[entity.ID] = entity
	return entity, nil
}

func newScopeFixture() (*ScopeService, *fakeUserRepo, *fakeOrgRepo) {
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	orgs := &fakeOrgRepo{orgs: map[uuid.UUID]organization.Organization{}}
	return NewScopeService(users, orgs), users, orgs
}

func TestScopeService_PrivilegedGetsUnrestrictedScope(t *testing.T) {
	svc, _, _ := newScopeFixture()

	identity := user.New(uuid.New(), nil, true, nil)
	scope, err := svc.ResolveScope(context.Background(), identity)
	require.NoError(t, err)
	require.True(t, scope.Privileged)
	require.Equal(t, uuid.Nil, scope.OrganizationID)
}

func TestScopeService_HeaderOrganizationWins(t *testing.T) {
	svc, _, orgs := newScopeFixture()

	orgID := uuid.New()
	orgs.orgs[orgID] = organization.Organization{ID: orgID, Name: "Silva Corp"}

	identity := user.New(uuid.New(), &orgID, false, nil)
	scope, err := svc.ResolveScope(context.Background(), identity)
	require.NoError(t, err)
	require.False(t, scope.Privileged)
	require.Equal(t, orgID, scope.OrganizationID)
}

func TestScopeService_FallsBackToStoredMembership(t *testing.T) {
	svc, users, orgs := newScopeFixture()

	orgID := uuid.New()
	orgs.orgs[orgID] = organization.Organization{ID: orgID, Name: "Silva Corp"}
	userID := uuid.New()
	users.users[userID] = user.New(userID, &orgID, false, nil)

	identity := user.New(userID, nil, false, nil)
	scope, err := svc.ResolveScope(context.Background(), identity)
	require.NoError(t, err)
	require.Equal(t, orgID, scope.OrganizationID)
}

func TestScopeService_Refusals(t *testing.T) {
	svc, users, _ := newScopeFixture()

	t.Run("nil identity", func(t *testing.T) {
		_, err := svc.ResolveScope(context.Background(), nil)
		require.ErrorIs(t, err, composables.ErrNoIdentity)
	})

	t.Run("no organization anywhere", func(t *testing.T) {
		userID := uuid.New()
		users.users[userID] = user.New(userID, nil, false, nil)

		_, err := svc.ResolveScope(context.Background(), user.New(userID, nil, false, nil))
		require.ErrorIs(t, err, composables.ErrNoOrganization)
	})

	t.Run("organization does not exist", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.ResolveScope(context.Background(), user.New(uuid.New(), &missing, false, nil))
		require.ErrorIs(t, err, composables.ErrNoOrganization)
	})
}
