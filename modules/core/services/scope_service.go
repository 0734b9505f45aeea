package services

import (
	"context"

	"github.com/silvacore/patrimony/modules/core/domain/aggregates/user"
	"github.com/silvacore/patrimony/modules/core/domain/entities/organization"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/types"
)

// ScopeService turns a caller identity into the tenant scope every
// hierarchy query runs under.
type ScopeService struct {
	users         user.Repository
	organizations organization.Repository
}

func NewScopeService(users user.Repository, organizations organization.Repository) *ScopeService {
	return &ScopeService{users: users, organizations: organizations}
}

// ResolveScope derives the scope for the identity. Privileged callers get
// an unrestricted scope; everyone else must resolve to exactly one
// organization or the request is refused before any data access.
func (s *ScopeService) ResolveScope(ctx context.Context, identity types.Identity) (composables.TenantScope, error) {
	if identity == nil {
		return composables.TenantScope{}, composables.ErrNoIdentity
	}
	if identity.Privileged() {
		return composables.TenantScope{Privileged: true}, nil
	}

	orgID, ok := identity.OrganizationID()
	if !ok {
		// The identity header carried no organization; fall back to the
		// stored membership.
		stored, err := s.users.GetByID(ctx, identity.ID())
		if err != nil {
			return composables.TenantScope{}, composables.ErrNoOrganization
		}
		orgID, ok = stored.OrganizationID()
		if !ok {
			return composables.TenantScope{}, composables.ErrNoOrganization
		}
	}

	if _, err := s.organizations.GetByID(ctx, orgID); err != nil {
		return composables.TenantScope{}, composables.ErrNoOrganization
	}
	return composables.TenantScope{OrganizationID: orgID}, nil
}
