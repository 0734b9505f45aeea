package composables

import (
	"context"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/pkg/constants"
	"github.com/silvacore/patrimony/pkg/serrors"
	"github.com/silvacore/patrimony/pkg/types"
)

// TenantScope constrains every hierarchy query for the current request.
// A privileged scope omits the tenant filter entirely.
type TenantScope struct {
	OrganizationID uuid.UUID
	Privileged     bool
}

var (
	ErrNoScope = serrors.NewError("NO_ORGANIZATION", "tenant scope not resolved for request", "Tenancy.NoScope")
	// ErrNoOrganization means a non-privileged caller has no tenant context.
	// The store turns this into a 403-equivalent before touching storage.
	ErrNoOrganization = serrors.NewError("NO_ORGANIZATION", "caller has no organization", "Tenancy.NoOrganization")
	ErrNoIdentity     = serrors.NewError("NO_ORGANIZATION", "caller identity not found in context", "Tenancy.NoIdentity")
)

func WithScope(ctx context.Context, scope TenantScope) context.Context {
	return context.WithValue(ctx, constants.ScopeKey, scope)
}

func UseScope(ctx context.Context) (TenantScope, error) {
	scope, ok := ctx.Value(constants.ScopeKey).(TenantScope)
	if !ok {
		return TenantScope{}, ErrNoScope
	}
	return scope, nil
}

func WithIdentity(ctx context.Context, identity types.Identity) context.Context {
	return context.WithValue(ctx, constants.IdentityKey, identity)
}

func UseIdentity(ctx context.Context) (types.Identity, error) {
	identity, ok := ctx.Value(constants.IdentityKey).(types.Identity)
	if !ok {
		return nil, ErrNoIdentity
	}
	return identity, nil
}

// WithTenantID attaches a concrete tenant id, used by sinks (audit) that
// write outside the request's scoped transaction.
func WithTenantID(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.TenantIDKey, tenantID)
}

func UseTenantID(ctx context.Context) (uuid.UUID, error) {
	if id, ok := ctx.Value(constants.TenantIDKey).(uuid.UUID); ok {
		return id, nil
	}
	scope, err := UseScope(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if scope.Privileged {
		return uuid.Nil, nil
	}
	return scope.OrganizationID, nil
}
