package services

import (
	"context"

	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/configuration"
	"github.com/silvacore/patrimony/pkg/serrors"
	"github.com/silvacore/patrimony/pkg/types"
)

var (
	ErrForbidden = serrors.NewError("FORBIDDEN", "caller lacks the required permission", "Auth.Forbidden")
	// ErrEmptyUpdate rejects patches that would be a no-op write.
	ErrEmptyUpdate = serrors.NewError(serrors.ValidationCode, "update payload must set at least one field", "Validation.EmptyUpdate")
)

func authorize(ctx context.Context, action string) (types.Identity, error) {
	identity, err := composables.UseIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.Can(action) {
		return nil, ErrForbidden.WithDetail("permission", action)
	}
	return identity, nil
}

// normalizeFindLimits clamps paging inputs to the configured bounds so a
// caller can neither disable paging nor request an oversized page.
func normalizeFindLimits(limit, offset int) (int, int) {
	conf := configuration.Use()
	if limit <= 0 {
		limit = conf.PageSize
	}
	if limit > conf.MaxPageSize {
		limit = conf.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func validationError(errs serrors.ValidationErrors) error {
	be := serrors.NewError(serrors.ValidationCode, "payload validation failed", "Validation.Failed")
	for field, message := range errs.Fields() {
		be = be.WithDetail(field, message)
	}
	return be
}
