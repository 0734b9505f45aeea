package organization

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/pkg/serrors"
)

// Organization is the tenant boundary: every estate and everything under
// it belongs to exactly one organization.
type Organization struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Organization, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Organization, error)
	Create(ctx context.Context, entity Organization) (Organization, error)
}

var (
	ErrNotFound      = serrors.NewError("NOT_FOUND", "organization not found", "Core.Organizations.NotFound")
	ErrDuplicateSlug = serrors.NewError("DUPLICATE_CODE", "organization slug already in use", "Core.Organizations.DuplicateSlug")
)
