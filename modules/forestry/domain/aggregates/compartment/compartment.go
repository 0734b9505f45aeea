package compartment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silvacore/patrimony/pkg/serrors"
)

type Type string

const (
	TypeCompartment Type = "COMPARTMENT"
	TypeBlock       Type = "BLOCK"
	TypeSection     Type = "SECTION"
	TypeLot         Type = "LOT"
	TypeZone        Type = "ZONE"
)

// ParentSummary is a denormalized view of the owning estate, populated by
// the repository from a join for listing and detail responses.
type ParentSummary struct {
	ID   uuid.UUID
	Code string
	Name string
}

// Compartment is a level-3 node owned by exactly one estate.
type Compartment struct {
	ID          uuid.UUID
	EstateID    uuid.UUID
	Estate      ParentSummary
	Code        string
	Name        string
	Type        Type
	TotalAreaHa decimal.Decimal
	Latitude    *float64
	Longitude   *float64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type FindParams struct {
	EstateID *uuid.UUID
	Search   string
	Limit    int
	Offset   int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Compartment, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Compartment, error)
	CountByEstate(ctx context.Context, estateID uuid.UUID) (int64, error)
	Create(ctx context.Context, entity Compartment) (Compartment, error)
	Update(ctx context.Context, entity Compartment) (Compartment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrNotFound       = serrors.NewError("NOT_FOUND", "compartment not found", "Forestry.Compartments.NotFound")
	ErrParentNotFound = serrors.NewError("PARENT_NOT_FOUND", "owning estate not found", "Forestry.Compartments.ParentNotFound")
	ErrDuplicateCode  = serrors.NewError("DUPLICATE_CODE", "compartment code already in use within the estate", "Forestry.Compartments.DuplicateCode")
	ErrHasDependents  = serrors.NewError("HAS_DEPENDENTS", "compartment still has stands", "Forestry.Compartments.HasDependents")
)

type CreatedEvent struct {
	Result  Compartment
	ActorID uuid.UUID
}

type UpdatedEvent struct {
	Before  Compartment
	Result  Compartment
	ActorID uuid.UUID
}

type DeletedEvent struct {
	Result  Compartment
	ActorID uuid.UUID
}
