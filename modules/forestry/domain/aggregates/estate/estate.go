package estate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silvacore/patrimony/pkg/serrors"
)

// Type classifies an estate's administrative nature.
type Type string

const (
	TypeFarm     Type = "FARM"
	TypeLot      Type = "LOT"
	TypeRanch    Type = "RANCH"
	TypeEstate   Type = "ESTATE"
	TypeHacienda Type = "HACIENDA"
)

// LegalStatus captures how the organization holds the land.
type LegalStatus string

const (
	LegalStatusAcquisition LegalStatus = "ACQUISITION"
	LegalStatusLease       LegalStatus = "LEASE"
	LegalStatusUsufruct    LegalStatus = "USUFRUCT"
	LegalStatusLoan        LegalStatus = "LOAN"
)

// Estate is the top node of the patrimony hierarchy. OrganizationID is nil
// only for platform-template rows created by privileged callers.
type Estate struct {
	ID             uuid.UUID
	OrganizationID *uuid.UUID
	Code           string
	Name           string
	Type           Type
	LegalStatus    LegalStatus
	TotalAreaHa    decimal.Decimal
	Latitude       *float64
	Longitude      *float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Estate, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Estate, error)
	GetByCode(ctx context.Context, code string) (Estate, error)
	Create(ctx context.Context, entity Estate) (Estate, error)
	Update(ctx context.Context, entity Estate) (Estate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrNotFound      = serrors.NewError("NOT_FOUND", "estate not found", "Forestry.Estates.NotFound")
	ErrDuplicateCode = serrors.NewError("DUPLICATE_CODE", "estate code already in use within the organization", "Forestry.Estates.DuplicateCode")
	ErrHasDependents = serrors.NewError("HAS_DEPENDENTS", "estate still has compartments", "Forestry.Estates.HasDependents")
)

type CreatedEvent struct {
	Result  Estate
	ActorID uuid.UUID
}

type UpdatedEvent struct {
	Before  Estate
	Result  Estate
	ActorID uuid.UUID
}

type DeletedEvent struct {
	Result  Estate
	ActorID uuid.UUID
}
