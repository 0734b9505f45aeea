package stand

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silvacore/patrimony/pkg/serrors"
)

type Type string

const (
	TypeStand          Type = "STAND"
	TypeParcel         Type = "PARCEL"
	TypeEnumeration    Type = "ENUMERATION"
	TypeManagementUnit Type = "MANAGEMENT_UNIT"
)

// RotationPhase tracks where a stand sits in its silvicultural cycle.
type RotationPhase string

const (
	RotationPhaseEstablishment RotationPhase = "ESTABLISHMENT"
	RotationPhaseGrowth        RotationPhase = "GROWTH"
	RotationPhaseThinning      RotationPhase = "THINNING"
	RotationPhaseHarvest       RotationPhase = "HARVEST"
	RotationPhaseRegeneration  RotationPhase = "REGENERATION"
)

type ParentSummary struct {
	ID   uuid.UUID
	Code string
	Name string
}

// Stand is a level-4 node owned by exactly one compartment.
type Stand struct {
	ID              uuid.UUID
	CompartmentID   uuid.UUID
	Compartment     ParentSummary
	Code            string
	Name            string
	Type            Type
	TotalAreaHa     decimal.Decimal
	PlantableAreaHa decimal.Decimal
	RotationPhase   RotationPhase
	Latitude        *float64
	Longitude       *float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type FindParams struct {
	CompartmentID *uuid.UUID
	Search        string
	Limit         int
	Offset        int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Stand, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Stand, error)
	CountByCompartment(ctx context.Context, compartmentID uuid.UUID) (int64, error)
	Create(ctx context.Context, entity Stand) (Stand, error)
	Update(ctx context.Context, entity Stand) (Stand, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrNotFound       = serrors.NewError("NOT_FOUND", "stand not found", "Forestry.Stands.NotFound")
	ErrParentNotFound = serrors.NewError("PARENT_NOT_FOUND", "owning compartment not found", "Forestry.Stands.ParentNotFound")
	ErrDuplicateCode  = serrors.NewError("DUPLICATE_CODE", "stand code already in use within the compartment", "Forestry.Stands.DuplicateCode")
	ErrHasDependents  = serrors.NewError("HAS_DEPENDENTS", "stand still has plots", "Forestry.Stands.HasDependents")
)

type CreatedEvent struct {
	Result  Stand
	ActorID uuid.UUID
}

type UpdatedEvent struct {
	Before  Stand
	Result  Stand
	ActorID uuid.UUID
}

type DeletedEvent struct {
	Result  Stand
	ActorID uuid.UUID
}
