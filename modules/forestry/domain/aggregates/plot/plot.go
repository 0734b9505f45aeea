package plot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silvacore/patrimony/modules/forestry/domain/entities/geometry"
	"github.com/silvacore/patrimony/pkg/serrors"
)

type Type string

const (
	TypeReference Type = "REFERENCE"
	TypeSubunit   Type = "SUBUNIT"
	TypeSubplot   Type = "SUBPLOT"
	TypeSample    Type = "SAMPLE"
	TypeSubsample Type = "SUBSAMPLE"
)

type ParentSummary struct {
	ID   uuid.UUID
	Code string
	Name string
}

// Plot is a level-5 node owned by exactly one stand. AreaM2 is always
// derived from ShapeType and the dimensions, never accepted from callers.
type Plot struct {
	ID         uuid.UUID
	StandID    uuid.UUID
	Stand      ParentSummary
	Code       string
	Name       string
	Type       Type
	ShapeType  geometry.Shape
	Dimension1 *float64
	Dimension2 *float64
	Dimension3 *float64
	Dimension4 *float64
	AreaM2     decimal.Decimal
	Latitude   *float64
	Longitude  *float64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Dimensions bundles the stored measurements for the geometry calculator.
func (p Plot) Dimensions() geometry.Dimensions {
	return geometry.Dimensions{
		D1: p.Dimension1,
		D2: p.Dimension2,
		D3: p.Dimension3,
		D4: p.Dimension4,
	}
}

type FindParams struct {
	StandID *uuid.UUID
	Search  string
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Plot, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Plot, error)
	CountByStand(ctx context.Context, standID uuid.UUID) (int64, error)
	Create(ctx context.Context, entity Plot) (Plot, error)
	Update(ctx context.Context, entity Plot) (Plot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrNotFound        = serrors.NewError("NOT_FOUND", "plot not found", "Forestry.Plots.NotFound")
	ErrParentNotFound  = serrors.NewError("PARENT_NOT_FOUND", "owning stand not found", "Forestry.Plots.ParentNotFound")
	ErrDuplicateCode   = serrors.NewError("DUPLICATE_CODE", "plot code already in use within the stand", "Forestry.Plots.DuplicateCode")
	ErrInvalidGeometry = serrors.NewError("INVALID_GEOMETRY", "shape and dimensions do not describe a valid surface", "Forestry.Plots.InvalidGeometry")
)

type CreatedEvent struct {
	Result  Plot
	ActorID uuid.UUID
}

type UpdatedEvent struct {
	Before  Plot
	Result  Plot
	ActorID uuid.UUID
}

type DeletedEvent struct {
	Result  Plot
	ActorID uuid.UUID
}
