package leafasset

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/pkg/serrors"
)

// LeafAsset is a biological-asset record attached to a stand. It sits
// below the administrative tree and does not participate in delete
// guards; only plots block a stand's deletion.
type LeafAsset struct {
	ID                 uuid.UUID
	StandID            uuid.UUID
	BiologicalAssetKey string
	SpeciesCode        string
	PlantedYear        *int
	Quantity           *int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type FindParams struct {
	StandID *uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]LeafAsset, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	CountByStand(ctx context.Context, standID uuid.UUID) (int64, error)
	// UpsertByKey inserts the record or, when the (stand, key) pair already
	// exists, overwrites its mutable fields.
	UpsertByKey(ctx context.Context, entity LeafAsset) (LeafAsset, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	ErrNotFound       = serrors.NewError("NOT_FOUND", "leaf asset not found", "Forestry.LeafAssets.NotFound")
	ErrParentNotFound = serrors.NewError("PARENT_NOT_FOUND", "owning stand not found", "Forestry.LeafAssets.ParentNotFound")
)
