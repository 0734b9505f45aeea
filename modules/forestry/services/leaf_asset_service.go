package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/domain/entities/leafasset"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
	"github.com/silvacore/patrimony/pkg/composables"
)

type LeafAssetService struct {
	repo   leafasset.Repository
	stands stand.Repository
}

func NewLeafAssetService(repo leafasset.Repository, stands stand.Repository) *LeafAssetService {
	return &LeafAssetService{repo: repo, stands: stands}
}

func (s *LeafAssetService) List(ctx context.Context, params *leafasset.FindParams) ([]leafasset.LeafAsset, int64, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &leafasset.FindParams{}
	}
	params.Limit, params.Offset = normalizeFindLimits(params.Limit, params.Offset)

	items, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *LeafAssetService) Upsert(ctx context.Context, dto *leafasset.UpsertDTO) (leafasset.LeafAsset, error) {
	if _, err := authorize(ctx, permissions.ForestryUpdate); err != nil {
		return leafasset.LeafAsset{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return leafasset.LeafAsset{}, validationError(errs)
	}

	return composables.InTxResult(ctx, func(txCtx context.Context) (leafasset.LeafAsset, error) {
		if _, err := s.stands.GetByID(txCtx, dto.StandID); err != nil {
			if errors.Is(err, stand.ErrNotFound) {
				return leafasset.LeafAsset{}, leafasset.ErrParentNotFound
			}
			return leafasset.LeafAsset{}, err
		}
		return s.repo.UpsertByKey(txCtx, dto.ToEntity())
	})
}

func (s *LeafAssetService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := authorize(ctx, permissions.ForestryDelete); err != nil {
		return err
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}
