package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/domain/entities/geometry"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/eventbus"
)

type PlotService struct {
	repo      plot.Repository
	stands    stand.Repository
	publisher eventbus.EventBus
}

func NewPlotService(
	repo plot.Repository,
	stands stand.Repository,
	publisher eventbus.EventBus,
) *PlotService {
	return &PlotService{
		repo:      repo,
		stands:    stands,
		publisher: publisher,
	}
}

func (s *PlotService) List(ctx context.Context, params *plot.FindParams) ([]plot.Plot, int64, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &plot.FindParams{}
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

func (s *PlotService) GetByID(ctx context.Context, id uuid.UUID) (plot.Plot, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return plot.Plot{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *PlotService) Create(ctx context.Context, dto *plot.CreateDTO) (plot.Plot, error) {
	actor, err := authorize(ctx, permissions.ForestryCreate)
	if err != nil {
		return plot.Plot{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return plot.Plot{}, validationError(errs)
	}

	// Geometry is checked before any write so an invalid shape never
	// reaches the store.
	area, ok := geometry.AreaM2(geometry.Shape(dto.ShapeType), dto.Dimensions())
	if !ok {
		return plot.Plot{}, plot.ErrInvalidGeometry
	}

	entity := dto.ToEntity()
	entity.AreaM2 = decimal.NewFromFloat(area)

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (plot.Plot, error) {
		parent, err := s.stands.GetByID(txCtx, dto.StandID)
		if err != nil {
			if errors.Is(err, stand.ErrNotFound) {
				return plot.Plot{}, plot.ErrParentNotFound
			}
			return plot.Plot{}, err
		}
		entity.Stand = plot.ParentSummary{ID: parent.ID, Code: parent.Code, Name: parent.Name}
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return plot.Plot{}, err
	}

	s.publisher.Publish(ctx, plot.CreatedEvent{Result: created, ActorID: actor.ID()})
	return created, nil
}

func (s *PlotService) Update(ctx context.Context, id uuid.UUID, dto *plot.UpdateDTO) (plot.Plot, error) {
	actor, err := authorize(ctx, permissions.ForestryUpdate)
	if err != nil {
		return plot.Plot{}, err
	}
	if dto == nil || dto.IsEmpty() {
		return plot.Plot{}, ErrEmptyUpdate
	}
	if errs, ok := dto.Ok(); !ok {
		return plot.Plot{}, validationError(errs)
	}

	var before plot.Plot
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (plot.Plot, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return plot.Plot{}, err
		}
		before = current

		merged := dto.Apply(current)
		if dto.TouchesGeometry() {
			// The area is derived from the merged view, not the payload
			// alone: an update may change only one dimension.
			area, ok := geometry.AreaM2(merged.ShapeType, merged.Dimensions())
			if !ok {
				return plot.Plot{}, plot.ErrInvalidGeometry
			}
			merged.AreaM2 = decimal.NewFromFloat(area)
		}
		return s.repo.Update(txCtx, merged)
	})
	if err != nil {
		return plot.Plot{}, err
	}

	s.publisher.Publish(ctx, plot.UpdatedEvent{Before: before, Result: updated, ActorID: actor.ID()})
	return updated, nil
}

func (s *PlotService) Delete(ctx context.Context, id uuid.UUID) (plot.Plot, error) {
	actor, err := authorize(ctx, permissions.ForestryDelete)
	if err != nil {
		return plot.Plot{}, err
	}

	// Plots have no protected children; tenancy is still confirmed by the
	// scoped lookup before the row goes away.
	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (plot.Plot, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return plot.Plot{}, err
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return plot.Plot{}, err
		}
		return current, nil
	})
	if err != nil {
		return plot.Plot{}, err
	}

	s.publisher.Publish(ctx, plot.DeletedEvent{Result: deleted, ActorID: actor.ID()})
	return deleted, nil
}
