package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/eventbus"
)

type StandService struct {
	repo         stand.Repository
	compartments compartment.Repository
	plots        plot.Repository
	publisher    eventbus.EventBus
}

func NewStandService(
	repo stand.Repository,
	compartments compartment.Repository,
	plots plot.Repository,
	publisher eventbus.EventBus,
) *StandService {
	return &StandService{
		repo:         repo,
		compartments: compartments,
		plots:        plots,
		publisher:    publisher,
	}
}

func (s *StandService) List(ctx context.Context, params *stand.FindParams) ([]stand.Stand, int64, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &stand.FindParams{}
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

func (s *StandService) GetByID(ctx context.Context, id uuid.UUID) (stand.Stand, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return stand.Stand{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *StandService) Create(ctx context.Context, dto *stand.CreateDTO) (stand.Stand, error) {
	actor, err := authorize(ctx, permissions.ForestryCreate)
	if err != nil {
		return stand.Stand{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return stand.Stand{}, validationError(errs)
	}

	entity := dto.ToEntity()
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (stand.Stand, error) {
		parent, err := s.compartments.GetByID(txCtx, dto.CompartmentID)
		if err != nil {
			if errors.Is(err, compartment.ErrNotFound) {
				return stand.Stand{}, stand.ErrParentNotFound
			}
			return stand.Stand{}, err
		}
		entity.Compartment = stand.ParentSummary{ID: parent.ID, Code: parent.Code, Name: parent.Name}
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return stand.Stand{}, err
	}

	s.publisher.Publish(ctx, stand.CreatedEvent{Result: created, ActorID: actor.ID()})
	return created, nil
}

func (s *StandService) Update(ctx context.Context, id uuid.UUID, dto *stand.UpdateDTO) (stand.Stand, error) {
	actor, err := authorize(ctx, permissions.ForestryUpdate)
	if err != nil {
		return stand.Stand{}, err
	}
	if dto == nil || dto.IsEmpty() {
		return stand.Stand{}, ErrEmptyUpdate
	}
	if errs, ok := dto.Ok(); !ok {
		return stand.Stand{}, validationError(errs)
	}

	var before stand.Stand
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (stand.Stand, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return stand.Stand{}, err
		}
		before = current
		return s.repo.Update(txCtx, dto.Apply(current))
	})
	if err != nil {
		return stand.Stand{}, err
	}

	s.publisher.Publish(ctx, stand.UpdatedEvent{Before: before, Result: updated, ActorID: actor.ID()})
	return updated, nil
}

func (s *StandService) Delete(ctx context.Context, id uuid.UUID) (stand.Stand, error) {
	actor, err := authorize(ctx, permissions.ForestryDelete)
	if err != nil {
		return stand.Stand{}, err
	}

	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (stand.Stand, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return stand.Stand{}, err
		}
		// Only plots guard a stand; leaf assets below it are carried
		// away by the delete.
		children, err := s.plots.CountByStand(txCtx, id)
		if err != nil {
			return stand.Stand{}, err
		}
		if children > 0 {
			return stand.Stand{}, stand.ErrHasDependents.WithDetail("plots", "present")
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return stand.Stand{}, err
		}
		return current, nil
	})
	if err != nil {
		return stand.Stand{}, err
	}

	s.publisher.Publish(ctx, stand.DeletedEvent{Result: deleted, ActorID: actor.ID()})
	return deleted, nil
}
