package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/eventbus"
)

type EstateService struct {
	repo         estate.Repository
	compartments compartment.Repository
	publisher    eventbus.EventBus
}

func NewEstateService(
	repo estate.Repository,
	compartments compartment.Repository,
	publisher eventbus.EventBus,
) *EstateService {
	return &EstateService{
		repo:         repo,
		compartments: compartments,
		publisher:    publisher,
	}
}

func (s *EstateService) List(ctx context.Context, params *estate.FindParams) ([]estate.Estate, int64, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &estate.FindParams{}
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

func (s *EstateService) GetByID(ctx context.Context, id uuid.UUID) (estate.Estate, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return estate.Estate{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *EstateService) Create(ctx context.Context, dto *estate.CreateDTO) (estate.Estate, error) {
	actor, err := authorize(ctx, permissions.ForestryCreate)
	if err != nil {
		return estate.Estate{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return estate.Estate{}, validationError(errs)
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return estate.Estate{}, err
	}

	entity := dto.ToEntity()
	if !scope.Privileged {
		orgID := scope.OrganizationID
		entity.OrganizationID = &orgID
	}

	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (estate.Estate, error) {
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return estate.Estate{}, errors.Wrap(err, "create estate")
	}

	s.publisher.Publish(ctx, estate.CreatedEvent{Result: created, ActorID: actor.ID()})
	return created, nil
}

func (s *EstateService) Update(ctx context.Context, id uuid.UUID, dto *estate.UpdateDTO) (estate.Estate, error) {
	actor, err := authorize(ctx, permissions.ForestryUpdate)
	if err != nil {
		return estate.Estate{}, err
	}
	if dto == nil || dto.IsEmpty() {
		return estate.Estate{}, ErrEmptyUpdate
	}
	if errs, ok := dto.Ok(); !ok {
		return estate.Estate{}, validationError(errs)
	}

	var before estate.Estate
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (estate.Estate, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return estate.Estate{}, err
		}
		before = current
		return s.repo.Update(txCtx, dto.Apply(current))
	})
	if err != nil {
		return estate.Estate{}, err
	}

	s.publisher.Publish(ctx, estate.UpdatedEvent{Before: before, Result: updated, ActorID: actor.ID()})
	return updated, nil
}

func (s *EstateService) Delete(ctx context.Context, id uuid.UUID) (estate.Estate, error) {
	actor, err := authorize(ctx, permissions.ForestryDelete)
	if err != nil {
		return estate.Estate{}, err
	}

	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (estate.Estate, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return estate.Estate{}, err
		}
		children, err := s.compartments.CountByEstate(txCtx, id)
		if err != nil {
			return estate.Estate{}, err
		}
		if children > 0 {
			return estate.Estate{}, estate.ErrHasDependents.WithDetail("compartments", "present")
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return estate.Estate{}, err
		}
		return current, nil
	})
	if err != nil {
		return estate.Estate{}, err
	}

	s.publisher.Publish(ctx, estate.DeletedEvent{Result: deleted, ActorID: actor.ID()})
	return deleted, nil
}
