package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/permissions"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/eventbus"
)

type CompartmentService struct {
	repo      compartment.Repository
	estates   estate.Repository
	stands    stand.Repository
	publisher eventbus.EventBus
}

func NewCompartmentService(
	repo compartment.Repository,
	estates estate.Repository,
	stands stand.Repository,
	publisher eventbus.EventBus,
) *CompartmentService {
	return &CompartmentService{
		repo:      repo,
		estates:   estates,
		stands:    stands,
		publisher: publisher,
	}
}

func (s *CompartmentService) List(ctx context.Context, params *compartment.FindParams) ([]compartment.Compartment, int64, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return nil, 0, err
	}
	if params == nil {
		params = &compartment.FindParams{}
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

func (s *CompartmentService) GetByID(ctx context.Context, id uuid.UUID) (compartment.Compartment, error) {
	if _, err := authorize(ctx, permissions.ForestryRead); err != nil {
		return compartment.Compartment{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CompartmentService) Create(ctx context.Context, dto *compartment.CreateDTO) (compartment.Compartment, error) {
	actor, err := authorize(ctx, permissions.ForestryCreate)
	if err != nil {
		return compartment.Compartment{}, err
	}
	if errs, ok := dto.Ok(); !ok {
		return compartment.Compartment{}, validationError(errs)
	}

	entity := dto.ToEntity()
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (compartment.Compartment, error) {
		// The scoped parent lookup is the tenancy check: an estate in
		// another organization is simply not found.
		parent, err := s.estates.GetByID(txCtx, dto.EstateID)
		if err != nil {
			if errors.Is(err, estate.ErrNotFound) {
				return compartment.Compartment{}, compartment.ErrParentNotFound
			}
			return compartment.Compartment{}, err
		}
		entity.Estate = compartment.ParentSummary{ID: parent.ID, Code: parent.Code, Name: parent.Name}
		return s.repo.Create(txCtx, entity)
	})
	if err != nil {
		return compartment.Compartment{}, err
	}

	s.publisher.Publish(ctx, compartment.CreatedEvent{Result: created, ActorID: actor.ID()})
	return created, nil
}

func (s *CompartmentService) Update(ctx context.Context, id uuid.UUID, dto *compartment.UpdateDTO) (compartment.Compartment, error) {
	actor, err := authorize(ctx, permissions.ForestryUpdate)
	if err != nil {
		return compartment.Compartment{}, err
	}
	if dto == nil || dto.IsEmpty() {
		return compartment.Compartment{}, ErrEmptyUpdate
	}
	if errs, ok := dto.Ok(); !ok {
		return compartment.Compartment{}, validationError(errs)
	}

	var before compartment.Compartment
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (compartment.Compartment, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return compartment.Compartment{}, err
		}
		before = current
		return s.repo.Update(txCtx, dto.Apply(current))
	})
	if err != nil {
		return compartment.Compartment{}, err
	}

	s.publisher.Publish(ctx, compartment.UpdatedEvent{Before: before, Result: updated, ActorID: actor.ID()})
	return updated, nil
}

func (s *CompartmentService) Delete(ctx context.Context, id uuid.UUID) (compartment.Compartment, error) {
	actor, err := authorize(ctx, permissions.ForestryDelete)
	if err != nil {
		return compartment.Compartment{}, err
	}

	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (compartment.Compartment, error) {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return compartment.Compartment{}, err
		}
		children, err := s.stands.CountByCompartment(txCtx, id)
		if err != nil {
			return compartment.Compartment{}, err
		}
		if children > 0 {
			return compartment.Compartment{}, compartment.ErrHasDependents.WithDetail("stands", "present")
		}
		if err := s.repo.Delete(txCtx, id); err != nil {
			return compartment.Compartment{}, err
		}
		return current, nil
	})
	if err != nil {
		return compartment.Compartment{}, err
	}

	s.publisher.Publish(ctx, compartment.DeletedEvent{Result: deleted, ActorID: actor.ID()})
	return deleted, nil
}
