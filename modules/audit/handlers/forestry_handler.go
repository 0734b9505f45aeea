package handlers

import (
	"context"

	"github.com/silvacore/patrimony/modules/audit/services"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/pkg/eventbus"
)

// ForestryHandler turns hierarchy events into audit records. Events are
// published after the mutation commits, so a dropped record can never
// roll the mutation back.
type ForestryHandler struct {
	audit *services.AuditService
}

func RegisterForestryHandlers(bus eventbus.EventBus, audit *services.AuditService) *ForestryHandler {
	h := &ForestryHandler{audit: audit}

	bus.Subscribe(h.onEstateCreated)
	bus.Subscribe(h.onEstateUpdated)
	bus.Subscribe(h.onEstateDeleted)
	bus.Subscribe(h.onCompartmentCreated)
	bus.Subscribe(h.onCompartmentUpdated)
	bus.Subscribe(h.onCompartmentDeleted)
	bus.Subscribe(h.onStandCreated)
	bus.Subscribe(h.onStandUpdated)
	bus.Subscribe(h.onStandDeleted)
	bus.Subscribe(h.onPlotCreated)
	bus.Subscribe(h.onPlotUpdated)
	bus.Subscribe(h.onPlotDeleted)

	return h
}

func (h *ForestryHandler) onEstateCreated(ctx context.Context, e estate.CreatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "estate.created",
		Level:      2,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onEstateUpdated(ctx context.Context, e estate.UpdatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "estate.updated",
		Level:      2,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onEstateDeleted(ctx context.Context, e estate.DeletedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "estate.deleted",
		Level:      2,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
	})
}

func (h *ForestryHandler) onCompartmentCreated(ctx context.Context, e compartment.CreatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "compartment.created",
		Level:      3,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onCompartmentUpdated(ctx context.Context, e compartment.UpdatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "compartment.updated",
		Level:      3,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onCompartmentDeleted(ctx context.Context, e compartment.DeletedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "compartment.deleted",
		Level:      3,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
	})
}

func (h *ForestryHandler) onStandCreated(ctx context.Context, e stand.CreatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "stand.created",
		Level:      4,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onStandUpdated(ctx context.Context, e stand.UpdatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "stand.updated",
		Level:      4,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onStandDeleted(ctx context.Context, e stand.DeletedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "stand.deleted",
		Level:      4,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
	})
}

func (h *ForestryHandler) onPlotCreated(ctx context.Context, e plot.CreatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "plot.created",
		Level:      5,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onPlotUpdated(ctx context.Context, e plot.UpdatedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "plot.updated",
		Level:      5,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
		Payload:    e.Result,
	})
}

func (h *ForestryHandler) onPlotDeleted(ctx context.Context, e plot.DeletedEvent) {
	h.audit.Record(ctx, services.RecordParams{
		ActorID:    e.ActorID,
		Action:     "plot.deleted",
		Level:      5,
		EntityID:   e.Result.ID,
		EntityCode: e.Result.Code,
	})
}
