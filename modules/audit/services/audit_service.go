package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/silvacore/patrimony/modules/audit/domain/entities/auditrecord"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/serrors"
)

type AuditService struct {
	repo auditrecord.Repository
	log  *logrus.Logger
}

func NewAuditService(repo auditrecord.Repository, log *logrus.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

type RecordParams struct {
	ActorID    uuid.UUID
	Action     string
	Level      int
	EntityID   uuid.UUID
	EntityCode string
	Payload    any
}

// Record writes a trail entry for an already-committed mutation. It is
// best-effort: every failure is logged at warn level and swallowed so the
// caller's operation is never undone by its audit trail.
func (s *AuditService) Record(ctx context.Context, params RecordParams) {
	var orgID *uuid.UUID
	if id, err := composables.UseTenantID(ctx); err == nil && id != uuid.Nil {
		orgID = &id
	}

	var payload json.RawMessage
	if params.Payload != nil {
		raw, err := json.Marshal(params.Payload)
		if err != nil {
			s.warn(ctx, params.Action, err)
			return
		}
		payload = raw
	}

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, auditrecord.AuditRecord{
			ID:             uuid.New(),
			OrganizationID: orgID,
			ActorID:        params.ActorID,
			Action:         params.Action,
			Level:          params.Level,
			EntityID:       params.EntityID,
			EntityCode:     params.EntityCode,
			Payload:        payload,
		})
	})
	if err != nil {
		s.warn(ctx, params.Action, err)
	}
}

func (s *AuditService) warn(ctx context.Context, action string, err error) {
	fields := logrus.Fields{
		"action": action,
		"error":  err.Error(),
	}
	if entry, ok := composables.UseLogger(ctx); ok {
		entry.WithFields(fields).Warn("audit record dropped")
		return
	}
	if s.log == nil {
		return
	}
	s.log.WithFields(fields).Warn("audit record dropped")
}

var errAuditReadDenied = serrors.NewError("FORBIDDEN", "caller lacks the required permission", "Audit.Forbidden")

const PermissionAuditRead = "audit.read"

func (s *AuditService) List(ctx context.Context, params *auditrecord.FindParams) ([]auditrecord.AuditRecord, int64, error) {
	identity, err := composables.UseIdentity(ctx)
	if err != nil {
		return nil, 0, err
	}
	if !identity.Can(PermissionAuditRead) {
		return nil, 0, errAuditReadDenied
	}
	if params == nil {
		params = &auditrecord.FindParams{}
	}

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
