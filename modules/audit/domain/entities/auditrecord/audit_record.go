package auditrecord

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/pkg/serrors"
)

// AuditRecord is a best-effort trail entry for a hierarchy mutation.
// Records are written after the mutation commits; losing one never fails
// the operation it describes.
type AuditRecord struct {
	ID             uuid.UUID
	OrganizationID *uuid.UUID
	ActorID        uuid.UUID
	Action         string
	Level          int
	EntityID       uuid.UUID
	EntityCode     string
	Payload        json.RawMessage
	CreatedAt      time.Time
}

type FindParams struct {
	Action   string
	EntityID *uuid.UUID
	Limit    int
	Offset   int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]AuditRecord, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, record AuditRecord) error
}

var ErrNotFound = serrors.NewError("NOT_FOUND", "audit record not found", "Audit.Records.NotFound")
