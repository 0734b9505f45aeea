package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/silvacore/patrimony/modules/audit/domain/entities/auditrecord"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/constants"
)

type fakeAuditRepo struct {
	records   []auditrecord.AuditRecord
	createErr error
}

func (r *fakeAuditRepo) GetPaginated(ctx context.Context, params *auditrecord.FindParams) ([]auditrecord.AuditRecord, error) {
	return r.records, nil
}

func (r *fakeAuditRepo) Count(ctx context.Context, params *auditrecord.FindParams) (int64, error) {
	return int64(len(r.records)), nil
}

func (r *fakeAuditRepo) Create(ctx context.Context, record auditrecord.AuditRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.records = append(r.records, record)
	return nil
}

type noopTx struct{}

func (noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func txCtx(scope composables.TenantScope) context.Context {
	ctx := composables.WithScope(context.Background(), scope)
	return context.WithValue(ctx, constants.TxKey, noopTx{})
}

func TestAuditService_RecordStampsTenant(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, logrus.New())

	orgID := uuid.New()
	actorID := uuid.New()
	entityID := uuid.New()

	svc.Record(txCtx(composables.TenantScope{OrganizationID: orgID}), RecordParams{
		ActorID:    actorID,
		Action:     "estate.created",
		Level:      2,
		EntityID:   entityID,
		EntityCode: "E1",
		Payload:    map[string]string{"code": "E1"},
	})

	require.Len(t, repo.records, 1)
	record := repo.records[0]
	require.Equal(t, orgID, *record.OrganizationID)
	require.Equal(t, actorID, record.ActorID)
	require.Equal(t, "estate.created", record.Action)
	require.Equal(t, 2, record.Level)
	require.JSONEq(t, `{"code":"E1"}`, string(record.Payload))
}

func TestAuditService_RecordPrivilegedHasNoTenant(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, logrus.New())

	svc.Record(txCtx(composables.TenantScope{Privileged: true}), RecordParams{
		ActorID:  uuid.New(),
		Action:   "estate.deleted",
		Level:    2,
		EntityID: uuid.New(),
	})

	require.Len(t, repo.records, 1)
	require.Nil(t, repo.records[0].OrganizationID)
	require.Nil(t, repo.records[0].Payload)
}

func TestAuditService_RecordHonorsExplicitTenant(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, logrus.New())

	orgID := uuid.New()
	// no resolved scope, only the tenant id a sink carries across contexts
	ctx := composables.WithTenantID(context.Background(), orgID)
	ctx = context.WithValue(ctx, constants.TxKey, noopTx{})

	svc.Record(ctx, RecordParams{
		ActorID:  uuid.New(),
		Action:   "estate.created",
		Level:    2,
		EntityID: uuid.New(),
	})

	require.Len(t, repo.records, 1)
	require.Equal(t, orgID, *repo.records[0].OrganizationID)
}

func TestAuditService_WarnPrefersRequestLogger(t *testing.T) {
	repo := &fakeAuditRepo{createErr: errors.New("disk on fire")}

	serviceBuffer := bytes.Buffer{}
	serviceLog := logrus.New()
	serviceLog.SetOutput(&serviceBuffer)

	requestBuffer := bytes.Buffer{}
	requestLog := logrus.New()
	requestLog.SetOutput(&requestBuffer)
	requestLog.SetLevel(logrus.WarnLevel)

	svc := NewAuditService(repo, serviceLog)

	ctx := txCtx(composables.TenantScope{OrganizationID: uuid.New()})
	ctx = context.WithValue(ctx, constants.LoggerKey, requestLog.WithField("request-id", "r1"))

	svc.Record(ctx, RecordParams{
		ActorID:  uuid.New(),
		Action:   "plot.updated",
		Level:    5,
		EntityID: uuid.New(),
	})

	require.Contains(t, requestBuffer.String(), "audit record dropped")
	require.Contains(t, requestBuffer.String(), "r1")
	require.Empty(t, serviceBuffer.String())
}

func TestAuditService_RecordSwallowsStorageFailure(t *testing.T) {
	repo := &fakeAuditRepo{createErr: errors.New("disk on fire")}

	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.WarnLevel)

	svc := NewAuditService(repo, log)

	// must not panic or return an error to the caller
	svc.Record(txCtx(composables.TenantScope{OrganizationID: uuid.New()}), RecordParams{
		ActorID:  uuid.New(),
		Action:   "plot.updated",
		Level:    5,
		EntityID: uuid.New(),
	})

	require.Empty(t, repo.records)
	require.Contains(t, logBuffer.String(), "audit record dropped")
	require.Contains(t, logBuffer.String(), "plot.updated")
}

type denyAllIdentity struct{ id uuid.UUID }

func (d denyAllIdentity) ID() uuid.UUID                  { return d.id }
func (d denyAllIdentity) OrganizationID() (uuid.UUID, bool) { return uuid.Nil, false }
func (d denyAllIdentity) Privileged() bool               { return false }
func (d denyAllIdentity) Can(action string) bool         { return false }

func TestAuditService_ListRequiresPermission(t *testing.T) {
	svc := NewAuditService(&fakeAuditRepo{}, logrus.New())

	ctx := composables.WithIdentity(context.Background(), denyAllIdentity{id: uuid.New()})
	_, _, err := svc.List(ctx, nil)
	require.ErrorIs(t, err, errAuditReadDenied)
}
