package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/constants"
)

// stubTx lets repository tests intercept the SQL a method emits without a
// live database.
type stubTx struct {
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (t *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (t *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (t *stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if t.execFunc == nil {
		return pgconn.CommandTag{}, errors.New("exec not implemented")
	}
	return t.execFunc(ctx, sql, args...)
}

func (t *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if t.queryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return t.queryFunc(ctx, sql, args...)
}

func (t *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if t.queryRowFunc == nil {
		return stubRow{scan: func(dest ...any) error { return errors.New("queryRow not implemented") }}
	}
	return t.queryRowFunc(ctx, sql, args...)
}

type stubRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.data) {
		return errors.New("no current row to scan")
	}
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i, target := range dest {
		switch v := target.(type) {
		case *uuid.UUID:
			*v = row[i].(uuid.UUID)
		case **uuid.UUID:
			if row[i] == nil {
				*v = nil
				continue
			}
			*v = row[i].(*uuid.UUID)
		case *string:
			*v = row[i].(string)
		case **float64:
			if row[i] == nil {
				*v = nil
				continue
			}
			*v = row[i].(*float64)
		case **int:
			if row[i] == nil {
				*v = nil
				continue
			}
			*v = row[i].(*int)
		case *bool:
			*v = row[i].(bool)
		case *time.Time:
			*v = row[i].(time.Time)
		case *int64:
			*v = row[i].(int64)
		default:
			return fmt.Errorf("unsupported scan target %T", target)
		}
	}
	return nil
}

func (r *stubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.data) {
		return nil, errors.New("no current row")
	}
	return r.data[r.idx-1], nil
}

func (r *stubRows) RawValues() [][]byte { return nil }
func (r *stubRows) Err() error          { return r.err }
func (r *stubRows) Close()              {}
func (r *stubRows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag{}
}
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return errors.New("scan not implemented")
	}
	return r.scan(dest...)
}

func scopedCtx(tx *stubTx, orgID uuid.UUID) context.Context {
	ctx := composables.WithScope(context.Background(), composables.TenantScope{OrganizationID: orgID})
	return context.WithValue(ctx, constants.TxKey, tx)
}

func privilegedCtx(tx *stubTx) context.Context {
	ctx := composables.WithScope(context.Background(), composables.TenantScope{Privileged: true})
	return context.WithValue(ctx, constants.TxKey, tx)
}
