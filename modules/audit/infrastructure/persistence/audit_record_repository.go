package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/silvacore/patrimony/modules/audit/domain/entities/auditrecord"
	"github.com/silvacore/patrimony/pkg/composables"
	"github.com/silvacore/patrimony/pkg/repo"
)

type AuditRecordRepository struct{}

func NewAuditRecordRepository() auditrecord.Repository {
	return &AuditRecordRepository{}
}

func buildAuditFilters(scope composables.TenantScope, params *auditrecord.FindParams) ([]string, []any) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if !scope.Privileged {
		args = append(args, scope.OrganizationID)
		where = append(where, fmt.Sprintf("a.organization_id = $%d", len(args)))
	}
	if params != nil {
		if action := strings.TrimSpace(params.Action); action != "" {
			args = append(args, action)
			where = append(where, fmt.Sprintf("a.action = $%d", len(args)))
		}
		if params.EntityID != nil {
			args = append(args, *params.EntityID)
			where = append(where, fmt.Sprintf("a.entity_id = $%d", len(args)))
		}
	}
	if len(where) == 0 {
		where = append(where, "1 = 1")
	}
	return where, args
}

func (r *AuditRecordRepository) GetPaginated(ctx context.Context, params *auditrecord.FindParams) ([]auditrecord.AuditRecord, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return nil, err
	}

	where, args := buildAuditFilters(scope, params)
	query := `
		SELECT a.id, a.organization_id, a.actor_id, a.action, a.level,
		       a.entity_id, a.entity_code, a.payload, a.created_at
		FROM audit_records a
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY a.created_at DESC
	`
	if params != nil {
		query += " " + repo.FormatLimitOffset(params.Limit, params.Offset)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []auditrecord.AuditRecord
	for rows.Next() {
		var record auditrecord.AuditRecord
		if err := rows.Scan(
			&record.ID,
			&record.OrganizationID,
			&record.ActorID,
			&record.Action,
			&record.Level,
			&record.EntityID,
			&record.EntityCode,
			&record.Payload,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *AuditRecordRepository) Count(ctx context.Context, params *auditrecord.FindParams) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	scope, err := composables.UseScope(ctx)
	if err != nil {
		return 0, err
	}
	where, args := buildAuditFilters(scope, params)

	var count int64
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM audit_records a
		WHERE `+strings.Join(where, " AND "),
		args...,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AuditRecordRepository) Create(ctx context.Context, record auditrecord.AuditRecord) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO audit_records (
			id, organization_id, actor_id, action, level,
			entity_id, entity_code, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		record.ID,
		record.OrganizationID,
		record.ActorID,
		record.Action,
		record.Level,
		record.EntityID,
		record.EntityCode,
		record.Payload,
	)
	return err
}
