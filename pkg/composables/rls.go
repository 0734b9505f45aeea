package composables

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/silvacore/patrimony/pkg/configuration"
)

// ApplyTenantRLS pins the Postgres row-level-security tenant for the
// transaction. Privileged scopes skip the pin so cross-tenant reads work.
func ApplyTenantRLS(ctx context.Context, tx pgx.Tx) error {
	if configuration.Use().RLSEnforce != "enforce" {
		return nil
	}
	scope, err := UseScope(ctx)
	if err != nil {
		return fmt.Errorf("rls requires tenant scope in context: %w", err)
	}
	if scope.Privileged {
		return nil
	}
	_, err = tx.Exec(ctx, "SELECT set_config('app.current_tenant', $1, true)", scope.OrganizationID.String())
	if err != nil {
		return fmt.Errorf("failed to set rls tenant context: %w", err)
	}
	return nil
}
