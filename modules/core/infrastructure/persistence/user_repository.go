package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/silvacore/patrimony/modules/core/domain/aggregates/user"
	"github.com/silvacore/patrimony/pkg/composables"
)

type UserRepository struct{}

func NewUserRepository() user.Repository {
	return &UserRepository{}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var (
		userID         uuid.UUID
		organizationID *uuid.UUID
		privileged     bool
		permissions    []string
	)
	if err := tx.QueryRow(ctx, `
		SELECT u.id, u.organization_id, u.is_privileged, u.permissions
		FROM users u
		WHERE u.id = $1`,
		id,
	).Scan(&userID, &organizationID, &privileged, &permissions); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.New(userID, organizationID, privileged, permissions), nil
}
