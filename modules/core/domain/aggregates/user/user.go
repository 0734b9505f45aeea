package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/silvacore/patrimony/pkg/serrors"
)

// User is the caller identity the request layer hands to the services.
// Privileged users bypass tenant scoping and every permission check.
type User struct {
	id             uuid.UUID
	organizationID *uuid.UUID
	privileged     bool
	permissions    map[string]struct{}
}

func New(id uuid.UUID, organizationID *uuid.UUID, privileged bool, permissions []string) *User {
	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return &User{
		id:             id,
		organizationID: organizationID,
		privileged:     privileged,
		permissions:    set,
	}
}

func (u *User) ID() uuid.UUID {
	return u.id
}

func (u *User) OrganizationID() (uuid.UUID, bool) {
	if u.organizationID == nil {
		return uuid.Nil, false
	}
	return *u.organizationID, true
}

func (u *User) Privileged() bool {
	return u.privileged
}

func (u *User) Can(action string) bool {
	if u.privileged {
		return true
	}
	_, ok := u.permissions[action]
	return ok
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

var ErrNotFound = serrors.NewError("NOT_FOUND", "user not found", "Core.Users.NotFound")
