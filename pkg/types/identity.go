package types

import "github.com/google/uuid"

// Identity is the caller supplied by the upstream authentication gate.
// The engine trusts it without re-verifying credentials but still applies
// its own tenant-scope filtering on every query.
type Identity interface {
	ID() uuid.UUID
	// OrganizationID returns the tenant attached to the session, when any.
	OrganizationID() (uuid.UUID, bool)
	// Privileged reports whether the caller holds a global role that
	// bypasses tenant scoping.
	Privileged() bool
	Can(action string) bool
}
