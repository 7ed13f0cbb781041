package application

import "github.com/flowboard/flowboard-api/internal/domain/entity"

// Actor is the authenticated identity attached to every core operation.
// It is derived from a verified bearer token at the HTTP boundary and
// trusted unconditionally below it.
type Actor struct {
	ID    string
	Email string
	Role  entity.GlobalRole
}

// IsSuperAdmin reports whether the actor bypasses project-level checks.
func (a Actor) IsSuperAdmin() bool { return a.Role == entity.RoleSuperAdmin }
