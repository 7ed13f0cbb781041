package entity

import (
	"time"
)

// GlobalRole is the platform-wide role carried on the user record.
type GlobalRole string

const (
	RoleUser       GlobalRole = "USER"
	RoleSuperAdmin GlobalRole = "SUPERADMIN"
)

// AuthProvider identifies how the account authenticates.
type AuthProvider string

const (
	ProviderEmail  AuthProvider = "email"
	ProviderGoogle AuthProvider = "google"
)

// User is the aggregate root for the identity domain.
// PasswordHash is empty for Google accounts and for invited users that
// have not accepted their invitation yet.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	GoogleID          string
	AvatarURL         string
	AuthProvider      AuthProvider
	Role              GlobalRole
	InvitationToken   string
	InvitationExpires time.Time
	CreatedAt         time.Time
}

// IsSuperAdmin reports whether the user holds the global SUPERADMIN role.
func (u *User) IsSuperAdmin() bool { return u.Role == RoleSuperAdmin }

// HasPendingInvitation reports whether the user still has to accept an invitation.
func (u *User) HasPendingInvitation() bool { return u.InvitationToken != "" }
