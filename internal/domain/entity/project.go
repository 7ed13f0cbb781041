package entity

import "time"

// ProjectRole is the role a user holds inside one project.
type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "ADMIN"
	ProjectRoleMember ProjectRole = "MEMBER"
)

// Project is the top of the ownership chain. Everything below it
// (boards, columns, cards, memberships) is scoped to exactly one project.
type Project struct {
	ID        string
	Name      string
	CreatedBy string
	CreatedAt time.Time
}

// ProjectMember grants a user a role scoped to one project.
// The (ProjectID, UserID) pair is unique.
type ProjectMember struct {
	ID        string
	ProjectID string
	UserID    string
	Role      ProjectRole
	CreatedAt time.Time
}

// IsAdmin reports whether the membership carries project-admin rights.
func (m *ProjectMember) IsAdmin() bool { return m.Role == ProjectRoleAdmin }
