package entity

import "time"

// Board groups ordered columns inside a project.
type Board struct {
	ID        string
	ProjectID string
	Name      string
	CreatedAt time.Time
}
