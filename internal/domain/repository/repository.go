package repository

import "errors"

// ErrNotFound is returned by every repository when the requested document
// does not exist. Services translate it into resource-specific errors.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique index rejects a write
// (user email, google id, (project,user) membership pair).
var ErrDuplicate = errors.New("duplicate key")

// OrderUpdate assigns an order value to one document in a bulk reorder.
type OrderUpdate struct {
	ID    string
	Order int
}
