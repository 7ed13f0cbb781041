package application

// Patch models a tri-state field update: leave the field untouched, clear
// it back to its default, or set a new value. The HTTP layer maps an absent
// JSON key to Unchanged, an explicit null to Clear, and a value to Set, so
// services never have to distinguish undefined from null themselves.
type Patch[T any] struct {
	set   bool
	clear bool
	value T
}

// Unchanged leaves the field as it is.
func Unchanged[T any]() Patch[T] { return Patch[T]{} }

// Clear resets the field to its default.
func Clear[T any]() Patch[T] { return Patch[T]{clear: true} }

// Set assigns a new value to the field.
func Set[T any](v T) Patch[T] { return Patch[T]{set: true, value: v} }

// IsSet reports whether the patch carries a new value, returning it.
func (p Patch[T]) IsSet() (T, bool) { return p.value, p.set }

// IsClear reports whether the patch resets the field.
func (p Patch[T]) IsClear() bool { return p.clear }

// IsUnchanged reports whether the patch leaves the field alone.
func (p Patch[T]) IsUnchanged() bool { return !p.set && !p.clear }
