package overlay

import "errors"

var (
	// ErrNotFound indicates the row doesn't exist or belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation: the user already
	// has an overlay on this catalog entity.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")
)
