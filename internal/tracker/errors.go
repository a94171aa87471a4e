package tracker

import "errors"

var (
	// ErrUnauthenticated indicates the operation ran without a user id.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound indicates the target doesn't exist or isn't visible to the
	// calling user. Rows owned by other users surface as this error too, so
	// their existence never leaks.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates the user already has this title in their library.
	ErrDuplicate = errors.New("already in library")

	// ErrInvalidInput indicates a validation failure on caller input.
	ErrInvalidInput = errors.New("invalid input")
)
