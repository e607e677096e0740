package errors

import "errors"

var (
	// ErrNotFound is returned for missing resources and for resources owned by someone else.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("already exists")
)
