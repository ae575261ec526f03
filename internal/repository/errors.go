package repository

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist or,
	// for teams, has been soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint (username, email,
	// team name) is violated.
	ErrDuplicate = errors.New("already exists")
)
