package repositories

import "errors"

var (
	// ErrNotFound is wrapped by every repository lookup that finds no record.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is wrapped when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate")
)
