package entity

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a versioned update lost the race
	// against another writer.
	ErrVersionConflict = errors.New("version conflict")
)
