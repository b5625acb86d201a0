// Package repository holds the errors shared by every storage backend.
package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert reuses an existing identifier
	ErrDuplicate = errors.New("duplicate identifier")
)
