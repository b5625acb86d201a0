package resource

import "errors"

var (
	// ErrResourceNotFound indicates the resource doesn't exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates invalid resource input.
	ErrInvalidInput = errors.New("invalid resource input")
)
