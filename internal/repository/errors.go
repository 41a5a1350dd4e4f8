package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist. The project
	// store returns it when no project has been saved.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
