package project

import "errors"

var (
	// ErrZoneNotFound indicates the zone doesn't exist.
	ErrZoneNotFound = errors.New("zone not found")
	// ErrNoBackground indicates an operation needs a placed background image.
	ErrNoBackground = errors.New("no background placed")
)
