package syntax

import "errors"

var (
	// ErrNotFound is returned when a required declaration is absent.
	ErrNotFound = errors.New("not found")

	// ErrMalformedAttribute is returned when an attribute or its payload
	// does not have the expected shape.
	ErrMalformedAttribute = errors.New("malformed attribute")
)
