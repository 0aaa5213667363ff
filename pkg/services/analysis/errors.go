package analysis

import "errors"

var (
	// ErrEmptyInput is returned by the loader when the history has no samples.
	ErrEmptyInput = errors.New("empty emotion history")
	// ErrMalformedInput is returned when a sample cannot be normalized.
	ErrMalformedInput = errors.New("malformed emotion history")
)
