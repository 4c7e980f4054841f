package errors

import "errors"

var (
	ErrNotFound        = errors.New("temporary reservation not found")
	ErrInvalidID       = errors.New("invalid temporary reservation ID format")
	ErrAlreadyResolved = errors.New("temporary reservation is no longer pending")
)
