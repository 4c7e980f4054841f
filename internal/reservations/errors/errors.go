package errors

import "errors"

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrInvalidID         = errors.New("invalid reservation ID format")
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrStaleStatus       = errors.New("reservation status changed concurrently")
)
