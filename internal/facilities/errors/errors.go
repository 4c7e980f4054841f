package errors

import "errors"

var (
	ErrNotFound = errors.New("facility not found")

	ErrTypeNotFound = errors.New("facility type not found")

	ErrRateTypeNotFound = errors.New("rate type not found")

	ErrInvalidID = errors.New("invalid facility ID format")

	ErrCategoryMismatch = errors.New("category metadata does not match declared category")

	ErrPriceOutOfRange = errors.New("price outside allowed range for category")
)
