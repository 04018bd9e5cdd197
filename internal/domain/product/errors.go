package product

import "errors"

var (
	// ErrUsageNotFound indicates the product usage record doesn't exist.
	ErrUsageNotFound = errors.New("product usage not found")
	// ErrClientNotFound indicates the referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrInvalidInput indicates invalid input for product usage operations.
	ErrInvalidInput = errors.New("invalid product usage input")
)
