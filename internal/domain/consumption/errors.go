package consumption

import "errors"

var (
	// ErrInvalidPeriod indicates a missing or inverted date range.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrContractNotFound indicates the contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")
)
