package contract

import "errors"

var (
	// ErrContractNotFound indicates the contract doesn't exist.
	ErrContractNotFound = errors.New("contract not found")
	// ErrNoActiveContract indicates no contract covers the requested date.
	ErrNoActiveContract = errors.New("no active contract")
	// ErrDuplicatePeriod indicates the client already has a contract starting that day.
	ErrDuplicatePeriod = errors.New("client already has a contract starting on that date")
	// ErrClientNotFound indicates the referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrInvalidInput indicates invalid input for contract operations.
	ErrInvalidInput = errors.New("invalid contract input")
)
