package client

import "errors"

var (
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrClientInUse indicates the client still owns contracts, tickets or usage rows.
	ErrClientInUse = errors.New("client has dependent records")
	// ErrInvalidInput indicates invalid input for client operations.
	ErrInvalidInput = errors.New("invalid client input")
)
