package ticket

import "errors"

var (
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrInvalidTransition indicates a status change the lifecycle doesn't allow.
	ErrInvalidTransition = errors.New("invalid ticket status transition")
	// ErrClientNotFound indicates the referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrInvalidInput indicates invalid input for ticket operations.
	ErrInvalidInput = errors.New("invalid ticket input")
)
