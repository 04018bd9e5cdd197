package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/client"
	"github.com/rpggio/hourbank/internal/domain/consumption"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/domain/product"
	"github.com/rpggio/hourbank/internal/domain/ticket"
	"github.com/rpggio/hourbank/internal/validation"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// it does not recognize.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return &APIError{Code: "VALIDATION_FAILED", Message: err.Error(), Details: verr.Violations, RecoveryHint: "Fix the listed fields"}
	}

	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		return &APIError{Code: "UNAUTHENTICATED", Message: "missing or invalid credentials", RecoveryHint: "Send a valid bearer token"}
	case errors.Is(err, access.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: "operation not allowed for this user", RecoveryHint: "Client users can only act on their own client"}
	case errors.Is(err, client.ErrClientNotFound),
		errors.Is(err, contract.ErrClientNotFound),
		errors.Is(err, ticket.ErrClientNotFound),
		errors.Is(err, product.ErrClientNotFound):
		return &APIError{Code: "CLIENT_NOT_FOUND", Message: "client not found", RecoveryHint: "Check the client ID with list_clients"}
	case errors.Is(err, client.ErrClientInUse):
		return &APIError{Code: "CLIENT_IN_USE", Message: "client has contracts, tickets or product usage", RecoveryHint: "Mark the client inactive instead"}
	case errors.Is(err, contract.ErrContractNotFound), errors.Is(err, consumption.ErrContractNotFound):
		return &APIError{Code: "CONTRACT_NOT_FOUND", Message: "contract not found", RecoveryHint: "Check the contract ID with list_contracts"}
	case errors.Is(err, contract.ErrNoActiveContract):
		return &APIError{Code: "NO_ACTIVE_CONTRACT", Message: "no contract covers that date", RecoveryHint: "Create a contract or pick another date"}
	case errors.Is(err, contract.ErrDuplicatePeriod):
		return &APIError{Code: "DUPLICATE_PERIOD", Message: "client already has a contract starting on that date", RecoveryHint: "Update the existing contract"}
	case errors.Is(err, ticket.ErrTicketNotFound):
		return &APIError{Code: "TICKET_NOT_FOUND", Message: "ticket not found", RecoveryHint: "Check the ticket ID with list_tickets"}
	case errors.Is(err, ticket.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "invalid ticket status transition", RecoveryHint: "Tickets move open → in_progress → completed"}
	case errors.Is(err, product.ErrUsageNotFound):
		return &APIError{Code: "PRODUCT_USAGE_NOT_FOUND", Message: "product usage not found", RecoveryHint: "Check the ID with list_product_usage"}
	case errors.Is(err, consumption.ErrInvalidPeriod):
		return &APIError{Code: "INVALID_PERIOD", Message: err.Error(), RecoveryHint: "Pass from and to as YYYY-MM-DD with from <= to"}
	case errors.Is(err, access.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, client.ErrInvalidInput),
		errors.Is(err, contract.ErrInvalidInput),
		errors.Is(err, ticket.ErrInvalidInput),
		errors.Is(err, product.ErrInvalidInput):
		return &APIError{Code: "VALIDATION_FAILED", Message: err.Error(), RecoveryHint: "Check required arguments"}
	default:
		return nil
	}
}
