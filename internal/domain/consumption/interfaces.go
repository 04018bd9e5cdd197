package consumption

import (
	"context"
	"time"

	"github.com/rpggio/hourbank/internal/domain/contract"
)

// Repository computes billed-hour aggregates over tickets. Each method is a
// single query so its figures come from one consistent read. An empty
// clientID matches every client.
type Repository interface {
	Totals(ctx context.Context, clientID string, from, to time.Time) (Totals, error)
	HoursByDay(ctx context.Context, clientID string, from, to time.Time) ([]DayHours, error)
	HoursByRequester(ctx context.Context, clientID string, from, to time.Time, limit int) ([]RequesterHours, error)
	HoursByClient(ctx context.Context, from, to time.Time, limit int) ([]ClientHours, error)
}

// ContractSource looks up the contracts consumption is measured against.
type ContractSource interface {
	Get(ctx context.Context, id string) (*contract.Contract, error)
	ActiveOn(ctx context.Context, clientID string, asOf time.Time) ([]contract.Contract, error)
}
