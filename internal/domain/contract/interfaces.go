package contract

import (
	"context"
	"time"
)

// Repository provides persistence operations for contracts.
type Repository interface {
	Create(ctx context.Context, c *Contract) error
	Get(ctx context.Context, id string) (*Contract, error)
	Update(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id string) error
	// List returns contracts ordered by start date, newest first.
	List(ctx context.Context, opts ListOptions) ([]Contract, error)
	// ActiveOn returns contracts whose period contains asOf, newest start
	// first. An empty clientID matches every client.
	ActiveOn(ctx context.Context, clientID string, asOf time.Time) ([]Contract, error)
	// EndingBetween returns started contracts whose end date falls in
	// [from, to], ordered by end date.
	EndingBetween(ctx context.Context, from, to time.Time) ([]Contract, error)
}
