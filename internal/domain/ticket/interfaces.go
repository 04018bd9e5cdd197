package ticket

import "context"

// Repository provides persistence operations for tickets.
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id string) (*Ticket, error)
	Update(ctx context.Context, t *Ticket) error
	Delete(ctx context.Context, id string) error
	// List returns tickets ordered by service date, newest first.
	List(ctx context.Context, opts ListOptions) ([]Ticket, error)
}
