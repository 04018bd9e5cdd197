package product

import "context"

// Repository provides persistence operations for product usage.
type Repository interface {
	Create(ctx context.Context, u *Usage) error
	Get(ctx context.Context, id string) (*Usage, error)
	Update(ctx context.Context, u *Usage) error
	Delete(ctx context.Context, id string) error
	// List returns usage ordered by competence month, newest first.
	List(ctx context.Context, opts ListOptions) ([]Usage, error)
}
