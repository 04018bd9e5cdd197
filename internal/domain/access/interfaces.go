package access

import "context"

// Repository provides persistence for API keys.
type Repository interface {
	Create(ctx context.Context, key *APIKey) error
	GetByHash(ctx context.Context, keyHash string) (*APIKey, error)
	TouchLastUsed(ctx context.Context, keyHash string) error
}
