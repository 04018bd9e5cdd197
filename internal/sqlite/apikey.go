package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
)

// APIKeyRepository implements access.Repository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a hashed API key
func (r *APIKeyRepository) Create(ctx context.Context, key *access.APIKey) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO api_keys (key_hash, user_id, role, client_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, key.KeyHash, key.UserID, key.Role, key.ClientID, nullString(key.Description), key.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", mapWriteError(err))
	}
	return nil
}

// GetByHash looks up a key by the hash of its token
func (r *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*access.APIKey, error) {
	var key access.APIKey
	err := r.db.GetContext(ctx, &key, `
		SELECT key_hash, user_id, role, client_id, COALESCE(description, '') AS description, created_at, last_used
		FROM api_keys WHERE key_hash = ?
	`, keyHash)
	if err != nil {
		return nil, mapReadError(err)
	}
	return &key, nil
}

// TouchLastUsed records the time a key was last presented
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, keyHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), keyHash)
	if err != nil {
		return fmt.Errorf("failed to update api key: %w", err)
	}
	return requireAffected(res)
}
