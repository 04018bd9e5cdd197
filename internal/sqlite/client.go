package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/hourbank/internal/domain/client"
)

// ClientRepository implements client.Repository for SQLite
type ClientRepository struct {
	db *DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, name, status, created_at, updated_at`

// Create inserts a new client
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a client by ID
func (r *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	var c client.Client
	err := r.db.GetContext(ctx, &c, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	if err != nil {
		return nil, mapReadError(err)
	}
	return &c, nil
}

// Update overwrites a client's name and status
func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE clients SET name = ?, status = ?, updated_at = ? WHERE id = ?
	`, c.Name, c.Status, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a client. Fails with ErrForeignKeyViolation while dependent rows exist.
func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// List returns clients ordered by name
func (r *ClientRepository) List(ctx context.Context, opts client.ListOptions) ([]client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	var args []any
	if opts.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, *opts.Status)
	}
	query += ` ORDER BY name COLLATE NOCASE, id`

	clients := []client.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
