package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/hourbank/internal/domain/product"
)

// ProductRepository implements product.Repository for SQLite
type ProductRepository struct {
	db *DB
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

type productRow struct {
	ID              string         `db:"id"`
	ClientID        string         `db:"client_id"`
	ClientName      sql.NullString `db:"client_name"`
	CompetenceMonth string         `db:"competence_month"`
	ProductName     string         `db:"product_name"`
	Quantity        float64        `db:"quantity"`
	Notes           sql.NullString `db:"notes"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (row productRow) toDomain() product.Usage {
	return product.Usage{
		ID:              row.ID,
		ClientID:        row.ClientID,
		ClientName:      row.ClientName.String,
		CompetenceMonth: row.CompetenceMonth,
		ProductName:     row.ProductName,
		Quantity:        row.Quantity,
		Notes:           row.Notes.String,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

const productSelect = `
	SELECT
		p.id, p.client_id, cl.name AS client_name, p.competence_month,
		p.product_name, p.quantity, p.notes, p.created_at, p.updated_at
	FROM product_usages p
	LEFT JOIN clients cl ON cl.id = p.client_id
`

// Create inserts a product usage record
func (r *ProductRepository) Create(ctx context.Context, u *product.Usage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO product_usages (
			id, client_id, competence_month, product_name, quantity, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.ClientID, u.CompetenceMonth, u.ProductName, u.Quantity, nullString(u.Notes), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product usage: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a product usage record by ID
func (r *ProductRepository) Get(ctx context.Context, id string) (*product.Usage, error) {
	var row productRow
	if err := r.db.GetContext(ctx, &row, productSelect+` WHERE p.id = ?`, id); err != nil {
		return nil, mapReadError(err)
	}
	u := row.toDomain()
	return &u, nil
}

// Update overwrites a product usage record
func (r *ProductRepository) Update(ctx context.Context, u *product.Usage) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE product_usages SET
			competence_month = ?, product_name = ?, quantity = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, u.CompetenceMonth, u.ProductName, u.Quantity, nullString(u.Notes), u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update product usage: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a product usage record
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_usages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product usage: %w", err)
	}
	return requireAffected(res)
}

// List returns product usage ordered by competence month, newest first
func (r *ProductRepository) List(ctx context.Context, opts product.ListOptions) ([]product.Usage, error) {
	query := productSelect
	var args []any
	var conditions []string
	if opts.ClientID != "" {
		conditions = append(conditions, "p.client_id = ?")
		args = append(args, opts.ClientID)
	}
	if opts.CompetenceMonth != "" {
		conditions = append(conditions, "p.competence_month = ?")
		args = append(args, opts.CompetenceMonth)
	}
	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}
	query += " ORDER BY p.competence_month DESC, p.product_name ASC"

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list product usage: %w", err)
	}
	list := make([]product.Usage, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toDomain())
	}
	return list, nil
}
