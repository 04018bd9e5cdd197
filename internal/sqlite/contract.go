package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/contract"
)

// ContractRepository implements contract.Repository and renewal.Repository for SQLite
type ContractRepository struct {
	db *DB
}

// NewContractRepository creates a new ContractRepository
func NewContractRepository(db *DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type contractRow struct {
	ID               string         `db:"id"`
	ClientID         string         `db:"client_id"`
	ClientName       sql.NullString `db:"client_name"`
	StartDate        string         `db:"start_date"`
	EndDate          string         `db:"end_date"`
	ContractedHours  int            `db:"contracted_hours"`
	Notes            sql.NullString `db:"notes"`
	IsRecurring      bool           `db:"is_recurring"`
	RecurrenceMonths int            `db:"recurrence_months"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (row contractRow) toDomain() (contract.Contract, error) {
	start, err := billing.ParseDate(row.StartDate)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("contract %s: %w", row.ID, err)
	}
	end, err := billing.ParseDate(row.EndDate)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("contract %s: %w", row.ID, err)
	}
	return contract.Contract{
		ID:               row.ID,
		ClientID:         row.ClientID,
		ClientName:       row.ClientName.String,
		StartDate:        start,
		EndDate:          end,
		ContractedHours:  row.ContractedHours,
		Notes:            row.Notes.String,
		IsRecurring:      row.IsRecurring,
		RecurrenceMonths: row.RecurrenceMonths,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

func toContracts(rows []contractRow) ([]contract.Contract, error) {
	out := make([]contract.Contract, 0, len(rows))
	for _, row := range rows {
		c, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

const contractSelect = `
	SELECT
		k.id, k.client_id, cl.name AS client_name, k.start_date, k.end_date,
		k.contracted_hours, k.notes, k.is_recurring, k.recurrence_months,
		k.created_at, k.updated_at
	FROM contracts k
	LEFT JOIN clients cl ON cl.id = k.client_id
`

const insertContract = `
	INSERT INTO contracts (
		id, client_id, start_date, end_date, contracted_hours, notes,
		is_recurring, recurrence_months, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func contractArgs(c *contract.Contract) []any {
	return []any{
		c.ID,
		c.ClientID,
		billing.FormatDate(c.StartDate),
		billing.FormatDate(c.EndDate),
		c.ContractedHours,
		nullString(c.Notes),
		c.IsRecurring,
		c.RecurrenceMonths,
		c.CreatedAt,
		c.UpdatedAt,
	}
}

// Create inserts a new contract. A second contract for the same client and
// start date fails with ErrConflict.
func (r *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	if _, err := r.db.ExecContext(ctx, insertContract, contractArgs(c)...); err != nil {
		return fmt.Errorf("failed to create contract: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a contract by ID
func (r *ContractRepository) Get(ctx context.Context, id string) (*contract.Contract, error) {
	var row contractRow
	if err := r.db.GetContext(ctx, &row, contractSelect+` WHERE k.id = ?`, id); err != nil {
		return nil, mapReadError(err)
	}
	c, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Update overwrites a contract's editable fields
func (r *ContractRepository) Update(ctx context.Context, c *contract.Contract) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contracts SET
			start_date = ?, end_date = ?, contracted_hours = ?, notes = ?,
			is_recurring = ?, recurrence_months = ?, updated_at = ?
		WHERE id = ?
	`,
		billing.FormatDate(c.StartDate),
		billing.FormatDate(c.EndDate),
		c.ContractedHours,
		nullString(c.Notes),
		c.IsRecurring,
		c.RecurrenceMonths,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a contract
func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// List returns contracts ordered by start date, newest first
func (r *ContractRepository) List(ctx context.Context, opts contract.ListOptions) ([]contract.Contract, error) {
	query := contractSelect
	var args []any
	if opts.ClientID != "" {
		query += ` WHERE k.client_id = ?`
		args = append(args, opts.ClientID)
	}
	query += ` ORDER BY k.start_date DESC, k.id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}
	return r.selectContracts(ctx, r.db, query, args...)
}

// ActiveOn returns contracts whose period contains asOf, newest start first
func (r *ContractRepository) ActiveOn(ctx context.Context, clientID string, asOf time.Time) ([]contract.Contract, error) {
	day := billing.FormatDate(asOf)
	query := contractSelect + ` WHERE k.start_date <= ? AND k.end_date >= ?`
	args := []any{day, day}
	if clientID != "" {
		query += ` AND k.client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY k.start_date DESC, k.id`
	return r.selectContracts(ctx, r.db, query, args...)
}

// EndingBetween returns started contracts ending in [from, to], soonest first
func (r *ContractRepository) EndingBetween(ctx context.Context, from, to time.Time) ([]contract.Contract, error) {
	fromDay := billing.FormatDate(from)
	query := contractSelect + `
		WHERE k.start_date <= ? AND k.end_date >= ? AND k.end_date <= ?
		ORDER BY k.end_date ASC, k.id`
	return r.selectContracts(ctx, r.db, query, fromDay, fromDay, billing.FormatDate(to))
}

// ListExpiredRecurring returns recurring contracts that ended before asOf
func (r *ContractRepository) ListExpiredRecurring(ctx context.Context, asOf time.Time) ([]contract.Contract, error) {
	query := contractSelect + `
		WHERE k.is_recurring = 1 AND k.end_date < ?
		ORDER BY k.end_date ASC, k.id`
	return r.selectContracts(ctx, r.db, query, billing.FormatDate(asOf))
}

// HasSuccessor reports whether the client has a contract starting after the given day
func (r *ContractRepository) HasSuccessor(ctx context.Context, clientID string, after time.Time) (bool, error) {
	return hasSuccessor(ctx, r.db, clientID, after)
}

// Renew inserts successor and clears the recurring flag on the original in a
// single transaction. The successor check is repeated inside the transaction
// and the (client_id, start_date) unique index rejects a concurrent duplicate;
// both outcomes roll back and report false.
func (r *ContractRepository) Renew(ctx context.Context, originalID string, successor *contract.Contract) (bool, error) {
	created := false
	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		var endDate string
		err := tx.GetContext(ctx, &endDate, `SELECT end_date FROM contracts WHERE id = ?`, originalID)
		if err != nil {
			return mapReadError(err)
		}
		end, err := billing.ParseDate(endDate)
		if err != nil {
			return err
		}

		exists, err := hasSuccessor(ctx, tx, successor.ClientID, end)
		if err != nil {
			return err
		}
		if exists {
			return errSkipRenewal
		}

		if _, err := tx.ExecContext(ctx, insertContract, contractArgs(successor)...); err != nil {
			if isUniqueViolation(err) {
				return errSkipRenewal
			}
			return fmt.Errorf("failed to insert successor: %w", mapWriteError(err))
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE contracts SET is_recurring = 0, updated_at = ? WHERE id = ?
		`, successor.CreatedAt, originalID); err != nil {
			return fmt.Errorf("failed to clear recurring flag: %w", err)
		}
		created = true
		return nil
	})
	if errors.Is(err, errSkipRenewal) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return created, nil
}

var errSkipRenewal = errors.New("successor already exists")

func hasSuccessor(ctx context.Context, q sqlx.QueryerContext, clientID string, after time.Time) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists, `
		SELECT EXISTS(SELECT 1 FROM contracts WHERE client_id = ? AND start_date > ?)
	`, clientID, billing.FormatDate(after))
	if err != nil {
		return false, fmt.Errorf("failed to check successor: %w", err)
	}
	return exists, nil
}

func (r *ContractRepository) selectContracts(ctx context.Context, q sqlx.QueryerContext, query string, args ...any) ([]contract.Contract, error) {
	var rows []contractRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return toContracts(rows)
}
