package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/ticket"
)

// TicketRepository implements ticket.Repository for SQLite
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

type ticketRow struct {
	ID              string         `db:"id"`
	ClientID        string         `db:"client_id"`
	ClientName      sql.NullString `db:"client_name"`
	CreatedByUserID sql.NullString `db:"created_by_user_id"`
	Title           sql.NullString `db:"title"`
	RequesterName   string         `db:"requester_name"`
	Description     string         `db:"description"`
	ServiceDate     string         `db:"service_date"`
	StartTime       sql.NullString `db:"start_time"`
	EndTime         sql.NullString `db:"end_time"`
	DurationMinutes sql.NullInt64  `db:"duration_minutes"`
	BilledHours     int            `db:"billed_hours"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (row ticketRow) toDomain() (ticket.Ticket, error) {
	serviceDate, err := billing.ParseDate(row.ServiceDate)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("ticket %s: %w", row.ID, err)
	}
	t := ticket.Ticket{
		ID:              row.ID,
		ClientID:        row.ClientID,
		ClientName:      row.ClientName.String,
		CreatedByUserID: row.CreatedByUserID.String,
		Title:           row.Title.String,
		RequesterName:   row.RequesterName,
		Description:     row.Description,
		ServiceDate:     serviceDate,
		BilledHours:     row.BilledHours,
		Status:          ticket.Status(row.Status),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.StartTime.Valid {
		t.StartTime = &row.StartTime.String
	}
	if row.EndTime.Valid {
		t.EndTime = &row.EndTime.String
	}
	if row.DurationMinutes.Valid {
		minutes := int(row.DurationMinutes.Int64)
		t.DurationMinutes = &minutes
	}
	return t, nil
}

const ticketSelect = `
	SELECT
		t.id, t.client_id, cl.name AS client_name, t.created_by_user_id, t.title,
		t.requester_name, t.description, t.service_date, t.start_time, t.end_time,
		t.duration_minutes, t.billed_hours, t.status, t.created_at, t.updated_at
	FROM tickets t
	LEFT JOIN clients cl ON cl.id = t.client_id
`

// Create inserts a new ticket
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets (
			id, client_id, created_by_user_id, title, requester_name, description,
			service_date, start_time, end_time, duration_minutes, billed_hours,
			status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.ClientID,
		nullString(t.CreatedByUserID),
		nullString(t.Title),
		t.RequesterName,
		t.Description,
		billing.FormatDate(t.ServiceDate),
		t.StartTime,
		t.EndTime,
		t.DurationMinutes,
		t.BilledHours,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", mapWriteError(err))
	}
	return nil
}

// Get retrieves a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	var row ticketRow
	if err := r.db.GetContext(ctx, &row, ticketSelect+` WHERE t.id = ?`, id); err != nil {
		return nil, mapReadError(err)
	}
	t, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update overwrites a ticket's mutable fields
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tickets SET
			title = ?, requester_name = ?, description = ?, service_date = ?,
			start_time = ?, end_time = ?, duration_minutes = ?, billed_hours = ?,
			status = ?, updated_at = ?
		WHERE id = ?
	`,
		nullString(t.Title),
		t.RequesterName,
		t.Description,
		billing.FormatDate(t.ServiceDate),
		t.StartTime,
		t.EndTime,
		t.DurationMinutes,
		t.BilledHours,
		t.Status,
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", mapWriteError(err))
	}
	return requireAffected(res)
}

// Delete removes a ticket
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	return requireAffected(res)
}

// List returns tickets matching the filters, newest service date first
func (r *TicketRepository) List(ctx context.Context, opts ticket.ListOptions) ([]ticket.Ticket, error) {
	query := ticketSelect
	var args []any
	var conditions []string

	if opts.ClientID != "" {
		conditions = append(conditions, "t.client_id = ?")
		args = append(args, opts.ClientID)
	}
	if opts.From != nil {
		conditions = append(conditions, "t.service_date >= ?")
		args = append(args, billing.FormatDate(*opts.From))
	}
	if opts.To != nil {
		conditions = append(conditions, "t.service_date <= ?")
		args = append(args, billing.FormatDate(*opts.To))
	}
	if opts.Status != nil {
		conditions = append(conditions, "t.status = ?")
		args = append(args, *opts.Status)
	}
	if opts.Search != "" {
		pattern := likePattern(opts.Search)
		conditions = append(conditions, `(t.requester_name LIKE ? ESCAPE '\' OR t.description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}
	query += " ORDER BY t.service_date DESC, t.created_at DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	var rows []ticketRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	tickets := make([]ticket.Ticket, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// likePattern builds a case-insensitive substring pattern with LIKE
// metacharacters escaped.
func likePattern(term string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(term) + "%"
}
