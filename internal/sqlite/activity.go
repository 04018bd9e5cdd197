package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/hourbank/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type activityRow struct {
	ID           int64          `db:"id"`
	ClientID     sql.NullString `db:"client_id"`
	ContractID   sql.NullString `db:"contract_id"`
	TicketID     sql.NullString `db:"ticket_id"`
	ActorID      string         `db:"actor_id"`
	ActivityType string         `db:"activity_type"`
	Summary      string         `db:"summary"`
	Details      sql.NullString `db:"details"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Log inserts a new activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (
			client_id, contract_id, ticket_id, actor_id,
			activity_type, summary, details, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ClientID,
		entry.ContractID,
		entry.TicketID,
		entry.ActorID,
		entry.ActivityType,
		entry.Summary,
		nullString(entry.Details),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt

	return nil
}

// List returns activity entries matching the given filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	query := `
		SELECT
			id, client_id, contract_id, ticket_id, actor_id,
			activity_type, summary, details, created_at
		FROM activity_log
	`

	var args []any
	var conditions []string

	if opts.ClientID != "" {
		conditions = append(conditions, "client_id = ?")
		args = append(args, opts.ClientID)
	}
	if opts.ContractID != nil {
		conditions = append(conditions, "contract_id = ?")
		args = append(args, *opts.ContractID)
	}
	if opts.TicketID != nil {
		conditions = append(conditions, "ticket_id = ?")
		args = append(args, *opts.TicketID)
	}
	if opts.ActivityType != nil {
		conditions = append(conditions, "activity_type = ?")
		args = append(args, *opts.ActivityType)
	}

	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	entries := make([]activity.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entry := activity.ActivityEntry{
			ID:           row.ID,
			ActorID:      row.ActorID,
			ActivityType: activity.ActivityType(row.ActivityType),
			Summary:      row.Summary,
			Details:      row.Details.String,
			CreatedAt:    row.CreatedAt,
		}
		if row.ClientID.Valid {
			entry.ClientID = &row.ClientID.String
		}
		if row.ContractID.Valid {
			entry.ContractID = &row.ContractID.String
		}
		if row.TicketID.Valid {
			entry.TicketID = &row.TicketID.String
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
