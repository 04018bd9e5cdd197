package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/consumption"
)

// ConsumptionRepository implements consumption.Repository for SQLite
type ConsumptionRepository struct {
	db *DB
}

// NewConsumptionRepository creates a new ConsumptionRepository
func NewConsumptionRepository(db *DB) *ConsumptionRepository {
	return &ConsumptionRepository{db: db}
}

// periodFilter restricts tickets to an inclusive service date range and,
// when clientID is set, to one client.
func periodFilter(clientID string, from, to time.Time) (string, []any) {
	where := "service_date >= ? AND service_date <= ?"
	args := []any{billing.FormatDate(from), billing.FormatDate(to)}
	if clientID != "" {
		where += " AND client_id = ?"
		args = append(args, clientID)
	}
	return where, args
}

// Totals counts tickets and sums billed hours in one statement
func (r *ConsumptionRepository) Totals(ctx context.Context, clientID string, from, to time.Time) (consumption.Totals, error) {
	where, args := periodFilter(clientID, from, to)
	var totals consumption.Totals
	err := r.db.GetContext(ctx, &totals, `
		SELECT COUNT(*) AS tickets, COALESCE(SUM(billed_hours), 0) AS hours
		FROM tickets WHERE `+where, args...)
	if err != nil {
		return consumption.Totals{}, fmt.Errorf("failed to sum billed hours: %w", err)
	}
	return totals, nil
}

// HoursByDay sums billed hours per service date, ascending
func (r *ConsumptionRepository) HoursByDay(ctx context.Context, clientID string, from, to time.Time) ([]consumption.DayHours, error) {
	where, args := periodFilter(clientID, from, to)
	days := []consumption.DayHours{}
	err := r.db.SelectContext(ctx, &days, `
		SELECT service_date, SUM(billed_hours) AS hours
		FROM tickets WHERE `+where+`
		GROUP BY service_date
		ORDER BY service_date ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate hours by day: %w", err)
	}
	return days, nil
}

// HoursByRequester ranks requesters by billed hours
func (r *ConsumptionRepository) HoursByRequester(ctx context.Context, clientID string, from, to time.Time, limit int) ([]consumption.RequesterHours, error) {
	where, args := periodFilter(clientID, from, to)
	args = append(args, limit)
	list := []consumption.RequesterHours{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT requester_name, SUM(billed_hours) AS hours
		FROM tickets WHERE `+where+`
		GROUP BY requester_name
		ORDER BY hours DESC, requester_name ASC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to rank requesters: %w", err)
	}
	return list, nil
}

// HoursByClient ranks clients by billed hours
func (r *ConsumptionRepository) HoursByClient(ctx context.Context, from, to time.Time, limit int) ([]consumption.ClientHours, error) {
	list := []consumption.ClientHours{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT t.client_id, cl.name AS client_name, SUM(t.billed_hours) AS hours
		FROM tickets t
		JOIN clients cl ON cl.id = t.client_id
		WHERE t.service_date >= ? AND t.service_date <= ?
		GROUP BY t.client_id, cl.name
		ORDER BY hours DESC, cl.name ASC
		LIMIT ?`, billing.FormatDate(from), billing.FormatDate(to), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank clients: %w", err)
	}
	return list, nil
}
