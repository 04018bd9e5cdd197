package contract

import (
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
)

// Contract grants a client a pool of hours over a closed date range.
// StartDate and EndDate are calendar days at UTC midnight.
type Contract struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"client_id"`
	ClientName       string    `json:"client_name,omitempty"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	ContractedHours  int       `json:"contracted_hours"`
	Notes            string    `json:"notes,omitempty"`
	IsRecurring      bool      `json:"is_recurring"`
	RecurrenceMonths int       `json:"recurrence_months"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Status classifies the contract relative to asOf.
func (c *Contract) Status(asOf time.Time) billing.ContractStatus {
	return billing.ResolveStatus(c.StartDate, c.EndDate, asOf)
}

// DaysUntilExpiry returns whole days from asOf to the end date.
func (c *Contract) DaysUntilExpiry(asOf time.Time) int {
	return billing.DaysUntilExpiry(c.EndDate, asOf)
}

// SuccessorPeriod returns the period that immediately follows the contract:
// it starts the day after EndDate and ends the day before the same day of
// month RecurrenceMonths later. Days past the target month's end roll into
// the following month, so a chain that starts on the 31st realigns to
// calendar months.
func (c *Contract) SuccessorPeriod() (start, end time.Time) {
	months := c.RecurrenceMonths
	if months < MinRecurrenceMonths {
		months = MinRecurrenceMonths
	}
	start = billing.Day(c.EndDate).AddDate(0, 0, 1)
	end = start.AddDate(0, months, -1)
	return start, end
}

// Successor builds the next contract in a recurring chain.
func (c *Contract) Successor(id string, now time.Time) *Contract {
	start, end := c.SuccessorPeriod()
	return &Contract{
		ID:               id,
		ClientID:         c.ClientID,
		StartDate:        start,
		EndDate:          end,
		ContractedHours:  c.ContractedHours,
		Notes:            c.Notes,
		IsRecurring:      true,
		RecurrenceMonths: c.RecurrenceMonths,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// StatusView decorates a contract with its resolved status for a date.
type StatusView struct {
	Contract
	Status   billing.ContractStatus `json:"status"`
	DaysLeft int                    `json:"days_left"`
}

// NewStatusView resolves the status of c as of asOf.
func NewStatusView(c Contract, asOf time.Time) StatusView {
	return StatusView{
		Contract: c,
		Status:   c.Status(asOf),
		DaysLeft: c.DaysUntilExpiry(asOf),
	}
}

// ListOptions filters contract listings.
type ListOptions struct {
	ClientID string
	Limit    int
	Offset   int
}
