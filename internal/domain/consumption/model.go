package consumption

import (
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/contract"
)

// Totals is a ticket count and billed-hour sum over a period.
type Totals struct {
	Tickets int `db:"tickets" json:"total_tickets"`
	Hours   int `db:"hours" json:"total_hours"`
}

// DayHours is the billed-hour sum of one service date.
type DayHours struct {
	Date  string `db:"service_date" json:"date"`
	Hours int    `db:"hours" json:"hours"`
}

// RequesterHours is the billed-hour sum of one requester.
type RequesterHours struct {
	Name  string `db:"requester_name" json:"name"`
	Hours int    `db:"hours" json:"hours"`
}

// ClientHours is the billed-hour sum of one client.
type ClientHours struct {
	ClientID   string `db:"client_id" json:"client_id"`
	ClientName string `db:"client_name" json:"client_name"`
	Hours      int    `db:"hours" json:"hours"`
}

// ContractUsage relates a contract's allotment to its consumption.
type ContractUsage struct {
	Contract contract.Contract `json:"contract"`
	billing.Usage
}

// Overview is a client's dashboard snapshot for a date. Contract and Usage
// are nil when no contract is active.
type Overview struct {
	ClientID     string               `json:"client_id"`
	AsOf         time.Time            `json:"as_of"`
	Contract     *contract.StatusView `json:"contract,omitempty"`
	Usage        *billing.Usage       `json:"usage,omitempty"`
	ExpiringSoon bool                 `json:"expiring_soon"`
}

// Period is an inclusive service-date range.
type Period struct {
	From time.Time
	To   time.Time
}
