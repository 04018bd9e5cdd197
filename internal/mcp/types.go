package mcp

import (
	"time"

	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/client"
	"github.com/rpggio/hourbank/internal/domain/ticket"
)

type IDParams struct {
	ID string `json:"id"`
}

type CreateClientParams struct {
	Name   string        `json:"name"`
	Status client.Status `json:"status,omitempty"`
}

type UpdateClientParams struct {
	ID     string         `json:"id"`
	Name   *string        `json:"name,omitempty"`
	Status *client.Status `json:"status,omitempty"`
}

type ListClientsParams struct {
	Status *client.Status `json:"status,omitempty"`
}

type CreateContractParams struct {
	ClientID         string `json:"client_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	ContractedHours  int    `json:"contracted_hours"`
	Notes            string `json:"notes,omitempty"`
	IsRecurring      bool   `json:"is_recurring,omitempty"`
	RecurrenceMonths int    `json:"recurrence_months,omitempty"`
}

type UpdateContractParams struct {
	ID               string  `json:"id"`
	StartDate        *string `json:"start_date,omitempty"`
	EndDate          *string `json:"end_date,omitempty"`
	ContractedHours  *int    `json:"contracted_hours,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	IsRecurring      *bool   `json:"is_recurring,omitempty"`
	RecurrenceMonths *int    `json:"recurrence_months,omitempty"`
}

type ListContractsParams struct {
	ClientID string `json:"client_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// AsOfParams selects a client and an optional reference date (YYYY-MM-DD,
// default today).
type AsOfParams struct {
	ClientID string `json:"client_id,omitempty"`
	AsOf     string `json:"as_of,omitempty"`
}

type ListExpiringParams struct {
	AsOf        string `json:"as_of,omitempty"`
	HorizonDays *int   `json:"horizon_days,omitempty"`
}

type ContractUsageParams struct {
	ContractID string `json:"contract_id"`
}

// PeriodParams selects an inclusive service-date range. Both bounds default
// to the current calendar month.
type PeriodParams struct {
	ClientID string `json:"client_id,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type OpenTicketParams struct {
	ClientID      string `json:"client_id,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	RequesterName string `json:"requester_name,omitempty"`
}

// BillingParams carries optional time-tracking fields.
type BillingParams struct {
	StartTime       *string `json:"start_time,omitempty"`
	EndTime         *string `json:"end_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	BilledHours     *int    `json:"billed_hours,omitempty"`
}

func (b BillingParams) input() ticket.BillingInput {
	return ticket.BillingInput{
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		DurationMinutes: b.DurationMinutes,
		BilledHours:     b.BilledHours,
	}
}

type RecordTicketParams struct {
	ClientID      string        `json:"client_id"`
	Title         string        `json:"title,omitempty"`
	RequesterName string        `json:"requester_name"`
	Description   string        `json:"description"`
	ServiceDate   string        `json:"service_date"`
	Status        ticket.Status `json:"status,omitempty"`
	BillingParams
}

type UpdateTicketParams struct {
	ID            string  `json:"id"`
	Title         *string `json:"title,omitempty"`
	RequesterName *string `json:"requester_name,omitempty"`
	Description   *string `json:"description,omitempty"`
	ServiceDate   *string `json:"service_date,omitempty"`
	BillingParams
}

type CompleteTicketParams struct {
	ID          string  `json:"id"`
	ServiceDate *string `json:"service_date,omitempty"`
	BillingParams
}

type TransitionTicketParams struct {
	ID          string        `json:"id"`
	To          ticket.Status `json:"to"`
	ServiceDate *string       `json:"service_date,omitempty"`
	BillingParams
}

type ListTicketsParams struct {
	ClientID string         `json:"client_id,omitempty"`
	From     string         `json:"from,omitempty"`
	To       string         `json:"to,omitempty"`
	Status   *ticket.Status `json:"status,omitempty"`
	Search   string         `json:"search,omitempty"`
	Limit    int            `json:"limit,omitempty"`
	Offset   int            `json:"offset,omitempty"`
}

type CreateProductUsageParams struct {
	ClientID        string  `json:"client_id"`
	CompetenceMonth string  `json:"competence_month"`
	ProductName     string  `json:"product_name"`
	Quantity        float64 `json:"quantity"`
	Notes           string  `json:"notes,omitempty"`
}

type UpdateProductUsageParams struct {
	ID              string   `json:"id"`
	CompetenceMonth *string  `json:"competence_month,omitempty"`
	ProductName     *string  `json:"product_name,omitempty"`
	Quantity        *float64 `json:"quantity,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

type ListProductUsageParams struct {
	ClientID        string `json:"client_id,omitempty"`
	CompetenceMonth string `json:"competence_month,omitempty"`
}

type GetRecentActivityParams struct {
	ClientID   string                 `json:"client_id,omitempty"`
	ContractID *string                `json:"contract_id,omitempty"`
	TicketID   *string                `json:"ticket_id,omitempty"`
	Type       *activity.ActivityType `json:"type,omitempty"`
	Limit      int                    `json:"limit,omitempty"`
	Offset     int                    `json:"offset,omitempty"`
}

type RenewContractsParams struct {
	AsOf string `json:"as_of,omitempty"`
}

type CalculateBilledHoursParams struct {
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}

type BilledHoursResponse struct {
	DurationMinutes int `json:"duration_minutes"`
	BilledHours     int `json:"billed_hours"`
}

type ConsumedHoursResponse struct {
	ClientID string `json:"client_id,omitempty"`
	From     string `json:"from"`
	To       string `json:"to"`
	Hours    int    `json:"hours"`
}

type ActivityEntryResponse struct {
	Timestamp  time.Time             `json:"timestamp"`
	Type       activity.ActivityType `json:"type"`
	ActorID    string                `json:"actor_id"`
	ClientID   *string               `json:"client_id,omitempty"`
	ContractID *string               `json:"contract_id,omitempty"`
	TicketID   *string               `json:"ticket_id,omitempty"`
	Summary    string                `json:"summary"`
	Details    string                `json:"details,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
