package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `hourbank tracks prepaid support hours: Clients → Contracts → Tickets.

Core concepts:
- Client: a customer company. Client users only ever see their own client.
- Contract: hours bought for an inclusive date range. Status is derived from today's date (future, active, expired).
- Ticket: a support request. Only completed tickets consume contract hours.
- Billed hours: worked minutes rounded up to whole hours, never below the minimum (1 by default).

Typical workflow:
1) Orient: get_client_overview (client users may omit client_id).
2) Browse: list_tickets / list_contracts / get_recent_activity.
3) Log work: open_ticket, then start_ticket and complete_ticket with start_time/end_time or duration_minutes.
   Admins can record finished work in one step with record_ticket.
4) Report: get_contract_usage, get_consumed_hours, get_hours_by_day, get_top_requesters.
5) Preview billing with calculate_billed_hours before recording.

Dates are YYYY-MM-DD, times are HH:MM, competence months are YYYY-MM.
Errors come back as JSON with code, message and recovery_hint.

Docs:
- hourbank://docs/index
- hourbank://docs/billing
- hourbank://docs/contracts
- hourbank://docs/tickets
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "hourbank://docs/index",
		Name:        "docs_index",
		Title:       "hourbank docs index",
		Description: "Entry point: what each doc covers and which tools need admin rights.",
		Content: `# hourbank: Docs Index

## Docs

- ` + "`hourbank://docs/billing`" + `: how worked time becomes billed hours.
- ` + "`hourbank://docs/contracts`" + `: contract status, usage and automatic renewal.
- ` + "`hourbank://docs/tickets`" + `: the ticket lifecycle and search.

## Roles

- **ADMIN** sees every client and may create, edit and delete anything.
- **CLIENT_USER** is bound to one client. They may read their own data and open tickets.

Admin-only tools: create/update/delete for clients, contracts, tickets and product usage,
record_ticket, start_ticket, complete_ticket, transition_ticket, get_top_clients, renew_contracts.
`,
	},
	{
		URI:         "hourbank://docs/billing",
		Name:        "docs_billing",
		Title:       "Billing rules",
		Description: "Duration and billed-hour calculation.",
		Content: `# Billing rules

## Duration

- With ` + "`start_time`" + ` and ` + "`end_time`" + ` (HH:MM) the duration is end minus start.
- The end must be strictly after the start; work crossing midnight is entered as a duration.
- Without times, ` + "`duration_minutes`" + ` is used as given.

## Billed hours

- Minutes are rounded up to whole hours: 61 minutes bill 2 hours.
- The result is never below the minimum billed hours (1 by default), so 15 minutes bill 1 hour.
- Completing a ticket needs a positive duration or an explicit ` + "`billed_hours`" + `.
- An explicit ` + "`billed_hours`" + ` overrides the derived value.

## Consumption

Only **completed** tickets count. A contract consumes the billed hours of its client's
completed tickets whose service date falls inside the contract period, both ends included.
`,
	},
	{
		URI:         "hourbank://docs/contracts",
		Name:        "docs_contracts",
		Title:       "Contracts and renewal",
		Description: "Contract status, usage percentages, expiry warnings and recurring renewal.",
		Content: `# Contracts and renewal

## Status

Evaluated against a reference date (default today):

- **future**: the date is before ` + "`start_date`" + `.
- **active**: the date is between start and end, both included.
- **expired**: the date is after ` + "`end_date`" + `.

A client has at most one contract per start date. When periods overlap, the one that
started most recently is the active contract.

## Usage

` + "`get_contract_usage`" + ` returns contracted, consumed and remaining hours plus a usage percentage.
Remaining hours stop at 0 when a client exceeds the contract. The percentage is capped at 100.

## Expiry

` + "`list_expiring_contracts`" + ` lists started contracts whose end date is within the horizon
(7 days by default).

## Renewal

A recurring contract that has ended is renewed once: the successor starts the day after the
old end date and runs for ` + "`recurrence_months`" + ` months, with the same hours and notes.
The old contract stops recurring. A contract that already has a successor is skipped.
Renewal runs daily; admins can also call ` + "`renew_contracts`" + `.
`,
	},
	{
		URI:         "hourbank://docs/tickets",
		Name:        "docs_tickets",
		Title:       "Ticket lifecycle",
		Description: "Ticket statuses, allowed transitions and search.",
		Content: `# Ticket lifecycle

## Statuses

` + "`open`" + ` → ` + "`in_progress`" + ` → ` + "`completed`" + `

- Tickets only move forward. Skipping from open straight to completed is allowed.
- Completed tickets are final.
- Completing a ticket records its billed hours; earlier statuses bill 0.

## Opening tickets

` + "`open_ticket`" + ` dates the ticket today and defaults the requester to the calling user.
Client users open tickets for their own client only.

## Search

` + "`list_tickets`" + ` accepts ` + "`search`" + `: a case-insensitive substring matched against requester
and description. ` + "`%`" + ` and ` + "`_`" + ` are matched literally.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
