package mcp

// ToolDefinition describes one MCP tool and its JSON input schema.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func integer(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func enum(desc string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var (
	clientStatuses = []string{"active", "inactive"}
	ticketStatuses = []string{"open", "in_progress", "completed"}
	activityTypes  = []string{
		"contract_created", "contract_renewed", "renewal_failed",
		"ticket_created", "ticket_transitioned", "ticket_completed", "ticket_deleted",
	}
)

func billingProps(props map[string]any) map[string]any {
	props["start_time"] = str("Work start time (HH:MM)")
	props["end_time"] = str("Work end time (HH:MM), after start_time")
	props["duration_minutes"] = integer("Worked minutes; ignored when start_time and end_time are given")
	props["billed_hours"] = integer("Explicit billed hours; derived from the duration when omitted")
	return props
}

func periodProps(withClient bool) map[string]any {
	props := map[string]any{
		"from":  str("First service date (YYYY-MM-DD, default first day of this month)"),
		"to":    str("Last service date, inclusive (YYYY-MM-DD, default last day of this month)"),
		"limit": integer("Maximum number of rows"),
	}
	if withClient {
		props["client_id"] = str("Client ID (omit for all visible clients)")
	}
	return props
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Clients
		{
			Name:        "create_client",
			Description: "Create a client (admin only)",
			InputSchema: object(map[string]any{
				"name":   str("Client display name"),
				"status": enum("Initial status (default active)", clientStatuses...),
			}, "name"),
		},
		{
			Name:        "update_client",
			Description: "Rename a client or change its status (admin only)",
			InputSchema: object(map[string]any{
				"id":     str("Client ID"),
				"name":   str("New name"),
				"status": enum("New status", clientStatuses...),
			}, "id"),
		},
		{
			Name:        "get_client",
			Description: "Get a client by ID",
			InputSchema: object(map[string]any{"id": str("Client ID")}, "id"),
		},
		{
			Name:        "list_clients",
			Description: "List visible clients ordered by name",
			InputSchema: object(map[string]any{"status": enum("Filter by status", clientStatuses...)}),
		},
		{
			Name:        "delete_client",
			Description: "Delete a client with no contracts, tickets or product usage (admin only)",
			InputSchema: object(map[string]any{"id": str("Client ID")}, "id"),
		},

		// Contracts
		{
			Name:        "create_contract",
			Description: "Create a prepaid hour contract for a client (admin only)",
			InputSchema: object(map[string]any{
				"client_id":         str("Client ID"),
				"start_date":        str("First covered day (YYYY-MM-DD)"),
				"end_date":          str("Last covered day, inclusive (YYYY-MM-DD)"),
				"contracted_hours":  integer("Hours bought for the period"),
				"notes":             str("Free-form notes"),
				"is_recurring":      map[string]any{"type": "boolean", "description": "Renew automatically when the period ends"},
				"recurrence_months": integer("Renewal period length in months (1-12, default 1)"),
			}, "client_id", "start_date", "end_date", "contracted_hours"),
		},
		{
			Name:        "update_contract",
			Description: "Update contract fields (admin only)",
			InputSchema: object(map[string]any{
				"id":                str("Contract ID"),
				"start_date":        str("New start date (YYYY-MM-DD)"),
				"end_date":          str("New end date (YYYY-MM-DD)"),
				"contracted_hours":  integer("New contracted hours"),
				"notes":             str("New notes"),
				"is_recurring":      map[string]any{"type": "boolean", "description": "Renew automatically"},
				"recurrence_months": integer("Renewal period length in months (1-12)"),
			}, "id"),
		},
		{
			Name:        "get_contract",
			Description: "Get a contract with its status as of today",
			InputSchema: object(map[string]any{"id": str("Contract ID")}, "id"),
		},
		{
			Name:        "list_contracts",
			Description: "List contracts, newest first, with their status as of today",
			InputSchema: object(map[string]any{
				"client_id": str("Client ID (omit for all visible clients)"),
				"limit":     integer("Maximum number of results"),
				"offset":    integer("Offset for pagination"),
			}),
		},
		{
			Name:        "delete_contract",
			Description: "Delete a contract (admin only)",
			InputSchema: object(map[string]any{"id": str("Contract ID")}, "id"),
		},
		{
			Name:        "get_active_contract",
			Description: "Get the contract covering a date for a client",
			InputSchema: object(map[string]any{
				"client_id": str("Client ID"),
				"as_of":     str("Reference date (YYYY-MM-DD, default today)"),
			}),
		},
		{
			Name:        "list_active_contracts",
			Description: "List the covering contract of every visible client on a date",
			InputSchema: object(map[string]any{"as_of": str("Reference date (YYYY-MM-DD, default today)")}),
		},
		{
			Name:        "list_expiring_contracts",
			Description: "List started contracts ending within the expiry horizon",
			InputSchema: object(map[string]any{
				"as_of":        str("Reference date (YYYY-MM-DD, default today)"),
				"horizon_days": integer("Days ahead to look, 0 for contracts ending today (default from configuration)"),
			}),
		},

		// Consumption
		{
			Name:        "get_contract_usage",
			Description: "Get contracted, consumed and remaining hours for a contract",
			InputSchema: object(map[string]any{"contract_id": str("Contract ID")}, "contract_id"),
		},
		{
			Name:        "get_client_overview",
			Description: "Get a client's active contract, its usage and whether it expires soon",
			InputSchema: object(map[string]any{
				"client_id": str("Client ID"),
				"as_of":     str("Reference date (YYYY-MM-DD, default today)"),
			}),
		},
		{
			Name:        "get_consumed_hours",
			Description: "Sum billed hours of one client's tickets in a period (admins must pass client_id)",
			InputSchema: object(periodProps(true)),
		},
		{
			Name:        "get_ticket_stats",
			Description: "Count tickets and sum billed hours in a period",
			InputSchema: object(periodProps(true)),
		},
		{
			Name:        "get_hours_by_day",
			Description: "Billed hours per service date in a period",
			InputSchema: object(periodProps(true)),
		},
		{
			Name:        "get_top_requesters",
			Description: "Requesters ranked by billed hours in a period",
			InputSchema: object(periodProps(true)),
		},
		{
			Name:        "get_top_clients",
			Description: "Clients ranked by billed hours in a period (admin only)",
			InputSchema: object(periodProps(false)),
		},
		{
			Name:        "calculate_billed_hours",
			Description: "Preview the billed hours for a start/end time or a duration",
			InputSchema: object(map[string]any{
				"start_time":       str("Work start time (HH:MM)"),
				"end_time":         str("Work end time (HH:MM)"),
				"duration_minutes": integer("Worked minutes"),
			}),
		},

		// Tickets
		{
			Name:        "open_ticket",
			Description: "Open a support ticket dated today",
			InputSchema: object(map[string]any{
				"client_id":      str("Client ID (client users default to their own)"),
				"title":          str("Short title"),
				"description":    str("What is needed"),
				"requester_name": str("Who asked (default the calling user)"),
			}, "title", "description"),
		},
		{
			Name:        "record_ticket",
			Description: "Record service work directly, usually already completed (admin only)",
			InputSchema: object(billingProps(map[string]any{
				"client_id":      str("Client ID"),
				"title":          str("Short title"),
				"requester_name": str("Who asked"),
				"description":    str("Work performed"),
				"service_date":   str("Service date (YYYY-MM-DD)"),
				"status":         enum("Ticket status (default completed)", ticketStatuses...),
			}), "client_id", "requester_name", "description", "service_date"),
		},
		{
			Name:        "update_ticket",
			Description: "Edit ticket fields and time tracking (admin only)",
			InputSchema: object(billingProps(map[string]any{
				"id":             str("Ticket ID"),
				"title":          str("New title"),
				"requester_name": str("New requester"),
				"description":    str("New description"),
				"service_date":   str("New service date (YYYY-MM-DD)"),
			}), "id"),
		},
		{
			Name:        "get_ticket",
			Description: "Get a ticket by ID",
			InputSchema: object(map[string]any{"id": str("Ticket ID")}, "id"),
		},
		{
			Name:        "list_tickets",
			Description: "List tickets, newest service date first",
			InputSchema: object(map[string]any{
				"client_id": str("Client ID (omit for all visible clients)"),
				"from":      str("First service date (YYYY-MM-DD)"),
				"to":        str("Last service date, inclusive (YYYY-MM-DD)"),
				"status":    enum("Filter by status", ticketStatuses...),
				"search":    str("Case-insensitive text matched against requester and description"),
				"limit":     integer("Maximum number of results"),
				"offset":    integer("Offset for pagination"),
			}),
		},
		{
			Name:        "start_ticket",
			Description: "Move an open ticket to in_progress (admin only)",
			InputSchema: object(map[string]any{"id": str("Ticket ID")}, "id"),
		},
		{
			Name:        "complete_ticket",
			Description: "Complete a ticket and record the billed time (admin only)",
			InputSchema: object(billingProps(map[string]any{
				"id":           str("Ticket ID"),
				"service_date": str("Service date (YYYY-MM-DD, default the ticket's date)"),
			}), "id"),
		},
		{
			Name:        "transition_ticket",
			Description: "Move a ticket to another status; tickets go open → in_progress → completed (admin only)",
			InputSchema: object(billingProps(map[string]any{
				"id":           str("Ticket ID"),
				"to":           enum("Target status", ticketStatuses...),
				"service_date": str("Service date when completing (YYYY-MM-DD)"),
			}), "id", "to"),
		},
		{
			Name:        "delete_ticket",
			Description: "Delete a ticket (admin only)",
			InputSchema: object(map[string]any{"id": str("Ticket ID")}, "id"),
		},

		// Product usage
		{
			Name:        "create_product_usage",
			Description: "Record monthly product consumption for a client (admin only)",
			InputSchema: object(map[string]any{
				"client_id":        str("Client ID"),
				"competence_month": str("Competence month (YYYY-MM)"),
				"product_name":     str("Product name"),
				"quantity":         map[string]any{"type": "number", "description": "Quantity consumed"},
				"notes":            str("Free-form notes"),
			}, "client_id", "competence_month", "product_name", "quantity"),
		},
		{
			Name:        "update_product_usage",
			Description: "Update a product usage entry (admin only)",
			InputSchema: object(map[string]any{
				"id":               str("Product usage ID"),
				"competence_month": str("Competence month (YYYY-MM)"),
				"product_name":     str("Product name"),
				"quantity":         map[string]any{"type": "number", "description": "Quantity consumed"},
				"notes":            str("Free-form notes"),
			}, "id"),
		},
		{
			Name:        "delete_product_usage",
			Description: "Delete a product usage entry (admin only)",
			InputSchema: object(map[string]any{"id": str("Product usage ID")}, "id"),
		},
		{
			Name:        "list_product_usage",
			Description: "List product usage entries",
			InputSchema: object(map[string]any{
				"client_id":        str("Client ID (omit for all visible clients)"),
				"competence_month": str("Competence month (YYYY-MM)"),
			}),
		},

		// Activity
		{
			Name:        "get_recent_activity",
			Description: "Get recent activity entries, newest first",
			InputSchema: object(map[string]any{
				"client_id":   str("Client ID to filter by"),
				"contract_id": str("Contract ID to filter by"),
				"ticket_id":   str("Ticket ID to filter by"),
				"type":        enum("Activity type to filter by", activityTypes...),
				"limit":       integer("Maximum number of activity entries"),
				"offset":      integer("Offset for pagination"),
			}),
		},

		// Renewal
		{
			Name:        "renew_contracts",
			Description: "Renew recurring contracts that have ended (admin only)",
			InputSchema: object(map[string]any{"as_of": str("Reference date (YYYY-MM-DD, default today)")}),
		},
	}
}
