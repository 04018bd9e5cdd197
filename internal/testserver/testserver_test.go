package testserver

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/client"
	"github.com/rpggio/hourbank/internal/domain/consumption"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/domain/renewal"
	"github.com/rpggio/hourbank/internal/domain/ticket"
	"github.com/stretchr/testify/require"
)

func TestEndToEnd_TicketBillingAndRenewal(t *testing.T) {
	ts := New(t, "2024-05-20")
	admin := ts.AdminToken

	var acme, beta client.Client
	ts.MustCall(t, admin, "create_client", map[string]any{"name": "Acme"}, &acme)
	ts.MustCall(t, admin, "create_client", map[string]any{"name": "Beta"}, &beta)

	var k contract.Contract
	ts.MustCall(t, admin, "create_contract", map[string]any{
		"client_id":         acme.ID,
		"start_date":        "2024-05-01",
		"end_date":          "2024-05-31",
		"contracted_hours":  10,
		"is_recurring":      true,
		"recurrence_months": 1,
	}, &k)

	ana := ts.IssueKey(t, access.IssueRequest{UserID: "ana", Role: access.RoleClientUser, ClientID: acme.ID})

	// Client users only see their own client.
	var visible []client.Client
	ts.MustCall(t, ana, "list_clients", nil, &visible)
	require.Len(t, visible, 1)
	require.Equal(t, "Acme", visible[0].Name)
	require.Equal(t, "FORBIDDEN", ts.Call(t, ana, "get_client", map[string]any{"id": beta.ID}).ErrorCode())
	require.Equal(t, "FORBIDDEN", ts.Call(t, ana, "get_top_clients", nil).ErrorCode())

	var opened ticket.Ticket
	ts.MustCall(t, ana, "open_ticket", map[string]any{"title": "VPN", "description": "cannot connect"}, &opened)
	require.Equal(t, acme.ID, opened.ClientID)
	require.Equal(t, "ana", opened.RequesterName)
	require.Equal(t, ticket.StatusOpen, opened.Status)
	require.Equal(t, 0, opened.BilledHours)
	require.Equal(t, "2024-05-20", billing.FormatDate(opened.ServiceDate))

	require.Equal(t, "FORBIDDEN", ts.Call(t, ana, "complete_ticket", map[string]any{"id": opened.ID}).ErrorCode())

	var done ticket.Ticket
	ts.MustCall(t, admin, "complete_ticket", map[string]any{
		"id":         opened.ID,
		"start_time": "09:00",
		"end_time":   "10:30",
	}, &done)
	require.Equal(t, ticket.StatusCompleted, done.Status)
	require.Equal(t, 90, *done.DurationMinutes)
	require.Equal(t, 2, done.BilledHours)

	require.Equal(t, "INVALID_TRANSITION",
		ts.Call(t, admin, "transition_ticket", map[string]any{"id": opened.ID, "to": "in_progress"}).ErrorCode())

	var usage consumption.ContractUsage
	ts.MustCall(t, ana, "get_contract_usage", map[string]any{"contract_id": k.ID}, &usage)
	require.Equal(t, 10, usage.ContractedHours)
	require.Equal(t, 2, usage.ConsumedHours)
	require.Equal(t, 8, usage.RemainingHours)
	require.Equal(t, 20, usage.UsagePercentage)

	var expiring []contract.StatusView
	ts.MustCall(t, admin, "list_expiring_contracts", map[string]any{"as_of": "2024-05-28"}, &expiring)
	require.Len(t, expiring, 1)
	require.Equal(t, 3, expiring[0].DaysLeft)

	require.Equal(t, "FORBIDDEN", ts.Call(t, ana, "renew_contracts", nil).ErrorCode())

	var summary renewal.Summary
	ts.MustCall(t, admin, "renew_contracts", map[string]any{"as_of": "2024-06-01"}, &summary)
	require.True(t, summary.Success)
	require.Equal(t, 1, summary.Renewed)
	require.Equal(t, []string{k.ID}, summary.RenewedIDs)

	// A second run finds nothing left to renew.
	ts.MustCall(t, admin, "renew_contracts", map[string]any{"as_of": "2024-06-01"}, &summary)
	require.Equal(t, 0, summary.TotalExpired)

	var active contract.StatusView
	ts.MustCall(t, ana, "get_active_contract", map[string]any{"as_of": "2024-06-10"}, &active)
	require.Equal(t, "2024-06-01", billing.FormatDate(active.StartDate))
	require.Equal(t, "2024-06-30", billing.FormatDate(active.EndDate))
	require.Equal(t, 10, active.ContractedHours)
	require.True(t, active.IsRecurring)
	require.Equal(t, billing.StatusActive, active.Status)

	var old contract.StatusView
	ts.MustCall(t, admin, "get_contract", map[string]any{"id": k.ID}, &old)
	require.False(t, old.IsRecurring)
}

func TestEndToEnd_MCPOverHTTP(t *testing.T) {
	ts := New(t, "2024-05-20")
	session := ts.ConnectMCP(t, ts.AdminToken)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "create_client",
		Arguments: map[string]any{"name": "Acme"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var created client.Client
	require.NoError(t, json.Unmarshal([]byte(text.Text), &created))
	require.Equal(t, "Acme", created.Name)

	result, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_active_contract",
		Arguments: map[string]any{"client_id": created.ID},
	})
	require.NoError(t, err)
	require.True(t, result.IsError)
	require.Contains(t, result.Content[0].(*sdkmcp.TextContent).Text, "NO_ACTIVE_CONTRACT")
}
