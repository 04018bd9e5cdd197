package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/client"
	"github.com/rpggio/hourbank/internal/domain/consumption"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/domain/product"
	"github.com/rpggio/hourbank/internal/domain/renewal"
	"github.com/rpggio/hourbank/internal/domain/ticket"
)

// ClientService defines client operations needed by MCP.
type ClientService interface {
	Create(ctx context.Context, p access.Principal, req client.CreateRequest) (*client.Client, error)
	Update(ctx context.Context, p access.Principal, req client.UpdateRequest) (*client.Client, error)
	Get(ctx context.Context, p access.Principal, id string) (*client.Client, error)
	List(ctx context.Context, p access.Principal, opts client.ListOptions) ([]client.Client, error)
	Delete(ctx context.Context, p access.Principal, id string) error
}

// ContractService defines contract operations needed by MCP.
type ContractService interface {
	Create(ctx context.Context, p access.Principal, req contract.CreateRequest) (*contract.Contract, error)
	Update(ctx context.Context, p access.Principal, req contract.UpdateRequest) (*contract.Contract, error)
	Get(ctx context.Context, p access.Principal, id string) (*contract.Contract, error)
	List(ctx context.Context, p access.Principal, opts contract.ListOptions) ([]contract.Contract, error)
	Delete(ctx context.Context, p access.Principal, id string) error
	Active(ctx context.Context, p access.Principal, clientID string, asOf time.Time) (*contract.Contract, error)
	ListActive(ctx context.Context, p access.Principal, asOf time.Time) ([]contract.StatusView, error)
	ListExpiring(ctx context.Context, p access.Principal, asOf time.Time, horizonDays int) ([]contract.StatusView, error)
}

// ConsumptionService defines consumption queries needed by MCP.
type ConsumptionService interface {
	ConsumedHours(ctx context.Context, p access.Principal, clientID string, from, to time.Time) (int, error)
	TicketStats(ctx context.Context, p access.Principal, clientID string, from, to time.Time) (consumption.Totals, error)
	ContractUsage(ctx context.Context, p access.Principal, contractID string) (*consumption.ContractUsage, error)
	ClientOverview(ctx context.Context, p access.Principal, clientID string, asOf time.Time) (*consumption.Overview, error)
	HoursByDay(ctx context.Context, p access.Principal, clientID string, from, to time.Time) ([]consumption.DayHours, error)
	TopRequesters(ctx context.Context, p access.Principal, clientID string, from, to time.Time, limit int) ([]consumption.RequesterHours, error)
	TopClients(ctx context.Context, p access.Principal, from, to time.Time, limit int) ([]consumption.ClientHours, error)
}

// TicketService defines ticket operations needed by MCP.
type TicketService interface {
	Open(ctx context.Context, p access.Principal, req ticket.OpenRequest, asOf time.Time) (*ticket.Ticket, error)
	Record(ctx context.Context, p access.Principal, req ticket.RecordRequest) (*ticket.Ticket, error)
	Update(ctx context.Context, p access.Principal, req ticket.UpdateRequest) (*ticket.Ticket, error)
	Start(ctx context.Context, p access.Principal, id string) (*ticket.Ticket, error)
	Complete(ctx context.Context, p access.Principal, req ticket.CompleteRequest) (*ticket.Ticket, error)
	Transition(ctx context.Context, p access.Principal, req ticket.TransitionRequest) (*ticket.Ticket, error)
	Delete(ctx context.Context, p access.Principal, id string) error
	Get(ctx context.Context, p access.Principal, id string) (*ticket.Ticket, error)
	List(ctx context.Context, p access.Principal, opts ticket.ListOptions) ([]ticket.Ticket, error)
}

// ProductService defines product usage operations needed by MCP.
type ProductService interface {
	Create(ctx context.Context, p access.Principal, req product.CreateRequest) (*product.Usage, error)
	Update(ctx context.Context, p access.Principal, req product.UpdateRequest) (*product.Usage, error)
	Delete(ctx context.Context, p access.Principal, id string) error
	List(ctx context.Context, p access.Principal, opts product.ListOptions) ([]product.Usage, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, p access.Principal, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// RenewalRunner runs one contract renewal batch.
type RenewalRunner interface {
	Run(ctx context.Context, asOf time.Time) (renewal.Summary, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Clients     ClientService
	Contracts   ContractService
	Consumption ConsumptionService
	Tickets     TicketService
	Products    ProductService
	Activity    ActivityService
	Renewal     RenewalRunner
	Policy      billing.Policy
	// Today returns the current calendar date in the portal's timezone.
	Today func() time.Time
}

// Handler dispatches MCP commands.
type Handler struct {
	svc Services
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Services) *Handler {
	if svc.Today == nil {
		svc.Today = func() time.Time { return billing.Day(time.Now()) }
	}
	return &Handler{svc: svc}
}

// Handle dispatches MCP requests to domain services on behalf of p.
func (h *Handler) Handle(ctx context.Context, p access.Principal, method string, params json.RawMessage) (any, error) {
	if p.Role == "" {
		return nil, mapError(access.ErrUnauthenticated)
	}
	if err := p.Validate(); err != nil {
		return nil, mapError(err)
	}
	result, err := h.dispatch(ctx, p, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, p access.Principal, method string, params json.RawMessage) (any, error) {
	switch method {
	// Clients
	case "create_client":
		var req CreateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Clients.Create(ctx, p, client.CreateRequest{Name: req.Name, Status: req.Status})
	case "update_client":
		var req UpdateClientParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Clients.Update(ctx, p, client.UpdateRequest{ID: req.ID, Name: req.Name, Status: req.Status})
	case "get_client":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Clients.Get(ctx, p, req.ID)
	case "list_clients":
		var req ListClientsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Clients.List(ctx, p, client.ListOptions{Status: req.Status})
	case "delete_client":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Clients.Delete(ctx, p, req.ID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "deleted"}, nil

	// Contracts
	case "create_contract":
		var req CreateContractParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		start, err := parseDay("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDay("end_date", req.EndDate)
		if err != nil {
			return nil, err
		}
		return h.svc.Contracts.Create(ctx, p, contract.CreateRequest{
			ClientID:         req.ClientID,
			StartDate:        start,
			EndDate:          end,
			ContractedHours:  req.ContractedHours,
			Notes:            req.Notes,
			IsRecurring:      req.IsRecurring,
			RecurrenceMonths: req.RecurrenceMonths,
		})
	case "update_contract":
		var req UpdateContractParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		start, err := parseOptionalDay("start_date", req.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseOptionalDay("end_date", req.EndDate)
		if err != nil {
			return nil, err
		}
		return h.svc.Contracts.Update(ctx, p, contract.UpdateRequest{
			ID:               req.ID,
			StartDate:        start,
			EndDate:          end,
			ContractedHours:  req.ContractedHours,
			Notes:            req.Notes,
			IsRecurring:      req.IsRecurring,
			RecurrenceMonths: req.RecurrenceMonths,
		})
	case "get_contract":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		c, err := h.svc.Contracts.Get(ctx, p, req.ID)
		if err != nil {
			return nil, err
		}
		return contract.NewStatusView(*c, h.svc.Today()), nil
	case "list_contracts":
		var req ListContractsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		list, err := h.svc.Contracts.List(ctx, p, contract.ListOptions{
			ClientID: req.ClientID,
			Limit:    req.Limit,
			Offset:   req.Offset,
		})
		if err != nil {
			return nil, err
		}
		today := h.svc.Today()
		views := make([]contract.StatusView, 0, len(list))
		for _, c := range list {
			views = append(views, contract.NewStatusView(c, today))
		}
		return views, nil
	case "delete_contract":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Contracts.Delete(ctx, p, req.ID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "deleted"}, nil
	case "get_active_contract":
		var req AsOfParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		asOf, err := h.asOf(req.AsOf)
		if err != nil {
			return nil, err
		}
		c, err := h.svc.Contracts.Active(ctx, p, req.ClientID, asOf)
		if err != nil {
			return nil, err
		}
		return contract.NewStatusView(*c, asOf), nil
	case "list_active_contracts":
		var req AsOfParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		asOf, err := h.asOf(req.AsOf)
		if err != nil {
			return nil, err
		}
		return h.svc.Contracts.ListActive(ctx, p, asOf)
	case "list_expiring_contracts":
		var req ListExpiringParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		asOf, err := h.asOf(req.AsOf)
		if err != nil {
			return nil, err
		}
		horizon := h.svc.Policy.Horizon()
		if req.HorizonDays != nil {
			if *req.HorizonDays < 0 {
				return nil, invalidParam("horizon_days", errors.New("must not be negative"))
			}
			horizon = *req.HorizonDays
		}
		return h.svc.Contracts.ListExpiring(ctx, p, asOf, horizon)

	// Consumption
	case "get_contract_usage":
		var req ContractUsageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Consumption.ContractUsage(ctx, p, req.ContractID)
	case "get_client_overview":
		var req AsOfParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		asOf, err := h.asOf(req.AsOf)
		if err != nil {
			return nil, err
		}
		return h.svc.Consumption.ClientOverview(ctx, p, req.ClientID, asOf)
	case "get_consumed_hours":
		var req PeriodParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		from, to, err := h.period(req.From, req.To)
		if err != nil {
			return nil, err
		}
		hours, err := h.svc.Consumption.ConsumedHours(ctx, p, req.ClientID, from, to)
		if err != nil {
			return nil, err
		}
		return ConsumedHoursResponse{
			ClientID: req.ClientID,
			From:     billing.FormatDate(from),
			To:       billing.FormatDate(to),
			Hours:    hours,
		}, nil
	case "get_ticket_stats":
		var req PeriodParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		from, to, err := h.period(req.From, req.To)
		if err != nil {
			return nil, err
		}
		return h.svc.Consumption.TicketStats(ctx, p, req.ClientID, from, to)
	case "get_hours_by_day":
		var req PeriodParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		from, to, err := h.period(req.From, req.To)
		if err != nil {
			return nil, err
		}
		return h.svc.Consumption.HoursByDay(ctx, p, req.ClientID, from, to)
	case "get_top_requesters":
		var req PeriodParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		from, to, err := h.period(req.From, req.To)
		if err != nil {
			return nil, err
		}
		return h.svc.Consumption.TopRequesters(ctx, p, req.ClientID, from, to, req.Limit)
	case "get_top_clients":
		var req PeriodParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		from, to, err := h.period(req.From, req.To)
		if err != nil {
			return nil, err
		}
		return h.svc.Consumption.TopClients(ctx, p, from, to, req.Limit)
	case "calculate_billed_hours":
		var req CalculateBilledHoursParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.calculateBilledHours(req)

	// Tickets
	case "open_ticket":
		var req OpenTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Tickets.Open(ctx, p, ticket.OpenRequest{
			ClientID:      req.ClientID,
			Title:         req.Title,
			Description:   req.Description,
			RequesterName: req.RequesterName,
		}, h.svc.Today())
	case "record_ticket":
		var req RecordTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		serviceDate, err := parseDay("service_date", req.ServiceDate)
		if err != nil {
			return nil, err
		}
		return h.svc.Tickets.Record(ctx, p, ticket.RecordRequest{
			ClientID:      req.ClientID,
			Title:         req.Title,
			RequesterName: req.RequesterName,
			Description:   req.Description,
			ServiceDate:   serviceDate,
			Status:        req.Status,
			BillingInput:  req.BillingParams.input(),
		})
	case "update_ticket":
		var req UpdateTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		serviceDate, err := parseOptionalDay("service_date", req.ServiceDate)
		if err != nil {
			return nil, err
		}
		return h.svc.Tickets.Update(ctx, p, ticket.UpdateRequest{
			ID:            req.ID,
			Title:         req.Title,
			RequesterName: req.RequesterName,
			Description:   req.Description,
			ServiceDate:   serviceDate,
			BillingInput:  req.BillingParams.input(),
		})
	case "get_ticket":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Tickets.Get(ctx, p, req.ID)
	case "list_tickets":
		var req ListTicketsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		from, err := parseOptionalDay("from", optional(req.From))
		if err != nil {
			return nil, err
		}
		to, err := parseOptionalDay("to", optional(req.To))
		if err != nil {
			return nil, err
		}
		return h.svc.Tickets.List(ctx, p, ticket.ListOptions{
			ClientID: req.ClientID,
			From:     from,
			To:       to,
			Status:   req.Status,
			Search:   req.Search,
			Limit:    req.Limit,
			Offset:   req.Offset,
		})
	case "start_ticket":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Tickets.Start(ctx, p, req.ID)
	case "complete_ticket":
		var req CompleteTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		serviceDate, err := parseOptionalDay("service_date", req.ServiceDate)
		if err != nil {
			return nil, err
		}
		return h.svc.Tickets.Complete(ctx, p, ticket.CompleteRequest{
			ID:           req.ID,
			ServiceDate:  serviceDate,
			BillingInput: req.BillingParams.input(),
		})
	case "transition_ticket":
		var req TransitionTicketParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		serviceDate, err := parseOptionalDay("service_date", req.ServiceDate)
		if err != nil {
			return nil, err
		}
		return h.svc.Tickets.Transition(ctx, p, ticket.TransitionRequest{
			ID:           req.ID,
			To:           req.To,
			ServiceDate:  serviceDate,
			BillingInput: req.BillingParams.input(),
		})
	case "delete_ticket":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Tickets.Delete(ctx, p, req.ID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "deleted"}, nil

	// Product usage
	case "create_product_usage":
		var req CreateProductUsageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Products.Create(ctx, p, product.CreateRequest{
			ClientID:        req.ClientID,
			CompetenceMonth: req.CompetenceMonth,
			ProductName:     req.ProductName,
			Quantity:        req.Quantity,
			Notes:           req.Notes,
		})
	case "update_product_usage":
		var req UpdateProductUsageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Products.Update(ctx, p, product.UpdateRequest{
			ID:              req.ID,
			CompetenceMonth: req.CompetenceMonth,
			ProductName:     req.ProductName,
			Quantity:        req.Quantity,
			Notes:           req.Notes,
		})
	case "delete_product_usage":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Products.Delete(ctx, p, req.ID); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "deleted"}, nil
	case "list_product_usage":
		var req ListProductUsageParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Products.List(ctx, p, product.ListOptions{
			ClientID:        req.ClientID,
			CompetenceMonth: req.CompetenceMonth,
		})

	// Activity
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.svc.Activity.GetRecentActivity(ctx, p, activity.ListActivityOptions{
			ClientID:     req.ClientID,
			ContractID:   req.ContractID,
			TicketID:     req.TicketID,
			ActivityType: req.Type,
			Limit:        req.Limit,
			Offset:       req.Offset,
		})
		if err != nil {
			return nil, err
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp:  entry.CreatedAt,
				Type:       entry.ActivityType,
				ActorID:    entry.ActorID,
				ClientID:   entry.ClientID,
				ContractID: entry.ContractID,
				TicketID:   entry.TicketID,
				Summary:    entry.Summary,
				Details:    entry.Details,
			})
		}
		return resp, nil

	// Renewal
	case "renew_contracts":
		var req RenewContractsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := p.RequireAdmin(); err != nil {
			return nil, err
		}
		if h.svc.Renewal == nil {
			return nil, fmt.Errorf("contract renewal is not configured")
		}
		asOf, err := h.asOf(req.AsOf)
		if err != nil {
			return nil, err
		}
		// A failed batch still yields a summary with success=false.
		summary, _ := h.svc.Renewal.Run(ctx, asOf)
		return summary, nil
	default:
		return nil, &APIError{Code: "UNKNOWN_METHOD", Message: fmt.Sprintf("unknown method: %s", method)}
	}
}

func (h *Handler) calculateBilledHours(req CalculateBilledHoursParams) (BilledHoursResponse, error) {
	minutes := 0
	switch {
	case req.StartTime != "" && req.EndTime != "":
		start, err := billing.ParseClock(req.StartTime)
		if err != nil {
			return BilledHoursResponse{}, invalidParam("start_time", err)
		}
		end, err := billing.ParseClock(req.EndTime)
		if err != nil {
			return BilledHoursResponse{}, invalidParam("end_time", err)
		}
		if end <= start {
			return BilledHoursResponse{}, invalidParam("end_time", errors.New("must be after start_time"))
		}
		minutes = billing.CalculateDurationMinutes(start, end)
	case req.DurationMinutes != nil:
		minutes = *req.DurationMinutes
	}
	return BilledHoursResponse{
		DurationMinutes: minutes,
		BilledHours:     h.svc.Policy.BilledHours(minutes),
	}, nil
}

// asOf parses an optional YYYY-MM-DD date, defaulting to today.
func (h *Handler) asOf(raw string) (time.Time, error) {
	if raw == "" {
		return h.svc.Today(), nil
	}
	return parseDay("as_of", raw)
}

// period parses an inclusive date range. Missing bounds default to the
// current calendar month.
func (h *Handler) period(rawFrom, rawTo string) (time.Time, time.Time, error) {
	from, to := billing.MonthBounds(h.svc.Today())
	var err error
	if rawFrom != "" {
		if from, err = parseDay("from", rawFrom); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if rawTo != "" {
		if to, err = parseDay("to", rawTo); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check argument names and types"}
	}
	return nil
}

func parseDay(field, raw string) (time.Time, error) {
	d, err := billing.ParseDate(raw)
	if err != nil {
		return time.Time{}, invalidParam(field, err)
	}
	return d, nil
}

func parseOptionalDay(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := parseDay(field, *raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func invalidParam(field string, err error) *APIError {
	return &APIError{
		Code:         "VALIDATION_FAILED",
		Message:      err.Error(),
		Details:      map[string]string{field: err.Error()},
		RecoveryHint: "Dates are YYYY-MM-DD and times are HH:MM",
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
