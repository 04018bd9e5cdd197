package consumption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/repository"
)

const (
	DefaultTopRequesters = 5
	DefaultTopClients    = 10
)

// Service aggregates billed hours and relates them to contract allotments.
type Service struct {
	repo      Repository
	contracts ContractSource
	policy    billing.Policy
	logger    *slog.Logger
}

// NewService creates a new consumption service.
func NewService(repo Repository, contracts ContractSource, policy billing.Policy, logger *slog.Logger) *Service {
	return &Service{repo: repo, contracts: contracts, policy: policy, logger: logger}
}

// ConsumedHours sums billed hours of clientID's tickets with a service date
// in [from, to]. Ticket status doesn't matter; unfinished tickets bill 0.
func (s *Service) ConsumedHours(ctx context.Context, p access.Principal, clientID string, from, to time.Time) (int, error) {
	clientID, err := p.ScopeClient(clientID)
	if err != nil {
		return 0, err
	}
	if clientID == "" {
		return 0, fmt.Errorf("%w: client id is required", access.ErrInvalidInput)
	}
	totals, err := s.TicketStats(ctx, p, clientID, from, to)
	if err != nil {
		return 0, err
	}
	return totals.Hours, nil
}

// TicketStats counts tickets and billed hours in [from, to]. Admins may pass
// an empty clientID to aggregate every client.
func (s *Service) TicketStats(ctx context.Context, p access.Principal, clientID string, from, to time.Time) (Totals, error) {
	clientID, err := p.ScopeClient(clientID)
	if err != nil {
		return Totals{}, err
	}
	period, err := newPeriod(from, to)
	if err != nil {
		return Totals{}, err
	}
	totals, err := s.repo.Totals(ctx, clientID, period.From, period.To)
	if err != nil {
		return Totals{}, fmt.Errorf("summing billed hours: %w", err)
	}
	return totals, nil
}

// ContractUsage computes consumption over the contract's own period.
func (s *Service) ContractUsage(ctx context.Context, p access.Principal, contractID string) (*ContractUsage, error) {
	c, err := s.contracts.Get(ctx, contractID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("loading contract: %w", err)
	}
	if !p.CanSeeClient(c.ClientID) {
		return nil, access.ErrForbidden
	}
	usage, err := s.usage(ctx, c)
	if err != nil {
		return nil, err
	}
	return &ContractUsage{Contract: *c, Usage: usage}, nil
}

// ClientOverview returns the client's active contract on asOf with its usage
// and expiry flag. A client without an active contract gets an empty overview.
func (s *Service) ClientOverview(ctx context.Context, p access.Principal, clientID string, asOf time.Time) (*Overview, error) {
	clientID, err := p.ScopeClient(clientID)
	if err != nil {
		return nil, err
	}
	if clientID == "" {
		return nil, fmt.Errorf("%w: client id is required", access.ErrInvalidInput)
	}
	asOf = billing.Day(asOf)
	overview := &Overview{ClientID: clientID, AsOf: asOf}

	active, err := s.contracts.ActiveOn(ctx, clientID, asOf)
	if err != nil {
		return nil, fmt.Errorf("finding active contract: %w", err)
	}
	if len(active) == 0 {
		return overview, nil
	}

	view := contract.NewStatusView(active[0], asOf)
	usage, err := s.usage(ctx, &view.Contract)
	if err != nil {
		return nil, err
	}
	overview.Contract = &view
	overview.Usage = &usage
	overview.ExpiringSoon = billing.ExpiresWithin(view.EndDate, asOf, s.policy.Horizon())
	return overview, nil
}

// HoursByDay returns billed hours per service date in [from, to], ascending.
func (s *Service) HoursByDay(ctx context.Context, p access.Principal, clientID string, from, to time.Time) ([]DayHours, error) {
	clientID, err := p.ScopeClient(clientID)
	if err != nil {
		return nil, err
	}
	period, err := newPeriod(from, to)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.HoursByDay(ctx, clientID, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("aggregating hours by day: %w", err)
	}
	return days, nil
}

// TopRequesters ranks requesters by billed hours in [from, to].
func (s *Service) TopRequesters(ctx context.Context, p access.Principal, clientID string, from, to time.Time, limit int) ([]RequesterHours, error) {
	clientID, err := p.ScopeClient(clientID)
	if err != nil {
		return nil, err
	}
	period, err := newPeriod(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopRequesters
	}
	list, err := s.repo.HoursByRequester(ctx, clientID, period.From, period.To, limit)
	if err != nil {
		return nil, fmt.Errorf("ranking requesters: %w", err)
	}
	return list, nil
}

// TopClients ranks clients by billed hours in [from, to]. Admin only.
func (s *Service) TopClients(ctx context.Context, p access.Principal, from, to time.Time, limit int) ([]ClientHours, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	period, err := newPeriod(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopClients
	}
	list, err := s.repo.HoursByClient(ctx, period.From, period.To, limit)
	if err != nil {
		return nil, fmt.Errorf("ranking clients: %w", err)
	}
	return list, nil
}

// usage reads consumption for the contract period once and derives every
// figure from that single value.
func (s *Service) usage(ctx context.Context, c *contract.Contract) (billing.Usage, error) {
	totals, err := s.repo.Totals(ctx, c.ClientID, c.StartDate, c.EndDate)
	if err != nil {
		return billing.Usage{}, fmt.Errorf("summing contract consumption: %w", err)
	}
	return billing.Summarize(c.ContractedHours, totals.Hours), nil
}

func newPeriod(from, to time.Time) (Period, error) {
	if from.IsZero() || to.IsZero() {
		return Period{}, fmt.Errorf("%w: from and to are required", ErrInvalidPeriod)
	}
	p := Period{From: billing.Day(from), To: billing.Day(to)}
	if p.To.Before(p.From) {
		return Period{}, fmt.Errorf("%w: to is before from", ErrInvalidPeriod)
	}
	return p, nil
}
