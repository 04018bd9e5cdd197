package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/repository"
)

// Service handles contract business logic.
type Service struct {
	contracts  Repository
	activities activity.Repository
	policy     billing.Policy
	logger     *slog.Logger
}

// NewService creates a new contract service.
func NewService(contracts Repository, activities activity.Repository, policy billing.Policy, logger *slog.Logger) *Service {
	return &Service{
		contracts:  contracts,
		activities: activities,
		policy:     policy,
		logger:     logger,
	}
}

// CreateRequest describes a contract creation request.
type CreateRequest struct {
	ClientID         string
	StartDate        time.Time
	EndDate          time.Time
	ContractedHours  int
	Notes            string
	IsRecurring      bool
	RecurrenceMonths int
}

// UpdateRequest describes a contract update request.
type UpdateRequest struct {
	ID               string
	StartDate        *time.Time
	EndDate          *time.Time
	ContractedHours  *int
	Notes            *string
	IsRecurring      *bool
	RecurrenceMonths *int
}

// Create validates and stores a new contract. Admin only.
func (s *Service) Create(ctx context.Context, p access.Principal, req CreateRequest) (*Contract, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Contract{
		ID:               uuid.NewString(),
		ClientID:         req.ClientID,
		StartDate:        dayOrZero(req.StartDate),
		EndDate:          dayOrZero(req.EndDate),
		ContractedHours:  req.ContractedHours,
		Notes:            req.Notes,
		IsRecurring:      req.IsRecurring,
		RecurrenceMonths: req.RecurrenceMonths,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	normalize(c)
	if err := Validate(c); err != nil {
		return nil, err
	}

	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, translateWriteError("creating contract", err)
	}

	activity.Append(ctx, s.activities, s.logger, &activity.ActivityEntry{
		ClientID:     &c.ClientID,
		ContractID:   &c.ID,
		ActorID:      p.UserID,
		ActivityType: activity.TypeContractCreated,
		Summary: fmt.Sprintf("created contract %s..%s (%dh)",
			billing.FormatDate(c.StartDate), billing.FormatDate(c.EndDate), c.ContractedHours),
	})
	return c, nil
}

// Update applies field changes to an existing contract. Admin only.
func (s *Service) Update(ctx context.Context, p access.Principal, req UpdateRequest) (*Contract, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, p, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.StartDate != nil {
		updated.StartDate = dayOrZero(*req.StartDate)
	}
	if req.EndDate != nil {
		updated.EndDate = dayOrZero(*req.EndDate)
	}
	if req.ContractedHours != nil {
		updated.ContractedHours = *req.ContractedHours
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if req.IsRecurring != nil {
		updated.IsRecurring = *req.IsRecurring
	}
	if req.RecurrenceMonths != nil {
		updated.RecurrenceMonths = *req.RecurrenceMonths
	}
	normalize(&updated)
	if err := Validate(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.contracts.Update(ctx, &updated); err != nil {
		return nil, translateWriteError("updating contract", err)
	}
	return &updated, nil
}

// Get loads a contract the principal is allowed to see.
func (s *Service) Get(ctx context.Context, p access.Principal, id string) (*Contract, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	c, err := s.contracts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("loading contract: %w", err)
	}
	if !p.CanSeeClient(c.ClientID) {
		return nil, access.ErrForbidden
	}
	return c, nil
}

// List returns contracts visible to the principal, newest period first.
func (s *Service) List(ctx context.Context, p access.Principal, opts ListOptions) ([]Contract, error) {
	clientID, err := p.ScopeClient(opts.ClientID)
	if err != nil {
		return nil, err
	}
	opts.ClientID = clientID
	list, err := s.contracts.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	return list, nil
}

// Delete removes a contract. Admin only.
func (s *Service) Delete(ctx context.Context, p access.Principal, id string) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.contracts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContractNotFound
		}
		return fmt.Errorf("deleting contract: %w", err)
	}
	return nil
}

// Active returns the authoritative contract for clientID on asOf. When
// several periods contain asOf, the one that started most recently wins.
func (s *Service) Active(ctx context.Context, p access.Principal, clientID string, asOf time.Time) (*Contract, error) {
	clientID, err := p.ScopeClient(clientID)
	if err != nil {
		return nil, err
	}
	if clientID == "" {
		return nil, ErrInvalidInput
	}
	return s.ActiveFor(ctx, clientID, asOf)
}

// ActiveFor resolves the active contract without an authorization check.
// Callers must have scoped clientID already.
func (s *Service) ActiveFor(ctx context.Context, clientID string, asOf time.Time) (*Contract, error) {
	candidates, err := s.contracts.ActiveOn(ctx, clientID, billing.Day(asOf))
	if err != nil {
		return nil, fmt.Errorf("finding active contract: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoActiveContract
	}
	if len(candidates) > 1 && s.logger != nil {
		s.logger.Warn("overlapping contracts cover date",
			"client_id", clientID,
			"date", billing.FormatDate(asOf),
			"count", len(candidates),
			"chosen", candidates[0].ID,
		)
	}
	best := candidates[0]
	return &best, nil
}

// ListActive returns the authoritative active contract of every client on asOf.
func (s *Service) ListActive(ctx context.Context, p access.Principal, asOf time.Time) ([]StatusView, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	asOf = billing.Day(asOf)
	all, err := s.contracts.ActiveOn(ctx, "", asOf)
	if err != nil {
		return nil, fmt.Errorf("listing active contracts: %w", err)
	}

	seen := make(map[string]bool, len(all))
	views := make([]StatusView, 0, len(all))
	for _, c := range all {
		if seen[c.ClientID] {
			continue
		}
		seen[c.ClientID] = true
		views = append(views, NewStatusView(c, asOf))
	}
	return views, nil
}

// ListExpiring returns started contracts ending within horizonDays of asOf,
// soonest first. A negative horizon uses the configured default; zero lists
// contracts ending on asOf.
func (s *Service) ListExpiring(ctx context.Context, p access.Principal, asOf time.Time, horizonDays int) ([]StatusView, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	if horizonDays < 0 {
		horizonDays = s.policy.Horizon()
	}
	asOf = billing.Day(asOf)
	list, err := s.contracts.EndingBetween(ctx, asOf, asOf.AddDate(0, 0, horizonDays))
	if err != nil {
		return nil, fmt.Errorf("listing expiring contracts: %w", err)
	}

	views := make([]StatusView, 0, len(list))
	for _, c := range list {
		if !billing.ExpiresWithin(c.EndDate, asOf, horizonDays) {
			continue
		}
		views = append(views, NewStatusView(c, asOf))
	}
	return views, nil
}

func translateWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrContractNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrDuplicatePeriod
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrClientNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func dayOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return billing.Day(t)
}
