package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/activity"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/repository"
	"github.com/rpggio/hourbank/internal/validation"
)

const defaultListLimit = 200

// Service handles ticket business logic.
type Service struct {
	tickets    Repository
	activities activity.Repository
	policy     billing.Policy
	logger     *slog.Logger
}

// NewService creates a new ticket service.
func NewService(tickets Repository, activities activity.Repository, policy billing.Policy, logger *slog.Logger) *Service {
	return &Service{
		tickets:    tickets,
		activities: activities,
		policy:     policy,
		logger:     logger,
	}
}

// OpenRequest describes a self-service ticket.
type OpenRequest struct {
	ClientID      string
	Title         string
	Description   string
	RequesterName string
}

// RecordRequest describes an admin-entered ticket, possibly already completed.
type RecordRequest struct {
	ClientID      string
	Title         string
	RequesterName string
	Description   string
	ServiceDate   time.Time
	Status        Status
	BillingInput
}

// UpdateRequest describes edits to an existing ticket. An empty StartTime or
// EndTime clears the field.
type UpdateRequest struct {
	ID            string
	Title         *string
	RequesterName *string
	Description   *string
	ServiceDate   *time.Time
	BillingInput
}

// CompleteRequest describes the completion of a ticket.
type CompleteRequest struct {
	ID          string
	ServiceDate *time.Time
	BillingInput
}

// TransitionRequest moves a ticket to another status. Billing fields only
// apply when completing.
type TransitionRequest struct {
	ID          string
	To          Status
	ServiceDate *time.Time
	BillingInput
}

// Open creates an open ticket for the caller's client, dated asOf. Client
// users always open tickets for their own client.
func (s *Service) Open(ctx context.Context, p access.Principal, req OpenRequest, asOf time.Time) (*Ticket, error) {
	clientID, err := p.ScopeClient(req.ClientID)
	if err != nil {
		return nil, err
	}

	requester := strings.TrimSpace(req.RequesterName)
	if requester == "" {
		requester = p.UserID
	}

	v := validation.Violations{}
	validation.Required("client_id", clientID, v)
	validateOpen(req.Title, req.Description, requester, v)
	if err := v.Err(ErrInvalidInput); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &Ticket{
		ID:              uuid.NewString(),
		ClientID:        clientID,
		CreatedByUserID: p.UserID,
		Title:           strings.TrimSpace(req.Title),
		RequesterName:   requester,
		Description:     strings.TrimSpace(req.Description),
		ServiceDate:     billing.Day(asOf),
		Status:          StatusOpen,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.create(ctx, p, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Record stores an admin-entered ticket in any status.
func (s *Service) Record(ctx context.Context, p access.Principal, req RecordRequest) (*Ticket, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = StatusOpen
	}

	now := time.Now().UTC()
	t := &Ticket{
		ID:              uuid.NewString(),
		ClientID:        strings.TrimSpace(req.ClientID),
		CreatedByUserID: p.UserID,
		Title:           strings.TrimSpace(req.Title),
		RequesterName:   strings.TrimSpace(req.RequesterName),
		Description:     strings.TrimSpace(req.Description),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if !req.ServiceDate.IsZero() {
		t.ServiceDate = billing.Day(req.ServiceDate)
	}

	v := validation.Violations{}
	validateRecord(t, v)
	t.applyBilling(resolveBilling(s.policy, status, req.BillingInput, v))
	if err := v.Err(ErrInvalidInput); err != nil {
		return nil, err
	}

	if err := s.create(ctx, p, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update edits descriptive and billing fields, re-applying the billing rules
// for the ticket's current status. Admin only.
func (s *Service) Update(ctx context.Context, p access.Principal, req UpdateRequest) (*Ticket, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, p, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Title != nil {
		updated.Title = strings.TrimSpace(*req.Title)
	}
	if req.RequesterName != nil {
		updated.RequesterName = strings.TrimSpace(*req.RequesterName)
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if req.ServiceDate != nil {
		updated.ServiceDate = billing.Day(*req.ServiceDate)
	}

	in := mergeBilling(current, req.BillingInput)
	v := validation.Violations{}
	validateRecord(&updated, v)
	updated.applyBilling(resolveBilling(s.policy, updated.Status, in, v))
	if err := v.Err(ErrInvalidInput); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, translateWriteError("updating ticket", err)
	}
	return &updated, nil
}

// Start moves an open ticket to in_progress. Admin only.
func (s *Service) Start(ctx context.Context, p access.Principal, id string) (*Ticket, error) {
	return s.Transition(ctx, p, TransitionRequest{ID: id, To: StatusInProgress})
}

// Complete closes a ticket and fixes its billed hours. Admin only.
func (s *Service) Complete(ctx context.Context, p access.Principal, req CompleteRequest) (*Ticket, error) {
	return s.Transition(ctx, p, TransitionRequest{
		ID:           req.ID,
		To:           StatusCompleted,
		ServiceDate:  req.ServiceDate,
		BillingInput: req.BillingInput,
	})
}

// Transition moves a ticket along its lifecycle. Admin only.
func (s *Service) Transition(ctx context.Context, p access.Principal, req TransitionRequest) (*Ticket, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, p, req.ID)
	if err != nil {
		return nil, err
	}
	if err := ValidateTransition(current.Status, req.To); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", err, current.Status, req.To)
	}

	updated := *current
	updated.Status = req.To
	if req.To == StatusCompleted {
		if req.ServiceDate != nil {
			updated.ServiceDate = billing.Day(*req.ServiceDate)
		}
		v := validation.Violations{}
		if updated.ServiceDate.IsZero() {
			v.Add("service_date", "is required")
		}
		updated.applyBilling(resolveBilling(s.policy, StatusCompleted, mergeBilling(current, req.BillingInput), v))
		if err := v.Err(ErrInvalidInput); err != nil {
			return nil, err
		}
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.tickets.Update(ctx, &updated); err != nil {
		return nil, translateWriteError("updating ticket status", err)
	}

	entryType := activity.TypeTicketTransitioned
	if updated.Status == StatusCompleted {
		entryType = activity.TypeTicketCompleted
	}
	activity.Append(ctx, s.activities, s.logger, &activity.ActivityEntry{
		ClientID:     &updated.ClientID,
		TicketID:     &updated.ID,
		ActorID:      p.UserID,
		ActivityType: entryType,
		Summary:      fmt.Sprintf("ticket %s: %s -> %s", updated.ID, current.Status, updated.Status),
		Details: activity.Details(map[string]any{
			"from":         current.Status,
			"to":           updated.Status,
			"billed_hours": updated.BilledHours,
		}),
	})
	return &updated, nil
}

// Delete removes a ticket regardless of status. Admin only.
func (s *Service) Delete(ctx context.Context, p access.Principal, id string) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	current, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTicketNotFound
		}
		return fmt.Errorf("deleting ticket: %w", err)
	}
	activity.Append(ctx, s.activities, s.logger, &activity.ActivityEntry{
		ClientID:     &current.ClientID,
		TicketID:     &current.ID,
		ActorID:      p.UserID,
		ActivityType: activity.TypeTicketDeleted,
		Summary:      fmt.Sprintf("deleted ticket %s (%s, %dh)", current.ID, current.Status, current.BilledHours),
	})
	return nil
}

// Get loads a ticket the principal is allowed to see.
func (s *Service) Get(ctx context.Context, p access.Principal, id string) (*Ticket, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("loading ticket: %w", err)
	}
	if !p.CanSeeClient(t.ClientID) {
		return nil, access.ErrForbidden
	}
	return t, nil
}

// List returns tickets visible to the principal, newest service date first.
func (s *Service) List(ctx context.Context, p access.Principal, opts ListOptions) ([]Ticket, error) {
	clientID, err := p.ScopeClient(opts.ClientID)
	if err != nil {
		return nil, err
	}
	opts.ClientID = clientID
	if opts.Status != nil && !opts.Status.Valid() {
		opts.Status = nil
	}
	if opts.From != nil && opts.To != nil && opts.To.Before(*opts.From) {
		return nil, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}
	opts.Search = strings.TrimSpace(opts.Search)
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}

	list, err := s.tickets.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	return list, nil
}

func (s *Service) create(ctx context.Context, p access.Principal, t *Ticket) error {
	if err := s.tickets.Create(ctx, t); err != nil {
		return translateWriteError("creating ticket", err)
	}
	activity.Append(ctx, s.activities, s.logger, &activity.ActivityEntry{
		ClientID:     &t.ClientID,
		TicketID:     &t.ID,
		ActorID:      p.UserID,
		ActivityType: activity.TypeTicketCreated,
		Summary:      fmt.Sprintf("created %s ticket %s", t.Status, t.ID),
	})
	return nil
}

func (t *Ticket) applyBilling(f billingFields) {
	t.StartTime = f.StartTime
	t.EndTime = f.EndTime
	t.DurationMinutes = f.DurationMinutes
	t.BilledHours = f.BilledHours
}

// mergeBilling overlays requested changes on the ticket's stored billing
// fields. Stored billed hours are carried only when the caller supplies no
// new timing, so an edited duration re-derives the charge.
func mergeBilling(current *Ticket, in BillingInput) BillingInput {
	out := in
	if out.StartTime == nil {
		out.StartTime = current.StartTime
	}
	if out.EndTime == nil {
		out.EndTime = current.EndTime
	}
	if out.DurationMinutes == nil {
		out.DurationMinutes = current.DurationMinutes
	}
	timingChanged := in.StartTime != nil || in.EndTime != nil || in.DurationMinutes != nil
	if out.BilledHours == nil && !timingChanged && current.Status == StatusCompleted {
		billed := current.BilledHours
		out.BilledHours = &billed
	}
	return out
}

func translateWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrTicketNotFound
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrClientNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
