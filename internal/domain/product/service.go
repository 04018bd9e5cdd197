package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/repository"
)

// Service handles product usage records.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new product usage service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest describes a new usage record.
type CreateRequest struct {
	ClientID        string
	CompetenceMonth string
	ProductName     string
	Quantity        float64
	Notes           string
}

// UpdateRequest describes changes to a usage record.
type UpdateRequest struct {
	ID              string
	CompetenceMonth *string
	ProductName     *string
	Quantity        *float64
	Notes           *string
}

// Create stores a usage record. Admin only.
func (s *Service) Create(ctx context.Context, p access.Principal, req CreateRequest) (*Usage, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &Usage{
		ID:              uuid.NewString(),
		ClientID:        req.ClientID,
		CompetenceMonth: req.CompetenceMonth,
		ProductName:     req.ProductName,
		Quantity:        req.Quantity,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	normalize(u)
	if err := Validate(u); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, translateWriteError("creating product usage", err)
	}
	return u, nil
}

// Update edits a usage record. Admin only.
func (s *Service) Update(ctx context.Context, p access.Principal, req UpdateRequest) (*Usage, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	current, err := s.get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.CompetenceMonth != nil {
		updated.CompetenceMonth = *req.CompetenceMonth
	}
	if req.ProductName != nil {
		updated.ProductName = *req.ProductName
	}
	if req.Quantity != nil {
		updated.Quantity = *req.Quantity
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	normalize(&updated)
	if err := Validate(&updated); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, translateWriteError("updating product usage", err)
	}
	return &updated, nil
}

// Delete removes a usage record. Admin only.
func (s *Service) Delete(ctx context.Context, p access.Principal, id string) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateWriteError("deleting product usage", err)
	}
	return nil
}

// List returns usage records visible to the principal.
func (s *Service) List(ctx context.Context, p access.Principal, opts ListOptions) ([]Usage, error) {
	clientID, err := p.ScopeClient(opts.ClientID)
	if err != nil {
		return nil, err
	}
	opts.ClientID = clientID
	if opts.CompetenceMonth != "" {
		if _, err := billing.ParseCompetence(opts.CompetenceMonth); err != nil {
			return nil, fmt.Errorf("%w: competence_month must be YYYY-MM", ErrInvalidInput)
		}
	}
	list, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing product usage: %w", err)
	}
	return list, nil
}

func (s *Service) get(ctx context.Context, id string) (*Usage, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUsageNotFound
		}
		return nil, fmt.Errorf("loading product usage: %w", err)
	}
	return u, nil
}

func translateWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUsageNotFound
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ErrClientNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
