package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hourbank/internal/domain/access"
	"github.com/rpggio/hourbank/internal/repository"
)

// Service handles client business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new client service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest describes a client creation request.
type CreateRequest struct {
	Name   string
	Status Status
}

// UpdateRequest describes a client update request.
type UpdateRequest struct {
	ID     string
	Name   *string
	Status *Status
}

// Create registers a new client. Admin only.
func (s *Service) Create(ctx context.Context, p access.Principal, req CreateRequest) (*Client, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	name := normalizeName(req.Name)
	if err := validateFields(name, status); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Client{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return c, nil
}

// Get loads a client the principal is allowed to see.
func (s *Service) Get(ctx context.Context, p access.Principal, id string) (*Client, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if !p.CanSeeClient(id) {
		return nil, access.ErrForbidden
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("loading client: %w", err)
	}
	return c, nil
}

// Update changes a client's name or status. Admin only.
func (s *Service) Update(ctx context.Context, p access.Principal, req UpdateRequest) (*Client, error) {
	if err := p.RequireAdmin(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, p, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Name != nil {
		updated.Name = normalizeName(*req.Name)
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if err := validateFields(updated.Name, updated.Status); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("updating client: %w", err)
	}
	return &updated, nil
}

// Delete removes a client that owns no dependent rows. Admin only.
func (s *Service) Delete(ctx context.Context, p access.Principal, id string) error {
	if err := p.RequireAdmin(); err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrClientNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return ErrClientInUse
		}
		return fmt.Errorf("deleting client: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("client deleted", "client_id", id, "actor", p.UserID)
	}
	return nil
}

// List returns clients ordered by name. Client users only see their own.
func (s *Service) List(ctx context.Context, p access.Principal, opts ListOptions) ([]Client, error) {
	if !p.IsAdmin() {
		c, err := s.Get(ctx, p, p.ClientID)
		if err != nil {
			return nil, err
		}
		if opts.Status != nil && c.Status != *opts.Status {
			return []Client{}, nil
		}
		return []Client{*c}, nil
	}
	clients, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

// ListActive returns active clients ordered by name.
func (s *Service) ListActive(ctx context.Context, p access.Principal) ([]Client, error) {
	status := StatusActive
	return s.List(ctx, p, ListOptions{Status: &status})
}
