package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/hourbank/internal/domain/access"
)

const defaultListLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.ActivityType == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists activity entries visible to the principal, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, p access.Principal, opts ListActivityOptions) ([]ActivityEntry, error) {
	clientID, err := p.ScopeClient(opts.ClientID)
	if err != nil {
		return nil, err
	}
	opts.ClientID = clientID
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	entries, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}

// Append writes an entry through repo, logging instead of failing when the
// audit write does not succeed. A nil repo is a no-op.
func Append(ctx context.Context, repo Repository, logger *slog.Logger, entry *ActivityEntry) {
	if repo == nil || entry == nil {
		return
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := repo.Log(ctx, entry); err != nil && logger != nil {
		logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}

// Details encodes v as the JSON details payload of an entry.
func Details(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
