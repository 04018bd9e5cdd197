package access

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hourbank/internal/repository"
)

// Service issues and resolves API keys.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new access service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// IssueRequest describes a new API key.
type IssueRequest struct {
	UserID      string
	Role        Role
	ClientID    string
	Description string
}

// IssueKey creates a key for the given principal and returns the clear token.
// Only the hash is stored.
func (s *Service) IssueKey(ctx context.Context, req IssueRequest) (string, *APIKey, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = uuid.NewString()
	}
	p := Principal{UserID: userID, Role: req.Role, ClientID: strings.TrimSpace(req.ClientID)}
	if err := p.Validate(); err != nil {
		return "", nil, err
	}
	if p.IsAdmin() {
		p.ClientID = ""
	}

	token := "hb_" + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	key := &APIKey{
		KeyHash:     HashToken(token),
		UserID:      p.UserID,
		Role:        p.Role,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if p.ClientID != "" {
		key.ClientID = &p.ClientID
	}

	if err := s.repo.Create(ctx, key); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return "", nil, fmt.Errorf("%w: unknown client %s", ErrInvalidInput, p.ClientID)
		}
		return "", nil, fmt.Errorf("creating api key: %w", err)
	}
	return token, key, nil
}

// ResolvePrincipal maps a bearer token to its principal.
func (s *Service) ResolvePrincipal(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, ErrUnauthenticated
	}
	hash := HashToken(token)
	key, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Principal{}, ErrUnauthenticated
		}
		return Principal{}, fmt.Errorf("resolving api key: %w", err)
	}
	if err := s.repo.TouchLastUsed(ctx, hash); err != nil && s.logger != nil {
		s.logger.Warn("failed to record api key use", "user_id", key.UserID, "error", err)
	}
	return key.Principal(), nil
}

// HashToken returns the hex SHA-256 of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
