package access

import (
	"context"
	"strings"

	"github.com/rpggio/hourbank/internal/validation"
)

// System is the principal used by scheduled jobs.
func System() Principal {
	return Principal{UserID: "system", Role: RoleAdmin}
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Validate checks role and client binding.
func (p Principal) Validate() error {
	v := validation.Violations{}
	switch p.Role {
	case RoleAdmin:
	case RoleClientUser:
		if strings.TrimSpace(p.ClientID) == "" {
			v.Add("client_id", "is required for client users")
		}
	default:
		v.Add("role", "must be ADMIN or CLIENT_USER")
	}
	return v.Err(ErrInvalidInput)
}

// RequireAdmin fails with ErrForbidden for anyone but administrators.
func (p Principal) RequireAdmin() error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ScopeClient resolves which client's data a query may read. Client users
// always resolve to their own client; asking for another one is forbidden.
// Admins get back whatever they asked for, including "" (all clients).
func (p Principal) ScopeClient(requested string) (string, error) {
	if p.IsAdmin() {
		return requested, nil
	}
	if p.Role != RoleClientUser || p.ClientID == "" {
		return "", ErrForbidden
	}
	if requested != "" && requested != p.ClientID {
		return "", ErrForbidden
	}
	return p.ClientID, nil
}

// CanSeeClient reports whether the principal may read data owned by clientID.
func (p Principal) CanSeeClient(clientID string) bool {
	return p.IsAdmin() || (p.ClientID != "" && p.ClientID == clientID)
}

type principalKey struct{}

// WithPrincipal stores the principal in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, if present.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
