package access

import "time"

// Role is the coarse permission level of a caller.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleClientUser Role = "CLIENT_USER"
)

// Principal is the authorization context passed explicitly to every query and
// mutation. Client users are bound to exactly one client.
type Principal struct {
	UserID   string `json:"user_id"`
	Role     Role   `json:"role"`
	ClientID string `json:"client_id,omitempty"`
}

// APIKey binds a hashed bearer token to a principal.
type APIKey struct {
	KeyHash     string     `db:"key_hash" json:"-"`
	UserID      string     `db:"user_id" json:"user_id"`
	Role        Role       `db:"role" json:"role"`
	ClientID    *string    `db:"client_id" json:"client_id,omitempty"`
	Description string     `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	LastUsed    *time.Time `db:"last_used" json:"last_used,omitempty"`
}

// Principal returns the authorization context carried by the key.
func (k *APIKey) Principal() Principal {
	p := Principal{UserID: k.UserID, Role: k.Role}
	if k.ClientID != nil {
		p.ClientID = *k.ClientID
	}
	return p
}
