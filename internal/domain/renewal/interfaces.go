package renewal

import (
	"context"
	"time"

	"github.com/rpggio/hourbank/internal/domain/contract"
)

// Repository provides the storage operations the renewal engine relies on.
type Repository interface {
	// ListExpiredRecurring returns recurring contracts whose end date is
	// strictly before asOf.
	ListExpiredRecurring(ctx context.Context, asOf time.Time) ([]contract.Contract, error)
	// HasSuccessor reports whether clientID has any contract starting after
	// the given date.
	HasSuccessor(ctx context.Context, clientID string, after time.Time) (bool, error)
	// Renew inserts successor and clears the recurring flag of originalID in
	// one transaction. It returns false without writing anything when a
	// successor for the same client already exists, including one inserted
	// concurrently.
	Renew(ctx context.Context, originalID string, successor *contract.Contract) (bool, error)
}
