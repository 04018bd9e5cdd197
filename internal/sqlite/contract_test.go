package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/hourbank/internal/domain/billing"
	"github.com/rpggio/hourbank/internal/domain/contract"
	"github.com/rpggio/hourbank/internal/domain/renewal"
	"github.com/rpggio/hourbank/internal/repository"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := billing.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newContract(t *testing.T, id, clientID, start, end string, recurring bool) *contract.Contract {
	now := time.Now().UTC()
	return &contract.Contract{
		ID:               id,
		ClientID:         clientID,
		StartDate:        day(t, start),
		EndDate:          day(t, end),
		ContractedHours:  40,
		Notes:            "support",
		IsRecurring:      recurring,
		RecurrenceMonths: 1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestContractRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	repo := NewContractRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newContract(t, "k1", "c1", "2024-06-01", "2024-06-30", true)))

	got, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "Acme", got.ClientName)
	require.Equal(t, day(t, "2024-06-01"), got.StartDate)
	require.Equal(t, day(t, "2024-06-30"), got.EndDate)
	require.True(t, got.IsRecurring)
	require.Equal(t, 40, got.ContractedHours)
	require.Equal(t, "support", got.Notes)

	_, err = repo.Get(ctx, "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestContractRepository_CreateConflicts(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	repo := NewContractRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newContract(t, "k1", "c1", "2024-06-01", "2024-06-30", false)))
	err := repo.Create(ctx, newContract(t, "k2", "c1", "2024-06-01", "2024-07-31", false))
	require.ErrorIs(t, err, repository.ErrConflict)

	err = repo.Create(ctx, newContract(t, "k3", "ghost", "2024-06-01", "2024-06-30", false))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestContractRepository_ActiveOn(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	seedClient(t, db, "c2", "Beta")
	repo := NewContractRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newContract(t, "base", "c1", "2024-06-01", "2024-06-30", false)))
	require.NoError(t, repo.Create(ctx, newContract(t, "upgrade", "c1", "2024-06-10", "2024-07-09", false)))
	require.NoError(t, repo.Create(ctx, newContract(t, "other", "c2", "2024-06-01", "2024-06-30", false)))

	list, err := repo.ActiveOn(ctx, "c1", day(t, "2024-06-15"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "upgrade", list[0].ID)

	list, err = repo.ActiveOn(ctx, "c1", day(t, "2024-06-30"))
	require.NoError(t, err)
	require.Len(t, list, 2, "end date is inclusive")

	list, err = repo.ActiveOn(ctx, "", day(t, "2024-06-05"))
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = repo.ActiveOn(ctx, "c2", day(t, "2024-07-01"))
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestContractRepository_EndingBetween(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	seedClient(t, db, "c2", "Beta")
	seedClient(t, db, "c3", "Gamma")
	repo := NewContractRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newContract(t, "today", "c1", "2024-06-01", "2024-06-30", false)))
	require.NoError(t, repo.Create(ctx, newContract(t, "later", "c2", "2024-06-01", "2024-07-31", false)))
	require.NoError(t, repo.Create(ctx, newContract(t, "future", "c3", "2024-07-02", "2024-07-05", false)))

	list, err := repo.EndingBetween(ctx, day(t, "2024-06-30"), day(t, "2024-07-07"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "today", list[0].ID)
}

func TestContractRepository_RenewTransaction(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	repo := NewContractRepository(db)
	ctx := context.Background()

	original := newContract(t, "k1", "c1", "2024-01-01", "2024-01-31", true)
	require.NoError(t, repo.Create(ctx, original))

	expired, err := repo.ListExpiredRecurring(ctx, day(t, "2024-02-10"))
	require.NoError(t, err)
	require.Len(t, expired, 1)

	successor := original.Successor("k2", time.Now().UTC())
	created, err := repo.Renew(ctx, "k1", successor)
	require.NoError(t, err)
	require.True(t, created)

	got, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	require.False(t, got.IsRecurring)

	next, err := repo.Get(ctx, "k2")
	require.NoError(t, err)
	require.Equal(t, "2024-02-01", billing.FormatDate(next.StartDate))
	require.Equal(t, "2024-02-29", billing.FormatDate(next.EndDate))
	require.True(t, next.IsRecurring)

	exists, err := repo.HasSuccessor(ctx, "c1", original.EndDate)
	require.NoError(t, err)
	require.True(t, exists)

	again, err := repo.Renew(ctx, "k1", original.Successor("k3", time.Now().UTC()))
	require.NoError(t, err)
	require.False(t, again)
	_, err = repo.Get(ctx, "k3")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestContractRepository_RenewFailureKeepsFlag(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	repo := NewContractRepository(db)
	ctx := context.Background()

	original := newContract(t, "k1", "c1", "2024-01-01", "2024-01-31", true)
	require.NoError(t, repo.Create(ctx, original))

	bad := original.Successor("k2", time.Now().UTC())
	bad.RecurrenceMonths = 99
	_, err := repo.Renew(ctx, "k1", bad)
	require.Error(t, err)

	got, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, got.IsRecurring)
	_, err = repo.Get(ctx, "k2")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestRenewalEngine_WithSQLite(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	seedClient(t, db, "c2", "Beta")
	repo := NewContractRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newContract(t, "k1", "c1", "2024-01-01", "2024-01-31", true)))
	require.NoError(t, repo.Create(ctx, newContract(t, "k2", "c2", "2024-01-01", "2024-01-31", true)))
	require.NoError(t, repo.Create(ctx, newContract(t, "manual", "c2", "2024-02-01", "2024-02-29", false)))

	engine := renewal.NewEngine(repo, NewActivityRepository(db), nil)
	asOf := day(t, "2024-02-10")

	var wg sync.WaitGroup
	summaries := make([]renewal.Summary, 4)
	for i := range summaries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summaries[i], _ = engine.Run(ctx, asOf)
		}(i)
	}
	wg.Wait()

	renewed := 0
	for _, s := range summaries {
		require.True(t, s.Success)
		require.Empty(t, s.Errors)
		renewed += s.Renewed
	}
	require.Equal(t, 1, renewed, "exactly one run renews k1")

	list, err := repo.List(ctx, contract.ListOptions{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = repo.List(ctx, contract.ListOptions{ClientID: "c2"})
	require.NoError(t, err)
	require.Len(t, list, 2, "existing successor prevents renewal")
}
