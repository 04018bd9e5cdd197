package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/hourbank/internal/domain/product"
	"github.com/rpggio/hourbank/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	seedClient(t, db, "c1", "Acme")
	seedClient(t, db, "c2", "Beta")
	repo := NewProductRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	u := &product.Usage{ID: "p1", ClientID: "c1", CompetenceMonth: "2024-05", ProductName: "Office 365", Quantity: 12, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, &product.Usage{ID: "p2", ClientID: "c1", CompetenceMonth: "2024-06", ProductName: "Backup", Quantity: 1.5, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repo.Create(ctx, &product.Usage{ID: "p3", ClientID: "c2", CompetenceMonth: "2024-06", ProductName: "Antivirus", Quantity: 30, CreatedAt: now, UpdatedAt: now}))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Acme", got.ClientName)
	require.Equal(t, 12.0, got.Quantity)

	list, err := repo.List(ctx, product.ListOptions{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "2024-06", list[0].CompetenceMonth)

	list, err = repo.List(ctx, product.ListOptions{CompetenceMonth: "2024-06"})
	require.NoError(t, err)
	require.Len(t, list, 2)

	u.Quantity = 14
	u.Notes = "two new seats"
	require.NoError(t, repo.Update(ctx, u))
	got, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 14.0, got.Quantity)
	require.Equal(t, "two new seats", got.Notes)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.Get(ctx, "p1")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestProductRepository_UnknownClient(t *testing.T) {
	db := NewTestDB(t)
	now := time.Now().UTC()
	err := NewProductRepository(db).Create(context.Background(), &product.Usage{
		ID: "p1", ClientID: "ghost", CompetenceMonth: "2024-05", ProductName: "x", Quantity: 1, CreatedAt: now, UpdatedAt: now,
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
